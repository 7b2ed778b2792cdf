package config

import (
	"log/slog"
	"strings"

	"github.com/Ramandaygy/tutor-app/internal/events"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled       bool
	Publisher     string // kafka or noop
	KafkaBrokers  string
	ActivityTopic string
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *slog.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using noop publisher")
		return events.NewNoopEventPublisher(), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			"brokers", c.KafkaBrokers,
			"topic", c.ActivityTopic)

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.ActivityTopic,
			Logger:       logger,
		})
	case "noop":
		logger.Info("Using noop event publisher")
		return events.NewNoopEventPublisher(), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to noop", "publisher", c.Publisher)
		return events.NewNoopEventPublisher(), nil
	}
}
