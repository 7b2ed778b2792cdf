package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of activity events
type EventType string

const (
	// Document events
	EventDocumentUploaded  EventType = "document.uploaded"
	EventDocumentProcessed EventType = "document.processed"

	// Question events
	EventQuestionAnswered  EventType = "question.answered"
	EventQuestionGenerated EventType = "question.generated"

	// Progress events
	EventProgressRecalculated EventType = "progress.recalculated"
	EventFeedbackRecorded     EventType = "feedback.recorded"
)

// ActivityEvent is the base envelope for all events published by the service
type ActivityEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Document event payloads

type DocumentUploadedEvent struct {
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename"`
	Category   string    `json:"category"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type DocumentProcessedEvent struct {
	DocumentID     string    `json:"document_id"`
	Filename       string    `json:"filename"`
	TotalQuestions int       `json:"total_questions"`
	ProcessedAt    time.Time `json:"processed_at"`
}

// Question event payloads

type QuestionAnsweredEvent struct {
	UserID     string    `json:"user_id"`
	QuestionID string    `json:"question_id"`
	Theme      string    `json:"theme"`
	IsCorrect  bool      `json:"is_correct"`
	AnsweredAt time.Time `json:"answered_at"`
}

type QuestionGeneratedEvent struct {
	QuestionID  string    `json:"question_id"`
	Theme       string    `json:"theme"`
	Type        string    `json:"type"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Progress event payloads

type ProgressRecalculatedEvent struct {
	UserID       string `json:"user_id"`
	Literasi     int    `json:"literasi"`
	Numerik      int    `json:"numerik"`
	Sains        int    `json:"sains"`
	TotalLessons int    `json:"total_lessons"`
}

type FeedbackRecordedEvent struct {
	UserID     string  `json:"user_id"`
	Rating     int     `json:"rating"`
	NewAverage float64 `json:"new_average"`
}

// Event factory functions

func newEvent(eventType EventType, data interface{}) *ActivityEvent {
	return &ActivityEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "tutor-app",
		Version:   "1.0",
		Data:      data,
	}
}

func NewDocumentUploadedEvent(documentID, filename, category string, uploadedAt time.Time) *ActivityEvent {
	return newEvent(EventDocumentUploaded, DocumentUploadedEvent{
		DocumentID: documentID,
		Filename:   filename,
		Category:   category,
		UploadedAt: uploadedAt,
	})
}

func NewDocumentProcessedEvent(documentID, filename string, totalQuestions int, processedAt time.Time) *ActivityEvent {
	return newEvent(EventDocumentProcessed, DocumentProcessedEvent{
		DocumentID:     documentID,
		Filename:       filename,
		TotalQuestions: totalQuestions,
		ProcessedAt:    processedAt,
	})
}

func NewQuestionAnsweredEvent(userID, questionID, theme string, isCorrect bool, answeredAt time.Time) *ActivityEvent {
	return newEvent(EventQuestionAnswered, QuestionAnsweredEvent{
		UserID:     userID,
		QuestionID: questionID,
		Theme:      theme,
		IsCorrect:  isCorrect,
		AnsweredAt: answeredAt,
	})
}

func NewQuestionGeneratedEvent(questionID, theme, questionType string, generatedAt time.Time) *ActivityEvent {
	return newEvent(EventQuestionGenerated, QuestionGeneratedEvent{
		QuestionID:  questionID,
		Theme:       theme,
		Type:        questionType,
		GeneratedAt: generatedAt,
	})
}

func NewProgressRecalculatedEvent(userID string, literasi, numerik, sains, totalLessons int) *ActivityEvent {
	return newEvent(EventProgressRecalculated, ProgressRecalculatedEvent{
		UserID:       userID,
		Literasi:     literasi,
		Numerik:      numerik,
		Sains:        sains,
		TotalLessons: totalLessons,
	})
}

func NewFeedbackRecordedEvent(userID string, rating int, newAverage float64) *ActivityEvent {
	return newEvent(EventFeedbackRecorded, FeedbackRecordedEvent{
		UserID:     userID,
		Rating:     rating,
		NewAverage: newAverage,
	})
}
