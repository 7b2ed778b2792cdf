package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Ramandaygy/tutor-app/internal/cache"
	"github.com/Ramandaygy/tutor-app/internal/events"
	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
)

const (
	progressCacheKeyPrefix = "progress:"
	progressCacheTTL       = 5 * time.Minute
)

// adminEditableFields is the allow-list for AdminUpdate. Keys are column
// names; last_activity_date and rating_count are deliberately absent because
// they are maintained by the streak and feedback paths.
var adminEditableFields = map[string]struct{}{
	"literasi":      {},
	"numerik":       {},
	"sains":         {},
	"rating":        {},
	"total_lessons": {},
	"streak_days":   {},
}

// ProgressService maintains per-user progress: theme scores recomputed from
// the activity log, the daily streak, and the chatbot feedback average.
type ProgressService interface {
	// Get returns the user's progress, creating a zero-valued record on first
	// access.
	Get(ctx context.Context, userID string) (*models.Progress, error)

	// Recalculate rebuilds theme scores and total_lessons from the activity
	// log. Rating and streak state are left untouched. A user with no logged
	// activity gets a zero-valued record persisted.
	Recalculate(ctx context.Context, userID string) (*models.Progress, error)

	// TouchStreak advances the daily streak for activity happening now: same
	// day keeps the streak, the next day extends it by one, a longer gap
	// resets it to one.
	TouchStreak(ctx context.Context, userID string) (*models.Progress, error)

	// RecordFeedback stores one chatbot rating and folds it into the running
	// average on the progress record.
	RecordFeedback(ctx context.Context, userID string, rating int, message, theme string) (*models.Progress, error)

	GetAll(ctx context.Context) ([]*models.Progress, error)
	AdminUpdate(ctx context.Context, userID string, fields map[string]interface{}) (*models.Progress, error)
	Stats(ctx context.Context) (*PlatformStats, error)
}

// PlatformStats is the admin dashboard snapshot: progress averages plus the
// size of the question bank per source.
type PlatformStats struct {
	repositories.ProgressStats
	QuestionsBySource map[string]int64 `json:"questions_by_source"`
}

type progressService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger

	// injectable for streak tests
	now func() time.Time
}

func NewProgressService(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, logger *slog.Logger) ProgressService {
	return &progressService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *progressService) Get(ctx context.Context, userID string) (*models.Progress, error) {
	if s.cache != nil {
		var cached models.Progress
		if err := s.cache.Get(ctx, progressCacheKeyPrefix+userID, &cached); err == nil {
			return &cached, nil
		}
	}

	progress, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheProgress(ctx, progress)
	return progress, nil
}

func (s *progressService) Recalculate(ctx context.Context, userID string) (*models.Progress, error) {
	logs, err := s.repo.Activity().GetByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity log: %w", err)
	}

	// An empty log yields a zero-valued record; the partial merge below still
	// keeps rating and streak state intact.
	progress := models.NewProgress(userID)
	for _, entry := range logs {
		if !models.IsRecognizedTheme(entry.Theme) {
			continue
		}
		switch models.Theme(entry.Theme) {
		case models.ThemeLiterasi:
			progress.Literasi += entry.Score
		case models.ThemeNumerik:
			progress.Numerik += entry.Score
		case models.ThemeSains:
			progress.Sains += entry.Score
		}
	}
	progress.TotalLessons = len(logs)

	if err := s.repo.Progress().UpsertScores(ctx, nil, progress); err != nil {
		return nil, fmt.Errorf("failed to upsert progress scores: %w", err)
	}
	s.invalidate(ctx, userID)

	if err := s.publisher.PublishActivityEvent(ctx, events.NewProgressRecalculatedEvent(
		userID, progress.Literasi, progress.Numerik, progress.Sains, progress.TotalLessons)); err != nil {
		s.logger.Warn("Failed to publish progress recalculated event", "user_id", userID, "error", err)
	}

	updated, err := s.repo.Progress().GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload progress: %w", err)
	}
	return updated, nil
}

func (s *progressService) TouchStreak(ctx context.Context, userID string) (*models.Progress, error) {
	progress, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := midnightUTC(s.now())
	streak := progress.StreakDays

	switch {
	case progress.LastActivityDate == nil:
		streak = 1
	default:
		delta := daysBetween(*progress.LastActivityDate, today)
		switch {
		case delta <= 0:
			// same day, streak unchanged; a stored date ahead of the clock is
			// treated the same way instead of resetting
		case delta == 1:
			streak++
		default:
			streak = 1
		}
	}

	if err := s.repo.Progress().UpdateStreak(ctx, nil, userID, streak, today); err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}
	s.invalidate(ctx, userID)

	progress.StreakDays = streak
	progress.LastActivityDate = &today
	return progress, nil
}

func (s *progressService) RecordFeedback(ctx context.Context, userID string, rating int, message, theme string) (*models.Progress, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if theme == "" {
		theme = "umum"
	}

	entry := &models.FeedbackEntry{
		UserID:  userID,
		Theme:   theme,
		Rating:  rating,
		Message: message,
	}
	if err := s.repo.Activity().CreateFeedback(ctx, nil, entry); err != nil {
		return nil, fmt.Errorf("failed to store feedback: %w", err)
	}

	progress, err := s.repo.Progress().AddFeedbackScore(ctx, nil, userID, float64(rating))
	if err != nil {
		return nil, fmt.Errorf("failed to update rating average: %w", err)
	}
	s.invalidate(ctx, userID)

	if err := s.publisher.PublishActivityEvent(ctx, events.NewFeedbackRecordedEvent(userID, rating, progress.Rating)); err != nil {
		s.logger.Warn("Failed to publish feedback event", "user_id", userID, "error", err)
	}

	return progress, nil
}

func (s *progressService) GetAll(ctx context.Context) ([]*models.Progress, error) {
	return s.repo.Progress().GetAll(ctx, nil)
}

func (s *progressService) AdminUpdate(ctx context.Context, userID string, fields map[string]interface{}) (*models.Progress, error) {
	if len(fields) == 0 {
		return nil, NewValidationError("fields", "no fields to update", nil)
	}
	filtered := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if _, ok := adminEditableFields[key]; !ok {
			return nil, NewValidationError(key, "field is not editable", value)
		}
		filtered[key] = value
	}

	if _, err := s.getOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.Progress().UpdateFields(ctx, nil, userID, filtered); err != nil {
		return nil, fmt.Errorf("failed to update progress fields: %w", err)
	}
	s.invalidate(ctx, userID)

	return s.repo.Progress().GetByUserID(ctx, nil, userID)
}

func (s *progressService) Stats(ctx context.Context) (*PlatformStats, error) {
	progressStats, err := s.repo.Progress().GlobalStats(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress stats: %w", err)
	}

	stats := &PlatformStats{
		ProgressStats:     *progressStats,
		QuestionsBySource: make(map[string]int64, 3),
	}
	for _, source := range []models.QuestionSource{models.SourceManual, models.SourcePDF, models.SourceGenerated} {
		count, err := s.repo.Question().CountBySource(ctx, nil, source)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s questions: %w", source, err)
		}
		stats.QuestionsBySource[string(source)] = count
	}
	return stats, nil
}

// ===== HELPERS =====

func (s *progressService) getOrCreate(ctx context.Context, userID string) (*models.Progress, error) {
	progress, err := s.repo.Progress().GetByUserID(ctx, nil, userID)
	if err == nil {
		return progress, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	progress = models.NewProgress(userID)
	if err := s.repo.Progress().Create(ctx, nil, progress); err != nil {
		// lost a creation race, the record exists now
		existing, getErr := s.repo.Progress().GetByUserID(ctx, nil, userID)
		if getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create progress: %w", err)
	}
	s.logger.Info("Created progress record", "user_id", userID)
	return progress, nil
}

func (s *progressService) cacheProgress(ctx context.Context, progress *models.Progress) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, progressCacheKeyPrefix+progress.UserID, progress, progressCacheTTL); err != nil {
		s.logger.Warn("Failed to cache progress", "user_id", progress.UserID, "error", err)
	}
}

func (s *progressService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, progressCacheKeyPrefix+userID); err != nil {
		s.logger.Warn("Failed to invalidate progress cache", "user_id", userID, "error", err)
	}
}

// midnightUTC truncates t to day granularity in UTC.
func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole-day difference between two midnight-UTC dates.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(midnightUTC(from)).Hours() / 24)
}
