package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/Ramandaygy/tutor-app/internal/models"
	"gorm.io/gorm"
)

// Repository aggregates the per-collection repositories. Every method accepts
// an optional *gorm.DB so a service can thread one transaction through
// multiple repositories; nil means the shared connection.
type Repository interface {
	Question() QuestionRepository
	Document() DocumentRepository
	Activity() ActivityRepository
	Progress() ProgressRepository

	// Transaction runs fn inside one database transaction, rolling back when
	// fn returns an error.
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// QuestionRepository persists tryout questions.
type QuestionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, question *models.TryoutQuestion) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.TryoutQuestion, error)
	Update(ctx context.Context, tx *gorm.DB, question *models.TryoutQuestion) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error

	List(ctx context.Context, tx *gorm.DB, filters QuestionFilters) ([]*models.TryoutQuestion, int64, error)
	CountBySource(ctx context.Context, tx *gorm.DB, source models.QuestionSource) (int64, error)
}

// DocumentRepository persists uploaded tryout PDFs and owns the process-once
// guard: GetForProcessing must lock the row so two concurrent process calls
// cannot both observe processed=false.
type DocumentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, doc *models.TryoutDocument) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.TryoutDocument, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.TryoutDocument, int64, error)

	GetForProcessing(ctx context.Context, tx *gorm.DB, id string) (*models.TryoutDocument, error)
	MarkProcessed(ctx context.Context, tx *gorm.DB, id string, processedAt time.Time, totalQuestions int) error
}

// ActivityRepository is the append-only answer log.
type ActivityRepository interface {
	Create(ctx context.Context, tx *gorm.DB, entry *models.ActivityLog) error
	GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.ActivityLog, error)
	GetRecent(ctx context.Context, tx *gorm.DB, userID string, theme string, limit int) ([]*models.ActivityLog, error)
	GetAll(ctx context.Context, tx *gorm.DB, limit int) ([]*models.ActivityLog, error)

	HasAnswered(ctx context.Context, tx *gorm.DB, userID, questionID string) (bool, error)
	AnsweredQuestionIDs(ctx context.Context, tx *gorm.DB, userID, theme string) ([]string, error)

	CreateFeedback(ctx context.Context, tx *gorm.DB, entry *models.FeedbackEntry) error
}

// ProgressRepository persists per-user progress. Scores and streak updates are
// partial-field writes so rating state survives recomputation and vice versa.
type ProgressRepository interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Progress, error)
	Create(ctx context.Context, tx *gorm.DB, progress *models.Progress) error
	GetAll(ctx context.Context, tx *gorm.DB) ([]*models.Progress, error)

	// UpsertScores replaces the recomputable fields only.
	UpsertScores(ctx context.Context, tx *gorm.DB, progress *models.Progress) error
	// UpdateStreak writes streak_days and last_activity_date only.
	UpdateStreak(ctx context.Context, tx *gorm.DB, userID string, streakDays int, lastActivity time.Time) error
	// AddFeedbackScore folds a new rating into the running mean as a single
	// atomic statement; concurrent submissions cannot lose an increment.
	AddFeedbackScore(ctx context.Context, tx *gorm.DB, userID string, score float64) (*models.Progress, error)
	// UpdateFields applies an admin edit; callers pass allow-listed columns.
	UpdateFields(ctx context.Context, tx *gorm.DB, userID string, fields map[string]interface{}) error

	GlobalStats(ctx context.Context, tx *gorm.DB) (*ProgressStats, error)
}

// ===== SHARED FILTER AND STAT STRUCTS =====

type QuestionFilters struct {
	Type      *models.QuestionType   `json:"type"`
	Category  *string                `json:"category"`
	Theme     *string                `json:"theme"`
	Source    *models.QuestionSource `json:"source"`
	Limit     int                    `json:"limit"`
	Offset    int                    `json:"offset"`
	SortBy    string                 `json:"sort_by"`    // "created_at", "category"
	SortOrder string                 `json:"sort_order"` // "asc", "desc"
}

type ProgressStats struct {
	AvgLiterasi float64 `json:"avg_literasi"`
	AvgNumerik  float64 `json:"avg_numerik"`
	AvgSains    float64 `json:"avg_sains"`
	TotalUsers  int64   `json:"total_users"`
}

// IsNotFoundError reports whether err is the store's missing-record error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
