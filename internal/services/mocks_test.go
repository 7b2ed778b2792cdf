package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockQuestionRepository is a mock implementation of QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, tx *gorm.DB, question *models.TryoutQuestion) error {
	args := m.Called(ctx, tx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.TryoutQuestion, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TryoutQuestion), args.Error(1)
}

func (m *MockQuestionRepository) Update(ctx context.Context, tx *gorm.DB, question *models.TryoutQuestion) error {
	args := m.Called(ctx, tx, question)
	return args.Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockQuestionRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.TryoutQuestion, int64, error) {
	args := m.Called(ctx, tx, filters)
	return args.Get(0).([]*models.TryoutQuestion), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionRepository) CountBySource(ctx context.Context, tx *gorm.DB, source models.QuestionSource) (int64, error) {
	args := m.Called(ctx, tx, source)
	return args.Get(0).(int64), args.Error(1)
}

// MockDocumentRepository is a mock implementation of DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, tx *gorm.DB, doc *models.TryoutDocument) error {
	args := m.Called(ctx, tx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.TryoutDocument, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TryoutDocument), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.TryoutDocument, int64, error) {
	args := m.Called(ctx, tx, limit, offset)
	return args.Get(0).([]*models.TryoutDocument), args.Get(1).(int64), args.Error(2)
}

func (m *MockDocumentRepository) GetForProcessing(ctx context.Context, tx *gorm.DB, id string) (*models.TryoutDocument, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TryoutDocument), args.Error(1)
}

func (m *MockDocumentRepository) MarkProcessed(ctx context.Context, tx *gorm.DB, id string, processedAt time.Time, totalQuestions int) error {
	args := m.Called(ctx, tx, id, processedAt, totalQuestions)
	return args.Error(0)
}

// MockActivityRepository is a mock implementation of ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Create(ctx context.Context, tx *gorm.DB, entry *models.ActivityLog) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

func (m *MockActivityRepository) GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.ActivityLog, error) {
	args := m.Called(ctx, tx, userID)
	return args.Get(0).([]*models.ActivityLog), args.Error(1)
}

func (m *MockActivityRepository) GetRecent(ctx context.Context, tx *gorm.DB, userID string, theme string, limit int) ([]*models.ActivityLog, error) {
	args := m.Called(ctx, tx, userID, theme, limit)
	return args.Get(0).([]*models.ActivityLog), args.Error(1)
}

func (m *MockActivityRepository) GetAll(ctx context.Context, tx *gorm.DB, limit int) ([]*models.ActivityLog, error) {
	args := m.Called(ctx, tx, limit)
	return args.Get(0).([]*models.ActivityLog), args.Error(1)
}

func (m *MockActivityRepository) HasAnswered(ctx context.Context, tx *gorm.DB, userID, questionID string) (bool, error) {
	args := m.Called(ctx, tx, userID, questionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockActivityRepository) AnsweredQuestionIDs(ctx context.Context, tx *gorm.DB, userID, theme string) ([]string, error) {
	args := m.Called(ctx, tx, userID, theme)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockActivityRepository) CreateFeedback(ctx context.Context, tx *gorm.DB, entry *models.FeedbackEntry) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

// MockProgressRepository is a mock implementation of ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Progress, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Progress), args.Error(1)
}

func (m *MockProgressRepository) Create(ctx context.Context, tx *gorm.DB, progress *models.Progress) error {
	args := m.Called(ctx, tx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*models.Progress, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).([]*models.Progress), args.Error(1)
}

func (m *MockProgressRepository) UpsertScores(ctx context.Context, tx *gorm.DB, progress *models.Progress) error {
	args := m.Called(ctx, tx, progress)
	return args.Error(0)
}

func (m *MockProgressRepository) UpdateStreak(ctx context.Context, tx *gorm.DB, userID string, streakDays int, lastActivity time.Time) error {
	args := m.Called(ctx, tx, userID, streakDays, lastActivity)
	return args.Error(0)
}

func (m *MockProgressRepository) AddFeedbackScore(ctx context.Context, tx *gorm.DB, userID string, score float64) (*models.Progress, error) {
	args := m.Called(ctx, tx, userID, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Progress), args.Error(1)
}

func (m *MockProgressRepository) UpdateFields(ctx context.Context, tx *gorm.DB, userID string, fields map[string]interface{}) error {
	args := m.Called(ctx, tx, userID, fields)
	return args.Error(0)
}

func (m *MockProgressRepository) GlobalStats(ctx context.Context, tx *gorm.DB) (*repositories.ProgressStats, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.ProgressStats), args.Error(1)
}

// MockRepository is a mock implementation of the main Repository interface.
// Transaction runs fn directly with a nil handle so services under test hit
// the same mocks inside and outside a transaction.
type MockRepository struct {
	questionRepo *MockQuestionRepository
	documentRepo *MockDocumentRepository
	activityRepo *MockActivityRepository
	progressRepo *MockProgressRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		questionRepo: &MockQuestionRepository{},
		documentRepo: &MockDocumentRepository{},
		activityRepo: &MockActivityRepository{},
		progressRepo: &MockProgressRepository{},
	}
}

func (m *MockRepository) Question() repositories.QuestionRepository { return m.questionRepo }
func (m *MockRepository) Document() repositories.DocumentRepository { return m.documentRepo }
func (m *MockRepository) Activity() repositories.ActivityRepository { return m.activityRepo }
func (m *MockRepository) Progress() repositories.ProgressRepository { return m.progressRepo }

func (m *MockRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}
