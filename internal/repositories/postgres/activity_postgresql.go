package postgres

import (
	"context"

	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
	"gorm.io/gorm"
)

type ActivityPostgreSQL struct {
	db *gorm.DB
}

func NewActivityPostgreSQL(db *gorm.DB) repositories.ActivityRepository {
	return &ActivityPostgreSQL{db: db}
}

func (a *ActivityPostgreSQL) Create(ctx context.Context, tx *gorm.DB, entry *models.ActivityLog) error {
	return conn(ctx, a.db, tx).Create(entry).Error
}

func (a *ActivityPostgreSQL) GetByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*models.ActivityLog, error) {
	var entries []*models.ActivityLog
	err := conn(ctx, a.db, tx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&entries).Error
	return entries, err
}

func (a *ActivityPostgreSQL) GetRecent(ctx context.Context, tx *gorm.DB, userID string, theme string, limit int) ([]*models.ActivityLog, error) {
	query := conn(ctx, a.db, tx).Where("user_id = ?", userID)
	if theme != "" {
		query = query.Where("theme = ?", theme)
	}
	if limit <= 0 {
		limit = 10
	}

	var entries []*models.ActivityLog
	err := query.Order("created_at desc").Limit(limit).Find(&entries).Error
	return entries, err
}

func (a *ActivityPostgreSQL) GetAll(ctx context.Context, tx *gorm.DB, limit int) ([]*models.ActivityLog, error) {
	if limit <= 0 {
		limit = 100
	}

	var entries []*models.ActivityLog
	err := conn(ctx, a.db, tx).
		Order("created_at desc").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (a *ActivityPostgreSQL) HasAnswered(ctx context.Context, tx *gorm.DB, userID, questionID string) (bool, error) {
	var count int64
	err := conn(ctx, a.db, tx).Model(&models.ActivityLog{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error
	return count > 0, err
}

func (a *ActivityPostgreSQL) AnsweredQuestionIDs(ctx context.Context, tx *gorm.DB, userID, theme string) ([]string, error) {
	var ids []string
	err := conn(ctx, a.db, tx).Model(&models.ActivityLog{}).
		Distinct("question_id").
		Where("user_id = ? AND theme = ?", userID, theme).
		Pluck("question_id", &ids).Error
	return ids, err
}

func (a *ActivityPostgreSQL) CreateFeedback(ctx context.Context, tx *gorm.DB, entry *models.FeedbackEntry) error {
	return conn(ctx, a.db, tx).Create(entry).Error
}
