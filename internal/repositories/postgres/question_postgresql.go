package postgres

import (
	"context"

	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, question *models.TryoutQuestion) error {
	return conn(ctx, q.db, tx).Create(question).Error
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.TryoutQuestion, error) {
	var question models.TryoutQuestion
	if err := conn(ctx, q.db, tx).First(&question, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, tx *gorm.DB, question *models.TryoutQuestion) error {
	return conn(ctx, q.db, tx).Save(question).Error
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	return conn(ctx, q.db, tx).Delete(&models.TryoutQuestion{}, "id = ?", id).Error
}

func (q *QuestionPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.QuestionFilters) ([]*models.TryoutQuestion, int64, error) {
	var questions []*models.TryoutQuestion
	var total int64

	query := conn(ctx, q.db, tx).Model(&models.TryoutQuestion{})
	query = q.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = q.applyPaginationAndSort(query, filters)
	if err := query.Find(&questions).Error; err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (q *QuestionPostgreSQL) CountBySource(ctx context.Context, tx *gorm.DB, source models.QuestionSource) (int64, error) {
	var count int64
	err := conn(ctx, q.db, tx).Model(&models.TryoutQuestion{}).
		Where("source = ?", source).
		Count(&count).Error
	return count, err
}

func (q *QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.Category != nil {
		query = query.Where("category = ?", *filters.Category)
	}
	if filters.Theme != nil {
		query = query.Where("theme = ?", *filters.Theme)
	}
	if filters.Source != nil {
		query = query.Where("source = ?", *filters.Source)
	}
	return query
}

func (q *QuestionPostgreSQL) applyPaginationAndSort(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	sortBy := filters.SortBy
	switch sortBy {
	case "created_at", "category", "type":
	default:
		sortBy = "created_at"
	}
	order := "asc"
	if filters.SortOrder == "desc" {
		order = "desc"
	}
	query = query.Order(sortBy + " " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
