package postgres

import (
	"context"
	"time"

	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentPostgreSQL struct {
	db *gorm.DB
}

func NewDocumentPostgreSQL(db *gorm.DB) repositories.DocumentRepository {
	return &DocumentPostgreSQL{db: db}
}

func (d *DocumentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, doc *models.TryoutDocument) error {
	return conn(ctx, d.db, tx).Create(doc).Error
}

func (d *DocumentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.TryoutDocument, error) {
	var doc models.TryoutDocument
	if err := conn(ctx, d.db, tx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *DocumentPostgreSQL) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*models.TryoutDocument, int64, error) {
	var docs []*models.TryoutDocument
	var total int64

	query := conn(ctx, d.db, tx).Model(&models.TryoutDocument{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// GetForProcessing takes a row lock on the document so the processed check
// and the final MarkProcessed act as one unit inside the caller's
// transaction. Must be called with a non-nil tx.
func (d *DocumentPostgreSQL) GetForProcessing(ctx context.Context, tx *gorm.DB, id string) (*models.TryoutDocument, error) {
	var doc models.TryoutDocument
	if err := conn(ctx, d.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *DocumentPostgreSQL) MarkProcessed(ctx context.Context, tx *gorm.DB, id string, processedAt time.Time, totalQuestions int) error {
	return conn(ctx, d.db, tx).Model(&models.TryoutDocument{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed":       true,
			"processed_at":    processedAt,
			"total_questions": totalQuestions,
		}).Error
}
