package postgres

import (
	"context"

	"github.com/Ramandaygy/tutor-app/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	db       *gorm.DB
	question repositories.QuestionRepository
	document repositories.DocumentRepository
	activity repositories.ActivityRepository
	progress repositories.ProgressRepository
}

// NewRepository builds the PostgreSQL-backed repository aggregate.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		db:       db,
		question: NewQuestionPostgreSQL(db),
		document: NewDocumentPostgreSQL(db),
		activity: NewActivityPostgreSQL(db),
		progress: NewProgressPostgreSQL(db),
	}
}

func (r *gormRepository) Question() repositories.QuestionRepository { return r.question }
func (r *gormRepository) Document() repositories.DocumentRepository { return r.document }
func (r *gormRepository) Activity() repositories.ActivityRepository { return r.activity }
func (r *gormRepository) Progress() repositories.ProgressRepository { return r.progress }

func (r *gormRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

// conn picks the transaction handle when one is threaded through, otherwise
// the shared connection.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
