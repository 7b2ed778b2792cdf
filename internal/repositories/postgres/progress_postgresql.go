package postgres

import (
	"context"
	"math"
	"time"

	"github.com/Ramandaygy/tutor-app/internal/models"
	"github.com/Ramandaygy/tutor-app/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p *ProgressPostgreSQL) GetByUserID(ctx context.Context, tx *gorm.DB, userID string) (*models.Progress, error) {
	var progress models.Progress
	if err := conn(ctx, p.db, tx).First(&progress, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (p *ProgressPostgreSQL) Create(ctx context.Context, tx *gorm.DB, progress *models.Progress) error {
	return conn(ctx, p.db, tx).Create(progress).Error
}

func (p *ProgressPostgreSQL) GetAll(ctx context.Context, tx *gorm.DB) ([]*models.Progress, error) {
	var all []*models.Progress
	err := conn(ctx, p.db, tx).Order("user_id").Find(&all).Error
	return all, err
}

// UpsertScores writes the recomputable columns only. On conflict the update
// column list keeps rating, rating_count, streak_days and last_activity_date
// untouched — a partial merge, never a row replace.
func (p *ProgressPostgreSQL) UpsertScores(ctx context.Context, tx *gorm.DB, progress *models.Progress) error {
	return conn(ctx, p.db, tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"literasi", "numerik", "sains", "total_lessons", "updated_at"}),
	}).Create(progress).Error
}

func (p *ProgressPostgreSQL) UpdateStreak(ctx context.Context, tx *gorm.DB, userID string, streakDays int, lastActivity time.Time) error {
	return conn(ctx, p.db, tx).Model(&models.Progress{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"streak_days":        streakDays,
			"last_activity_date": lastActivity,
		}).Error
}

// foldRating folds one score into a running mean, rounded to two decimals.
// The UPDATE expression in AddFeedbackScore evaluates the same formula in SQL;
// keep the two in sync.
func foldRating(current float64, count int, score float64) float64 {
	return math.Round((current*float64(count)+score)/float64(count+1)*100) / 100
}

// AddFeedbackScore computes the running mean inside one UPDATE so two
// concurrent feedback submissions serialize on the row instead of overwriting
// each other's increment.
func (p *ProgressPostgreSQL) AddFeedbackScore(ctx context.Context, tx *gorm.DB, userID string, score float64) (*models.Progress, error) {
	db := conn(ctx, p.db, tx)

	res := db.Model(&models.Progress{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"rating":       gorm.Expr("ROUND(((rating * rating_count + ?) / (rating_count + 1))::numeric, 2)", score),
			"rating_count": gorm.Expr("rating_count + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		fresh := models.NewProgress(userID)
		fresh.Rating = foldRating(0, 0, score)
		fresh.RatingCount = 1
		created := db.Clauses(clause.OnConflict{DoNothing: true}).Create(fresh)
		if created.Error != nil {
			return nil, created.Error
		}
		if created.RowsAffected == 0 {
			// Lost the creation race; the row exists now, so the atomic
			// update will hit it.
			return p.AddFeedbackScore(ctx, tx, userID, score)
		}
		return fresh, nil
	}

	return p.GetByUserID(ctx, tx, userID)
}

func (p *ProgressPostgreSQL) UpdateFields(ctx context.Context, tx *gorm.DB, userID string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return conn(ctx, p.db, tx).Model(&models.Progress{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}

func (p *ProgressPostgreSQL) GlobalStats(ctx context.Context, tx *gorm.DB) (*repositories.ProgressStats, error) {
	var stats repositories.ProgressStats
	err := conn(ctx, p.db, tx).Model(&models.Progress{}).
		Select("COALESCE(AVG(literasi), 0) AS avg_literasi, COALESCE(AVG(numerik), 0) AS avg_numerik, COALESCE(AVG(sains), 0) AS avg_sains, COUNT(*) AS total_users").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
