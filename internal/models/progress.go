package models

import "time"

// Progress is the per-user aggregate derived from the activity log plus the
// independently maintained rating and streak state. Keyed by user_id
// everywhere; theme scores and total_lessons are recomputable from the log,
// rating/rating_count/streak_days are not and must survive recomputation.
type Progress struct {
	UserID       string  `json:"user_id" gorm:"primaryKey;size:36"`
	Literasi     int     `json:"literasi"`
	Numerik      int     `json:"numerik"`
	Sains        int     `json:"sains"`
	Rating       float64 `json:"rating"`
	RatingCount  int     `json:"rating_count"`
	TotalLessons int     `json:"total_lessons"`
	StreakDays   int     `json:"streak_days"`

	// Day granularity; stored midnight UTC.
	LastActivityDate *time.Time `json:"last_activity_date"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (Progress) TableName() string {
	return "progress"
}

// NewProgress returns the zero-valued record created lazily on first access.
func NewProgress(userID string) *Progress {
	return &Progress{UserID: userID}
}

// ThemeScore returns the cumulative score for a recognized theme, 0 otherwise.
func (p *Progress) ThemeScore(theme string) int {
	switch Theme(theme) {
	case ThemeLiterasi:
		return p.Literasi
	case ThemeNumerik:
		return p.Numerik
	case ThemeSains:
		return p.Sains
	}
	return 0
}
