package models

import "time"

// Theme buckets questions and progress into the three subject categories.
type Theme string

const (
	ThemeLiterasi Theme = "literasi"
	ThemeNumerik  Theme = "numerik"
	ThemeSains    Theme = "sains"
)

// IsRecognizedTheme reports whether t is one of the three subject categories.
// Log entries with an unrecognized theme are tolerated but contribute to no
// progress field.
func IsRecognizedTheme(t string) bool {
	switch Theme(t) {
	case ThemeLiterasi, ThemeNumerik, ThemeSains:
		return true
	}
	return false
}

// ActivityLog is one answered question. The log is append-only; the unique
// index on (user_id, question_id) prevents a second answer to the same
// question from being recorded.
type ActivityLog struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	UserID        string `json:"user_id" gorm:"size:36;not null;index;uniqueIndex:idx_activity_user_question" validate:"required"`
	Theme         string `json:"theme" gorm:"size:20;not null;index" validate:"required"`
	QuestionID    string `json:"question_id" gorm:"size:36;not null;uniqueIndex:idx_activity_user_question" validate:"required"`
	QuestionText  string `json:"question_text" gorm:"type:text"`
	Explanation   string `json:"explanation" gorm:"type:text"`
	UserAnswer    string `json:"user_answer" gorm:"type:text"`
	CorrectAnswer string `json:"correct_answer" gorm:"type:text"`
	IsCorrect     bool   `json:"is_correct"`
	Score         int    `json:"score" validate:"min=0,max=1"`

	CreatedAt time.Time `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// FeedbackEntry records one chatbot rating submission. Ratings feed the
// running average on the user's progress record but are kept out of the
// answer log so they never count as lessons.
type FeedbackEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:36;not null;index" validate:"required"`
	Theme     string    `json:"theme" gorm:"size:20;default:umum"`
	Rating    int       `json:"rating" gorm:"not null" validate:"required,min=1,max=5"`
	Message   string    `json:"message" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

func (FeedbackEntry) TableName() string {
	return "feedback_entries"
}
