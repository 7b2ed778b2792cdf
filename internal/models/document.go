package models

import "time"

// TryoutDocument tracks one uploaded question-bank PDF. A document is parsed
// into questions at most once: processed flips to true together with
// processed_at and total_questions, and a second process call is a no-op.
type TryoutDocument struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"` // UUID
	Filename       string     `json:"filename" gorm:"not null;size:255" validate:"required"`
	FileURL        string     `json:"file_url" gorm:"size:500"`
	Category       string     `json:"category" gorm:"size:100;default:Umum"`
	Processed      bool       `json:"processed" gorm:"default:false;index"`
	ProcessedAt    *time.Time `json:"processed_at"`
	TotalQuestions int        `json:"total_questions"`

	CreatedAt time.Time `json:"created_at"`
}

func (TryoutDocument) TableName() string {
	return "tryout_documents"
}
