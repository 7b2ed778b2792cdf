package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	Essay          QuestionType = "essay"
)

type QuestionSource string

const (
	SourceManual    QuestionSource = "manual"
	SourcePDF       QuestionSource = "pdf"
	SourceGenerated QuestionSource = "generated"
)

// TryoutQuestion is one entry of the practice-exam question bank. Multiple
// choice questions carry exactly four options and an answer; essay questions
// carry an answer description and optional keywords instead. Questions parsed
// out of a PDF never have an answer until an admin fills it in.
type TryoutQuestion struct {
	ID                string         `json:"id" gorm:"primaryKey;size:36"` // UUID
	Type              QuestionType   `json:"type" gorm:"not null;size:20;index" validate:"required,oneof=multiple_choice essay"`
	Question          string         `json:"question" gorm:"type:text;not null" validate:"required"`
	Options           datatypes.JSON `json:"options" gorm:"type:jsonb"`  // []string
	Answer            *string        `json:"answer" gorm:"type:text"`
	AnswerDescription *string        `json:"answer_description" gorm:"type:text"`
	Keywords          datatypes.JSON `json:"keywords" gorm:"type:jsonb"` // []string
	Category          string         `json:"category" gorm:"size:100;index;default:Umum"`
	Theme             *string        `json:"theme,omitempty" gorm:"size:20;index"` // set for generated questions
	Grade             *string        `json:"grade,omitempty" gorm:"size:20"`
	ImageURL          *string        `json:"image_url" gorm:"size:500"`
	Source            QuestionSource `json:"source" gorm:"not null;size:20;index" validate:"required,oneof=manual pdf generated"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (TryoutQuestion) TableName() string {
	return "tryout_questions"
}

// OptionList decodes the options column. A nil or malformed column yields an
// empty slice, matching the essay invariant.
func (q *TryoutQuestion) OptionList() []string {
	var options []string
	if len(q.Options) > 0 {
		_ = json.Unmarshal(q.Options, &options)
	}
	return options
}

func (q *TryoutQuestion) KeywordList() []string {
	var keywords []string
	if len(q.Keywords) > 0 {
		_ = json.Unmarshal(q.Keywords, &keywords)
	}
	return keywords
}
