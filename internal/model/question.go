package model

import (
	"time"

	"gorm.io/gorm"
)

// Question types. For every type except free_text the correct answer must be
// one of the stored options.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeFreeText       = "free_text"
	QuestionTypeTrueFalse      = "true_false"
)

type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	QuizID        uint           `json:"quiz_id" gorm:"not null;index"`
	Prompt        string         `json:"prompt" gorm:"type:text;not null"`
	Type          string         `json:"type" gorm:"not null;default:'multiple_choice'"`
	Options       []AnswerOption `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	CorrectAnswer string         `json:"correct_answer" gorm:"not null"`
	Difficulty    int            `json:"difficulty" gorm:"not null;default:1"`
	Source        string         `json:"source,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// AnswerOption is one entry of a question's ordered answer list.
type AnswerOption struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null"`
	Position   int    `json:"position" gorm:"not null"`
}

// OptionTexts returns the answer list in stored order. Options must be loaded.
func (q *Question) OptionTexts() []string {
	texts := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		texts = append(texts, o.Text)
	}
	return texts
}
