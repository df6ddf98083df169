package model

import (
	"time"

	"gorm.io/gorm"
)

// TagDailyQuiz marks the single system-generated quiz of a calendar day.
const TagDailyQuiz = "DAILY_QUIZ"

// CategoryGeneralKnowledge is excluded from daily-quiz category selection.
const CategoryGeneralKnowledge = "General Knowledge"

type Quiz struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description,omitempty"`
	CreatorID   uint       `json:"creator_id" gorm:"not null;index"`
	Creator     User       `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Public      bool       `json:"public" gorm:"not null;default:true"`
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Tags        []QuizTag  `json:"tags,omitempty" gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
	// DailyDate is set only for daily quizzes. The unique index turns the
	// "two schedulers generated the same day" race into a storage conflict.
	DailyDate *time.Time     `json:"daily_date,omitempty" gorm:"type:date;uniqueIndex"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type QuizTag struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	QuizID uint   `json:"quiz_id" gorm:"not null;index;uniqueIndex:idx_quiz_tag"`
	Name   string `json:"name" gorm:"not null;uniqueIndex:idx_quiz_tag"`
}

// HasTag reports whether the quiz carries the given tag. Tags must be loaded.
func (q *Quiz) HasTag(name string) bool {
	for _, t := range q.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}

func (q *Quiz) IsDaily() bool {
	return q.DailyDate != nil || q.HasTag(TagDailyQuiz)
}
