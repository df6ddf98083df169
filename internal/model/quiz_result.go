package model

import "time"

// QuizResult records one play-through. Immutable once created.
type QuizResult struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	UserID   uint      `json:"user_id" gorm:"not null;index"`
	QuizID   uint      `json:"quiz_id" gorm:"not null;index"`
	Quiz     Quiz      `json:"quiz,omitempty" gorm:"foreignKey:QuizID"`
	Score    int       `json:"score" gorm:"not null"`
	MaxScore int       `json:"max_score" gorm:"not null"`
	PlayedAt time.Time `json:"played_at" gorm:"not null;index"`
}
