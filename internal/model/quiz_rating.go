package model

import "time"

// QuizRating holds one user's rating of a quiz. At most one row per
// (user, quiz); a second submission updates the existing row.
type QuizRating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	QuizID    uint      `json:"quiz_id" gorm:"not null;index;uniqueIndex:idx_rating_user_quiz"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_rating_user_quiz"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
