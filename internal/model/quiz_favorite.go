package model

import "time"

// QuizFavorite links a user to a bookmarked quiz. Submitting the toggle again
// removes the row.
type QuizFavorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_favorite_user_quiz"`
	QuizID    uint      `json:"quiz_id" gorm:"not null;uniqueIndex:idx_favorite_user_quiz"`
	CreatedAt time.Time `json:"created_at"`
}
