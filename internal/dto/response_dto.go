package dto

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserDTO struct {
	ID                uint       `json:"id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	Status            string     `json:"status"`
	Role              string     `json:"role"`
	DailyReminder     bool       `json:"daily_reminder"`
	StreakDays        int        `json:"streak_days"`
	LastDailyPlayedAt *time.Time `json:"last_daily_played_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

type AuthResponseDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// QuizSummaryDTO is used for quiz listings.
type QuizSummaryDTO struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	CreatorID     uint       `json:"creator_id"`
	Public        bool       `json:"public"`
	Tags          []string   `json:"tags,omitempty"`
	QuestionCount int        `json:"question_count"`
	DailyDate     *time.Time `json:"daily_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// QuestionPlayDTO is a question as shown to a player: the correct answer is
// never included here.
type QuestionPlayDTO struct {
	ID         uint     `json:"id"`
	Prompt     string   `json:"prompt"`
	Type       string   `json:"type"`
	Options    []string `json:"options,omitempty"`
	Difficulty int      `json:"difficulty"`
}

// QuizPlayDTO is the pre-submission view of a quiz, with correct answers and
// creator contact details masked.
type QuizPlayDTO struct {
	ID          uint              `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	CreatorName string            `json:"creator_name,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	DailyDate   *time.Time        `json:"daily_date,omitempty"`
	Questions   []QuestionPlayDTO `json:"questions"`
}

// GradeResultDTO is the post-submission verdict for a single answer. This is
// the only place the correct answer is exposed.
type GradeResultDTO struct {
	Correct         bool     `json:"correct"`
	SubmittedAnswer *string  `json:"submitted_answer"`
	CorrectAnswer   string   `json:"correct_answer"`
	Prompt          string   `json:"prompt"`
	Options         []string `json:"options,omitempty"`
}

type StreakDTO struct {
	StreakDays  int  `json:"streak_days"`
	PlayedToday bool `json:"played_today"`
}

type RatingDTO struct {
	ID        uint      `json:"id"`
	QuizID    uint      `json:"quiz_id"`
	UserID    uint      `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ResultDTO struct {
	ID        uint      `json:"id"`
	QuizID    uint      `json:"quiz_id"`
	QuizTitle string    `json:"quiz_title,omitempty"`
	Score     int       `json:"score"`
	MaxScore  int       `json:"max_score"`
	PlayedAt  time.Time `json:"played_at"`
}
