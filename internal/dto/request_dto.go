package dto

// RegisterDTO is the payload for creating a new account.
type RegisterDTO struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// QuestionCreateDTO is used within QuizCreateDTO for quiz authoring.
type QuestionCreateDTO struct {
	Prompt        string   `json:"prompt" binding:"required"`
	Type          string   `json:"type" binding:"required,oneof=multiple_choice free_text true_false"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Difficulty    int      `json:"difficulty" binding:"omitempty,min=1,max=5"`
	Source        string   `json:"source"`
}

// QuizCreateDTO is the authoring payload for a new quiz with its questions.
type QuizCreateDTO struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description,omitempty"`
	Public      *bool               `json:"public"`
	Tags        []string            `json:"tags"`
	Questions   []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

// QuizUpdateDTO updates quiz metadata. Only the creator may apply it.
type QuizUpdateDTO struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description,omitempty"`
	Public      *bool  `json:"public"`
}

// SubmitAnswerDTO grades one submitted answer. Answer is a pointer so an
// explicit JSON null grades as incorrect instead of failing to bind.
type SubmitAnswerDTO struct {
	QuestionID uint    `json:"questionId" binding:"required"`
	Answer     *string `json:"answer"`
}

type RateQuizDTO struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

// DailyCompletedDTO reports a finished daily-quiz play-through.
type DailyCompletedDTO struct {
	Score    int `json:"score" binding:"min=0"`
	MaxScore int `json:"max_score" binding:"required,min=1"`
}

type ProfileUpdateDTO struct {
	Name          string `json:"name"`
	DailyReminder *bool  `json:"daily_reminder"`
}

// AdminUserUpdateDTO lets an admin change account state. A non-empty Message
// triggers a custom notification email to the user.
type AdminUserUpdateDTO struct {
	Name    string `json:"name"`
	Status  string `json:"status" binding:"omitempty,oneof=pending_verification active pending_delete blocked"`
	Role    string `json:"role" binding:"omitempty,oneof=user admin"`
	Message string `json:"message"`
}
