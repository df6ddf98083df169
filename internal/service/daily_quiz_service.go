package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pvhoang/quizforge/internal/dto"
	"github.com/pvhoang/quizforge/internal/model"
	"github.com/pvhoang/quizforge/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	systemUserEmail = "system@quizforge.local"
	systemUserName  = "QuizForge"
	// Default credential for the system account created on first use.
	// Operators are expected to rotate it.
	systemUserPassword = "ChangeMe-QuizForge-1"

	dailyQuestionDifficulty = 1
	dailyQuestionSource     = "daily-quiz-generator"
)

// DailyQuizService builds and serves the system-generated daily quiz.
type DailyQuizService interface {
	// GenerateForDate fetches questions for the category and publishes the
	// daily quiz for the given date. No-op if that date already has one.
	GenerateForDate(ctx context.Context, date time.Time, category string) error
	GetDailyQuiz(date time.Time) (*dto.QuizPlayDTO, error)
	HasDailyQuiz(date time.Time) (bool, error)
	CompletionStatus(userID uint, now time.Time) (bool, error)
}

type dailyQuizService struct {
	quizRepo   repository.QuizRepository
	userRepo   repository.UserRepository
	resultRepo repository.ResultRepository
	fetcher    QuestionFetcher
}

func NewDailyQuizService(
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
	resultRepo repository.ResultRepository,
	fetcher QuestionFetcher,
) DailyQuizService {
	return &dailyQuizService{
		quizRepo:   quizRepo,
		userRepo:   userRepo,
		resultRepo: resultRepo,
		fetcher:    fetcher,
	}
}

func (s *dailyQuizService) HasDailyQuiz(date time.Time) (bool, error) {
	_, err := s.quizRepo.FindDailyByDate(date)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("error checking daily quiz for %s: %w", date.Format("2006-01-02"), err)
}

func (s *dailyQuizService) GenerateForDate(ctx context.Context, date time.Time, category string) error {
	exists, err := s.HasDailyQuiz(date)
	if err != nil {
		return err
	}
	if exists {
		log.Info().Str("date", date.Format("2006-01-02")).Msg("Daily quiz already exists, skipping generation")
		return nil
	}

	questions, err := s.fetcher.FetchQuestions(ctx, category)
	if err != nil {
		return fmt.Errorf("failed to fetch questions for category %q: %w", category, err)
	}

	owner, err := s.ensureSystemUser()
	if err != nil {
		return &GenerationFailureError{Err: err}
	}

	quiz := buildDailyQuiz(owner.ID, date, category, questions)
	if err := s.quizRepo.Create(quiz); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another run published this date first; the unique index on the
			// daily date column turns the race into a detectable conflict.
			log.Info().Str("date", date.Format("2006-01-02")).Msg("Daily quiz created concurrently elsewhere, treating as no-op")
			return nil
		}
		return &GenerationFailureError{Err: err}
	}

	log.Info().Uint("quizID", quiz.ID).Str("date", date.Format("2006-01-02")).Str("category", category).
		Int("questions", len(quiz.Questions)).Msg("Daily quiz published")
	return nil
}

func buildDailyQuiz(ownerID uint, date time.Time, category string, questions []GeneratedQuestion) *model.Quiz {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	quizQuestions := make([]model.Question, 0, len(questions))
	for _, gq := range questions {
		options := make([]model.AnswerOption, 0, len(gq.Answers))
		for pos, a := range gq.Answers {
			options = append(options, model.AnswerOption{Text: a, Position: pos})
		}
		quizQuestions = append(quizQuestions, model.Question{
			Prompt:        gq.Question,
			Type:          model.QuestionTypeMultipleChoice,
			Options:       options,
			CorrectAnswer: gq.CorrectAnswer,
			Difficulty:    dailyQuestionDifficulty,
			Source:        dailyQuestionSource,
		})
	}

	return &model.Quiz{
		Title:       fmt.Sprintf("Daily Quiz %s - %s", day.Format("2006-01-02"), category),
		Description: fmt.Sprintf("Automatically generated daily quiz for %s.", day.Format("January 2, 2006")),
		CreatorID:   ownerID,
		Public:      true,
		DailyDate:   &day,
		Tags: []model.QuizTag{
			{Name: model.TagDailyQuiz},
			{Name: category},
		},
		Questions: quizQuestions,
	}
}

// ensureSystemUser returns the admin account that owns daily quizzes,
// creating it on first use.
func (s *dailyQuizService) ensureSystemUser() (*model.User, error) {
	user, err := s.userRepo.FindByEmail(systemUserEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error looking up system user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(systemUserPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash system user password: %w", err)
	}
	system := &model.User{
		Name:         systemUserName,
		Email:        systemUserEmail,
		PasswordHash: string(hash),
		Status:       model.UserStatusActive,
		Role:         model.RoleAdmin,
	}
	if err := s.userRepo.Create(system); err != nil {
		return nil, fmt.Errorf("failed to create system user: %w", err)
	}
	log.Info().Uint("userID", system.ID).Msg("System user created")
	return system, nil
}

func (s *dailyQuizService) GetDailyQuiz(date time.Time) (*dto.QuizPlayDTO, error) {
	quiz, err := s.quizRepo.FindDailyByDate(date)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no daily quiz for %s: %w", date.Format("2006-01-02"), ErrNotFound)
		}
		return nil, fmt.Errorf("error loading daily quiz: %w", err)
	}
	return sanitizeQuizForPlay(quiz), nil
}

func (s *dailyQuizService) CompletionStatus(userID uint, now time.Time) (bool, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	played, err := s.resultRepo.HasDailyResultSince(userID, midnight)
	if err != nil {
		return false, fmt.Errorf("error checking daily completion for user %d: %w", userID, err)
	}
	return played, nil
}

// sanitizeQuizForPlay masks correct answers and creator contact details
// before a quiz is handed to a client for play.
func sanitizeQuizForPlay(quiz *model.Quiz) *dto.QuizPlayDTO {
	resp := dto.QuizPlayDTO{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		CreatorName: quiz.Creator.Name,
		DailyDate:   quiz.DailyDate,
	}

	resp.Tags = make([]string, 0, len(quiz.Tags))
	for _, t := range quiz.Tags {
		resp.Tags = append(resp.Tags, t.Name)
	}

	resp.Questions = make([]dto.QuestionPlayDTO, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionPlayDTO{
			ID:         q.ID,
			Prompt:     q.Prompt,
			Type:       q.Type,
			Options:    q.OptionTexts(),
			Difficulty: q.Difficulty,
		})
	}
	return &resp
}
