package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pvhoang/quizforge/internal/dto"
	"github.com/pvhoang/quizforge/internal/model"
	"github.com/pvhoang/quizforge/internal/repository"
	"gorm.io/gorm"
)

// GradingService compares submitted answers against the stored correct
// answer. The verdict response is the only place the correct answer is ever
// exposed to a player.
type GradingService interface {
	Grade(quizID, questionID uint, answer *string) (*dto.GradeResultDTO, error)
	// SubmitQuizPlay records a finished play-through so it shows up in the
	// user's result history.
	SubmitQuizPlay(userID, quizID uint, score, maxScore int) (*dto.ResultDTO, error)
}

type gradingService struct {
	questionRepo repository.QuestionRepository
	quizRepo     repository.QuizRepository
	resultRepo   repository.ResultRepository
	now          func() time.Time
}

func NewGradingService(
	questionRepo repository.QuestionRepository,
	quizRepo repository.QuizRepository,
	resultRepo repository.ResultRepository,
) GradingService {
	return &gradingService{
		questionRepo: questionRepo,
		quizRepo:     quizRepo,
		resultRepo:   resultRepo,
		now:          time.Now,
	}
}

func (s *gradingService) Grade(quizID, questionID uint, answer *string) (*dto.GradeResultDTO, error) {
	question, err := s.questionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("question %d: %w", questionID, ErrNotFound)
		}
		return nil, fmt.Errorf("error loading question %d: %w", questionID, err)
	}
	if question.QuizID != quizID {
		return nil, fmt.Errorf("question %d does not belong to quiz %d: %w", questionID, quizID, ErrNotFound)
	}

	return &dto.GradeResultDTO{
		Correct:         answersMatch(answer, &question.CorrectAnswer),
		SubmittedAnswer: answer,
		CorrectAnswer:   question.CorrectAnswer,
		Prompt:          question.Prompt,
		Options:         question.OptionTexts(),
	}, nil
}

func (s *gradingService) SubmitQuizPlay(userID, quizID uint, score, maxScore int) (*dto.ResultDTO, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %d: %w", quizID, ErrNotFound)
		}
		return nil, fmt.Errorf("error loading quiz %d: %w", quizID, err)
	}
	if score < 0 || maxScore <= 0 || score > maxScore {
		return nil, fmt.Errorf("score %d/%d is out of range: %w", score, maxScore, ErrValidation)
	}

	result := &model.QuizResult{
		UserID:   userID,
		QuizID:   quiz.ID,
		Score:    score,
		MaxScore: maxScore,
		PlayedAt: s.now(),
	}
	if err := s.resultRepo.Create(result); err != nil {
		return nil, fmt.Errorf("error recording result for quiz %d: %w", quizID, err)
	}
	return &dto.ResultDTO{
		ID:        result.ID,
		QuizID:    result.QuizID,
		QuizTitle: quiz.Title,
		Score:     result.Score,
		MaxScore:  result.MaxScore,
		PlayedAt:  result.PlayedAt,
	}, nil
}

// answersMatch grades under trimmed, case-insensitive equality. A nil value
// on either side is always incorrect.
func answersMatch(submitted, correct *string) bool {
	if submitted == nil || correct == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*submitted), strings.TrimSpace(*correct))
}
