package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pvhoang/quizforge/internal/dto"
	"github.com/pvhoang/quizforge/internal/model"
	"github.com/pvhoang/quizforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// QuizService covers quiz authoring and the player-facing quiz views.
type QuizService interface {
	CreateQuiz(creatorID uint, req dto.QuizCreateDTO) (*model.Quiz, error)
	UpdateQuiz(userID, quizID uint, req dto.QuizUpdateDTO) (*model.Quiz, error)
	DeleteQuiz(userID uint, isAdmin bool, quizID uint) error
	GetQuizForPlay(quizID uint) (*dto.QuizPlayDTO, error)
	ListPublic() ([]dto.QuizSummaryDTO, error)
	ListMine(creatorID uint) ([]dto.QuizSummaryDTO, error)
	// ToggleFavorite bookmarks the quiz for the user, or removes the bookmark
	// if one exists. Returns whether the quiz is now favorited.
	ToggleFavorite(userID, quizID uint) (bool, error)
	ListFavorites(userID uint) ([]dto.QuizSummaryDTO, error)
}

type quizService struct {
	quizRepo repository.QuizRepository
	favRepo  repository.FavoriteRepository
}

func NewQuizService(quizRepo repository.QuizRepository, favRepo repository.FavoriteRepository) QuizService {
	return &quizService{quizRepo: quizRepo, favRepo: favRepo}
}

func validateQuestion(q dto.QuestionCreateDTO) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question prompt must not be empty: %w", ErrValidation)
	}
	if q.Type == model.QuestionTypeFreeText {
		return nil
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %q needs at least two options: %w", q.Prompt, ErrValidation)
	}
	for _, o := range q.Options {
		if o == q.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("correct answer %q is not in the options of question %q: %w", q.CorrectAnswer, q.Prompt, ErrValidation)
}

func (s *quizService) CreateQuiz(creatorID uint, req dto.QuizCreateDTO) (*model.Quiz, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("quiz title must not be empty: %w", ErrValidation)
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for _, qDto := range req.Questions {
		if err := validateQuestion(qDto); err != nil {
			return nil, err
		}
		options := make([]model.AnswerOption, 0, len(qDto.Options))
		for pos, text := range qDto.Options {
			options = append(options, model.AnswerOption{Text: text, Position: pos})
		}
		difficulty := qDto.Difficulty
		if difficulty == 0 {
			difficulty = 1
		}
		questions = append(questions, model.Question{
			Prompt:        qDto.Prompt,
			Type:          qDto.Type,
			Options:       options,
			CorrectAnswer: qDto.CorrectAnswer,
			Difficulty:    difficulty,
			Source:        qDto.Source,
		})
	}

	tags := make([]model.QuizTag, 0, len(req.Tags))
	for _, name := range req.Tags {
		if name == model.TagDailyQuiz {
			// The daily marker is reserved for the scheduler.
			return nil, fmt.Errorf("tag %q is reserved: %w", model.TagDailyQuiz, ErrValidation)
		}
		tags = append(tags, model.QuizTag{Name: name})
	}

	public := true
	if req.Public != nil {
		public = *req.Public
	}

	quiz := &model.Quiz{
		Title:       req.Title,
		Description: req.Description,
		CreatorID:   creatorID,
		Public:      public,
		Tags:        tags,
		Questions:   questions,
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		log.Error().Err(err).Msg("Failed to create quiz")
		return nil, fmt.Errorf("database error creating quiz: %w", err)
	}
	return quiz, nil
}

func (s *quizService) UpdateQuiz(userID, quizID uint, req dto.QuizUpdateDTO) (*model.Quiz, error) {
	quiz, err := s.findQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatorID != userID {
		return nil, fmt.Errorf("only the creator may edit quiz %d: %w", quizID, ErrForbidden)
	}
	if quiz.IsDaily() {
		return nil, fmt.Errorf("daily quizzes are system managed: %w", ErrForbidden)
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	if req.Public != nil {
		quiz.Public = *req.Public
	}
	if err := s.quizRepo.Update(quiz); err != nil {
		return nil, fmt.Errorf("database error updating quiz %d: %w", quizID, err)
	}
	return quiz, nil
}

func (s *quizService) DeleteQuiz(userID uint, isAdmin bool, quizID uint) error {
	quiz, err := s.findQuiz(quizID)
	if err != nil {
		return err
	}
	if quiz.CreatorID != userID && !isAdmin {
		return fmt.Errorf("only the creator may delete quiz %d: %w", quizID, ErrForbidden)
	}
	if err := s.quizRepo.Delete(quizID); err != nil {
		return fmt.Errorf("database error deleting quiz %d: %w", quizID, err)
	}
	log.Info().Uint("quizID", quizID).Uint("userID", userID).Msg("Quiz deleted")
	return nil
}

func (s *quizService) GetQuizForPlay(quizID uint) (*dto.QuizPlayDTO, error) {
	quiz, err := s.quizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %d: %w", quizID, ErrNotFound)
		}
		return nil, fmt.Errorf("error loading quiz %d: %w", quizID, err)
	}
	return sanitizeQuizForPlay(quiz), nil
}

func (s *quizService) ListPublic() ([]dto.QuizSummaryDTO, error) {
	quizzes, err := s.quizRepo.ListPublic()
	if err != nil {
		return nil, fmt.Errorf("error listing quizzes: %w", err)
	}
	return summarize(quizzes), nil
}

func (s *quizService) ListMine(creatorID uint) ([]dto.QuizSummaryDTO, error) {
	quizzes, err := s.quizRepo.ListByCreator(creatorID)
	if err != nil {
		return nil, fmt.Errorf("error listing quizzes for user %d: %w", creatorID, err)
	}
	return summarize(quizzes), nil
}

func summarize(quizzes []model.Quiz) []dto.QuizSummaryDTO {
	dtos := make([]dto.QuizSummaryDTO, 0, len(quizzes))
	for _, q := range quizzes {
		tags := make([]string, 0, len(q.Tags))
		for _, t := range q.Tags {
			tags = append(tags, t.Name)
		}
		dtos = append(dtos, dto.QuizSummaryDTO{
			ID:            q.ID,
			Title:         q.Title,
			Description:   q.Description,
			CreatorID:     q.CreatorID,
			Public:        q.Public,
			Tags:          tags,
			QuestionCount: len(q.Questions),
			DailyDate:     q.DailyDate,
			CreatedAt:     q.CreatedAt,
		})
	}
	return dtos
}

func (s *quizService) ToggleFavorite(userID, quizID uint) (bool, error) {
	if _, err := s.findQuiz(quizID); err != nil {
		return false, err
	}

	_, err := s.favRepo.FindByUserAndQuiz(userID, quizID)
	if err == nil {
		if err := s.favRepo.Delete(userID, quizID); err != nil {
			return false, fmt.Errorf("error removing favorite: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("error checking favorite: %w", err)
	}

	if err := s.favRepo.Create(&model.QuizFavorite{UserID: userID, QuizID: quizID}); err != nil {
		return false, fmt.Errorf("error adding favorite: %w", err)
	}
	return true, nil
}

func (s *quizService) ListFavorites(userID uint) ([]dto.QuizSummaryDTO, error) {
	favs, err := s.favRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error listing favorites for user %d: %w", userID, err)
	}
	quizzes := make([]model.Quiz, 0, len(favs))
	for _, fav := range favs {
		quiz, err := s.quizRepo.FindByID(fav.QuizID)
		if err != nil {
			// The quiz may have been deleted after it was bookmarked.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("error loading favorited quiz %d: %w", fav.QuizID, err)
		}
		quizzes = append(quizzes, *quiz)
	}
	return summarize(quizzes), nil
}

func (s *quizService) findQuiz(quizID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %d: %w", quizID, ErrNotFound)
		}
		return nil, fmt.Errorf("error loading quiz %d: %w", quizID, err)
	}
	return quiz, nil
}
