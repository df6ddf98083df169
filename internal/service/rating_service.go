package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/pvhoang/quizforge/internal/dto"
	"github.com/pvhoang/quizforge/internal/model"
	"github.com/pvhoang/quizforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RatingService records 1-5 star ratings with upsert semantics per
// (user, quiz). A quiz's creator may never rate their own quiz.
type RatingService interface {
	RateQuiz(userID, quizID uint, req dto.RateQuizDTO) (*dto.RatingDTO, error)
	ListForQuiz(quizID uint) ([]dto.RatingDTO, error)
}

type ratingService struct {
	quizRepo   repository.QuizRepository
	ratingRepo repository.RatingRepository
}

func NewRatingService(quizRepo repository.QuizRepository, ratingRepo repository.RatingRepository) RatingService {
	return &ratingService{quizRepo: quizRepo, ratingRepo: ratingRepo}
}

func (s *ratingService) RateQuiz(userID, quizID uint, req dto.RateQuizDTO) (*dto.RatingDTO, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("quiz %d: %w", quizID, ErrNotFound)
		}
		return nil, fmt.Errorf("error loading quiz %d: %w", quizID, err)
	}
	if quiz.CreatorID == userID {
		return nil, fmt.Errorf("you may not rate your own quiz: %w", ErrForbidden)
	}

	rating, err := s.ratingRepo.FindByUserAndQuiz(userID, quizID)
	switch {
	case err == nil:
		// Second submission updates the existing row.
		rating.Rating = req.Rating
		rating.Comment = req.Comment
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating = &model.QuizRating{
			QuizID:  quizID,
			UserID:  userID,
			Rating:  req.Rating,
			Comment: req.Comment,
		}
	default:
		return nil, fmt.Errorf("error looking up rating: %w", err)
	}

	if err := s.ratingRepo.Save(rating); err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Uint("userID", userID).Msg("Failed to save rating")
		return nil, fmt.Errorf("database error saving rating: %w", err)
	}

	var resp dto.RatingDTO
	if err := copier.Copy(&resp, rating); err != nil {
		return nil, fmt.Errorf("error preparing rating response: %w", err)
	}
	return &resp, nil
}

func (s *ratingService) ListForQuiz(quizID uint) ([]dto.RatingDTO, error) {
	ratings, err := s.ratingRepo.ListByQuiz(quizID)
	if err != nil {
		return nil, fmt.Errorf("error listing ratings for quiz %d: %w", quizID, err)
	}
	dtos := make([]dto.RatingDTO, 0, len(ratings))
	for i := range ratings {
		var d dto.RatingDTO
		if err := copier.Copy(&d, &ratings[i]); err != nil {
			continue
		}
		dtos = append(dtos, d)
	}
	return dtos, nil
}
