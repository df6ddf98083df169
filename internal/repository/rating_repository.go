package repository

import (
	"github.com/pvhoang/quizforge/internal/model"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Save(rating *model.QuizRating) error
	FindByUserAndQuiz(userID, quizID uint) (*model.QuizRating, error)
	ListByQuiz(quizID uint) ([]model.QuizRating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Save(rating *model.QuizRating) error {
	return r.db.Save(rating).Error
}

func (r *ratingRepository) FindByUserAndQuiz(userID, quizID uint) (*model.QuizRating, error) {
	var rating model.QuizRating
	err := r.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByQuiz(quizID uint) ([]model.QuizRating, error) {
	var ratings []model.QuizRating
	err := r.db.Where("quiz_id = ?", quizID).Order("created_at desc").Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
