package repository

import (
	"github.com/pvhoang/quizforge/internal/model"
	"gorm.io/gorm"
)

type FavoriteRepository interface {
	Create(fav *model.QuizFavorite) error
	Delete(userID, quizID uint) error
	FindByUserAndQuiz(userID, quizID uint) (*model.QuizFavorite, error)
	ListByUser(userID uint) ([]model.QuizFavorite, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Create(fav *model.QuizFavorite) error {
	return r.db.Create(fav).Error
}

func (r *favoriteRepository) Delete(userID, quizID uint) error {
	return r.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).Delete(&model.QuizFavorite{}).Error
}

func (r *favoriteRepository) FindByUserAndQuiz(userID, quizID uint) (*model.QuizFavorite, error) {
	var fav model.QuizFavorite
	err := r.db.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&fav).Error
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func (r *favoriteRepository) ListByUser(userID uint) ([]model.QuizFavorite, error) {
	var favs []model.QuizFavorite
	err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&favs).Error
	if err != nil {
		return nil, err
	}
	return favs, nil
}
