package repository

import (
	"time"

	"github.com/pvhoang/quizforge/internal/model"
	"gorm.io/gorm"
)

type ResultRepository interface {
	Create(result *model.QuizResult) error
	FindByUser(userID uint) ([]model.QuizResult, error)
	// HasDailyResultSince reports whether the user recorded a daily-quiz
	// result played at or after the given instant.
	HasDailyResultSince(userID uint, since time.Time) (bool, error)
}

type resultRepository struct {
	db *gorm.DB
}

func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Create(result *model.QuizResult) error {
	return r.db.Create(result).Error
}

func (r *resultRepository) FindByUser(userID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.db.
		Preload("Quiz").
		Where("user_id = ?", userID).
		Order("played_at desc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *resultRepository) HasDailyResultSince(userID uint, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.QuizResult{}).
		Joins("JOIN quizzes ON quizzes.id = quiz_results.quiz_id").
		Where("quiz_results.user_id = ? AND quiz_results.played_at >= ? AND quizzes.daily_date IS NOT NULL", userID, since).
		Count(&count).Error
	return count > 0, err
}
