package repository

import (
	"time"

	"github.com/pvhoang/quizforge/internal/model"
	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(quiz *model.Quiz) error
	Update(quiz *model.Quiz) error
	FindByID(id uint) (*model.Quiz, error)
	FindByIDWithQuestions(id uint) (*model.Quiz, error)
	FindDailyByDate(date time.Time) (*model.Quiz, error)
	ListPublic() ([]model.Quiz, error)
	ListByCreator(creatorID uint) ([]model.Quiz, error)
	ListIDsByCreator(creatorID uint) ([]uint, error)
	DistinctTagNames() ([]string, error)
	Delete(id uint) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(quiz *model.Quiz) error {
	// GORM creates associated questions, options, and tags in one go.
	return r.db.Create(quiz).Error
}

func (r *quizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

func (r *quizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.db.Preload("Tags").First(&quiz, id).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.
		Preload("Tags").
		Preload("Creator").
		Preload("Questions").
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.position ASC")
		}).
		First(&quiz, id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindDailyByDate(date time.Time) (*model.Quiz, error) {
	var quiz model.Quiz
	day := date.Format("2006-01-02")
	err := r.db.
		Preload("Tags").
		Preload("Questions").
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("answer_options.position ASC")
		}).
		Where("daily_date = ?", day).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) ListPublic() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.
		Preload("Tags").
		Where("public = ?", true).
		Order("created_at desc").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) ListByCreator(creatorID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.db.
		Preload("Tags").
		Where("creator_id = ?", creatorID).
		Order("created_at desc").
		Find(&quizzes).Error
	if err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) ListIDsByCreator(creatorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.Quiz{}).
		Where("creator_id = ?", creatorID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *quizRepository) DistinctTagNames() ([]string, error) {
	var names []string
	err := r.db.Model(&model.QuizTag{}).
		Distinct("name").
		Order("name ASC").
		Pluck("name", &names).Error
	return names, err
}

// Delete removes a quiz and everything hanging off it, in dependency order.
func (r *quizRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizRating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizFavorite{}).Error; err != nil {
			return err
		}
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("quiz_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.AnswerOption{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizTag{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Quiz{}, id).Error
	})
}
