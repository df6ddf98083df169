package repository

import (
	"github.com/pvhoang/quizforge/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	Update(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByVerificationToken(token string) (*model.User, error)
	FindAllActive() ([]model.User, error)
	FindReminderOptIn() ([]model.User, error)
	FindPendingDelete() ([]model.User, error)
	HardDelete(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByVerificationToken(token string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("verification_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAllActive() ([]model.User, error) {
	var users []model.User
	if err := r.db.Where("status = ?", model.UserStatusActive).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindReminderOptIn() ([]model.User, error) {
	var users []model.User
	err := r.db.
		Where("status = ? AND daily_reminder = ?", model.UserStatusActive, true).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindPendingDelete() ([]model.User, error) {
	var users []model.User
	if err := r.db.Where("status = ?", model.UserStatusPendingDelete).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) HardDelete(id uint) error {
	return r.db.Unscoped().Delete(&model.User{}, id).Error
}
