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

// UserService covers profile management, admin account updates, and the
// hard-delete cleanup of accounts marked pending delete.
type UserService interface {
	GetProfile(userID uint) (*dto.UserDTO, error)
	UpdateProfile(userID uint, req dto.ProfileUpdateDTO) (*dto.UserDTO, error)
	// AdminUpdateUser applies the changes and reports whether a custom
	// notification email was dispatched. The decision is a return value, not
	// shared state, so callers can thread it explicitly.
	AdminUpdateUser(userID uint, req dto.AdminUserUpdateDTO) (*dto.UserDTO, bool, error)
	RequestDelete(userID uint) error
	// PurgePendingDeletes hard-deletes pending-delete accounts, removing
	// dependent rows in dependency order first. Returns the number purged.
	PurgePendingDeletes() (int, error)
	MyResults(userID uint) ([]dto.ResultDTO, error)
}

type userService struct {
	userRepo   repository.UserRepository
	quizRepo   repository.QuizRepository
	resultRepo repository.ResultRepository
	email      EmailService
	db         *gorm.DB
}

func NewUserService(
	userRepo repository.UserRepository,
	quizRepo repository.QuizRepository,
	resultRepo repository.ResultRepository,
	email EmailService,
	db *gorm.DB,
) UserService {
	return &userService{
		userRepo:   userRepo,
		quizRepo:   quizRepo,
		resultRepo: resultRepo,
		email:      email,
		db:         db,
	}
}

func (s *userService) GetProfile(userID uint) (*dto.UserDTO, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}
	var resp dto.UserDTO
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("error preparing profile response: %w", err)
	}
	return &resp, nil
}

func (s *userService) UpdateProfile(userID uint, req dto.ProfileUpdateDTO) (*dto.UserDTO, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.DailyReminder != nil {
		user.DailyReminder = *req.DailyReminder
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("database error updating user %d: %w", userID, err)
	}

	var resp dto.UserDTO
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("error preparing profile response: %w", err)
	}
	return &resp, nil
}

func (s *userService) AdminUpdateUser(userID uint, req dto.AdminUserUpdateDTO) (*dto.UserDTO, bool, error) {
	user, err := s.findUser(userID)
	if err != nil {
		return nil, false, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Status != "" {
		user.Status = req.Status
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, false, fmt.Errorf("database error updating user %d: %w", userID, err)
	}

	notified := false
	if req.Message != "" {
		vars := map[string]string{"Message": req.Message}
		if err := s.email.SendToUser(user, "Your QuizForge account was updated", TemplateAccountUpdated, vars); err != nil {
			log.Error().Err(err).Uint("userID", userID).Msg("Failed to send account-updated email")
		} else {
			notified = true
		}
	}

	var resp dto.UserDTO
	if err := copier.Copy(&resp, user); err != nil {
		return nil, notified, fmt.Errorf("error preparing user response: %w", err)
	}
	return &resp, notified, nil
}

func (s *userService) RequestDelete(userID uint) error {
	user, err := s.findUser(userID)
	if err != nil {
		return err
	}
	user.Status = model.UserStatusPendingDelete
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("database error marking user %d for deletion: %w", userID, err)
	}
	log.Info().Uint("userID", userID).Msg("User marked pending delete")
	return nil
}

func (s *userService) PurgePendingDeletes() (int, error) {
	users, err := s.userRepo.FindPendingDelete()
	if err != nil {
		return 0, fmt.Errorf("error listing pending-delete users: %w", err)
	}

	purged := 0
	for i := range users {
		if err := s.purgeUser(&users[i]); err != nil {
			log.Error().Err(err).Uint("userID", users[i].ID).Msg("Failed to purge user")
			continue
		}
		purged++
	}
	return purged, nil
}

// purgeUser removes everything the user owns before the account row itself:
// results, ratings, favorites, then each authored quiz with its answer
// options and questions, then the user.
func (s *userService) purgeUser(user *model.User) error {
	quizIDs, err := s.quizRepo.ListIDsByCreator(user.ID)
	if err != nil {
		return fmt.Errorf("error listing quizzes of user %d: %w", user.ID, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.QuizResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&model.QuizRating{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&model.QuizFavorite{}).Error
	})
	if err != nil {
		return fmt.Errorf("error deleting dependent rows of user %d: %w", user.ID, err)
	}

	for _, quizID := range quizIDs {
		if err := s.quizRepo.Delete(quizID); err != nil {
			return fmt.Errorf("error deleting quiz %d of user %d: %w", quizID, user.ID, err)
		}
	}

	if err := s.userRepo.HardDelete(user.ID); err != nil {
		return fmt.Errorf("error deleting user %d: %w", user.ID, err)
	}
	log.Info().Uint("userID", user.ID).Int("quizzes", len(quizIDs)).Msg("User purged")
	return nil
}

func (s *userService) MyResults(userID uint) ([]dto.ResultDTO, error) {
	results, err := s.resultRepo.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("error listing results for user %d: %w", userID, err)
	}
	dtos := make([]dto.ResultDTO, 0, len(results))
	for _, r := range results {
		dtos = append(dtos, dto.ResultDTO{
			ID:        r.ID,
			QuizID:    r.QuizID,
			QuizTitle: r.Quiz.Title,
			Score:     r.Score,
			MaxScore:  r.MaxScore,
			PlayedAt:  r.PlayedAt,
		})
	}
	return dtos, nil
}

func (s *userService) findUser(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("error loading user %d: %w", userID, err)
	}
	return user, nil
}
