package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pvhoang/quizforge/config"
	"github.com/pvhoang/quizforge/internal/dto"
	"github.com/pvhoang/quizforge/internal/model"
	"github.com/pvhoang/quizforge/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration, email verification, and login.
type AuthService interface {
	Register(req dto.RegisterDTO) (*dto.UserDTO, error)
	VerifyEmail(token string) error
	Login(req dto.LoginDTO) (*dto.AuthResponseDTO, error)
}

type authService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	email    EmailService
}

func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, email EmailService) AuthService {
	return &authService{cfg: cfg, userRepo: userRepo, email: email}
}

func (s *authService) Register(req dto.RegisterDTO) (*dto.UserDTO, error) {
	if _, err := s.userRepo.FindByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("email %s is already registered: %w", req.Email, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	token := uuid.NewString()
	user := &model.User{
		Name:              req.Name,
		Email:             req.Email,
		PasswordHash:      string(hash),
		Status:            model.UserStatusPending,
		Role:              model.RoleUser,
		VerificationToken: &token,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	vars := map[string]string{"VerifyURL": fmt.Sprintf("/api/auth/verify?token=%s", token)}
	if err := s.email.SendToUser(user, "Verify your QuizForge account", TemplateVerifyEmail, vars); err != nil {
		// Registration stands; the user can request another mail.
		log.Error().Err(err).Uint("userID", user.ID).Msg("Failed to send verification email")
	}

	var resp dto.UserDTO
	if err := copier.Copy(&resp, user); err != nil {
		return nil, fmt.Errorf("error preparing registration response: %w", err)
	}
	return &resp, nil
}

func (s *authService) VerifyEmail(token string) error {
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("verification token: %w", ErrNotFound)
		}
		return fmt.Errorf("error looking up verification token: %w", err)
	}

	user.Status = model.UserStatusActive
	user.VerificationToken = nil
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("database error activating user %d: %w", user.ID, err)
	}
	log.Info().Uint("userID", user.ID).Msg("User verified")
	return nil
}

func (s *authService) Login(req dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", ErrForbidden)
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", ErrForbidden)
	}
	if user.Status == model.UserStatusBlocked {
		return nil, fmt.Errorf("account is blocked: %w", ErrForbidden)
	}
	if user.Status == model.UserStatusPending {
		return nil, fmt.Errorf("account is not verified yet: %w", ErrForbidden)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	resp := dto.AuthResponseDTO{Token: token}
	if err := copier.Copy(&resp.User, user); err != nil {
		return nil, fmt.Errorf("error preparing login response: %w", err)
	}
	return &resp, nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(time.Duration(s.cfg.JWT.TTLMinutes) * time.Minute).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
