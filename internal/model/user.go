package model

import (
	"time"

	"gorm.io/gorm"
)

// Account status values a user moves through during its lifecycle.
const (
	UserStatusPending       = "pending_verification"
	UserStatusActive        = "active"
	UserStatusPendingDelete = "pending_delete"
	UserStatusBlocked       = "blocked"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	Name              string         `json:"name" gorm:"not null"`
	Email             string         `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash      string         `json:"-" gorm:"not null"`
	Status            string         `json:"status" gorm:"not null;default:'pending_verification'"`
	Role              string         `json:"role" gorm:"not null;default:'user'"`
	DailyReminder     bool           `json:"daily_reminder" gorm:"not null;default:false"`
	StreakDays        int            `json:"streak_days" gorm:"not null;default:0"`
	LastDailyPlayedAt *time.Time     `json:"last_daily_played_at,omitempty"`
	VerificationToken *string        `json:"-" gorm:"index"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
