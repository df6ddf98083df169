package service

import (
	"testing"

	"github.com/pvhoang/quizforge/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSuppressionRules(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		template   string
		suppressed bool
	}{
		{"active user gets reminders", model.UserStatusActive, TemplateDailyReminder, false},
		{"pending user gets verification mail", model.UserStatusPending, TemplateVerifyEmail, false},
		{"pending user gets nothing else", model.UserStatusPending, TemplateDailyReminder, true},
		{"pending-delete user gets nothing", model.UserStatusPendingDelete, TemplateStreakLost, true},
		{"blocked user gets nothing", model.UserStatusBlocked, TemplateDailyReminder, true},
		{"blocked user gets no verification mail either", model.UserStatusBlocked, TemplateVerifyEmail, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &model.User{Email: "user@example.com", Status: tt.status}
			assert.Equal(t, tt.suppressed, suppressed(user, tt.template))
		})
	}
}
