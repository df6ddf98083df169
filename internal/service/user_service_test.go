package service

import (
	"testing"
	"time"

	"github.com/pvhoang/quizforge/internal/dto"
	"github.com/pvhoang/quizforge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (UserService, *fakeUserRepo, *fakeResultRepo, *fakeEmailService) {
	userRepo := newFakeUserRepo()
	resultRepo := newFakeResultRepo()
	mailer := &fakeEmailService{}
	svc := NewUserService(userRepo, newFakeQuizRepo(), resultRepo, mailer, nil)
	return svc, userRepo, resultRepo, mailer
}

func TestUpdateProfile(t *testing.T) {
	svc, userRepo, _, _ := newUserFixture()
	user := userRepo.add(model.User{Name: "Ada", Email: "ada@example.com", Status: model.UserStatusActive})

	resp, err := svc.UpdateProfile(user.ID, dto.ProfileUpdateDTO{Name: "Ada L.", DailyReminder: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", resp.Name)
	assert.True(t, resp.DailyReminder)

	// Empty fields leave the stored values alone.
	resp, err = svc.UpdateProfile(user.ID, dto.ProfileUpdateDTO{})
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", resp.Name)
	assert.True(t, resp.DailyReminder)
}

func TestAdminUpdateUserReportsNotification(t *testing.T) {
	svc, userRepo, _, mailer := newUserFixture()
	user := userRepo.add(model.User{Name: "Ada", Email: "ada@example.com", Status: model.UserStatusActive})

	// Without a message no notification goes out.
	_, notified, err := svc.AdminUpdateUser(user.ID, dto.AdminUserUpdateDTO{Role: model.RoleAdmin})
	require.NoError(t, err)
	assert.False(t, notified)
	assert.Empty(t, mailer.sent)

	resp, notified, err := svc.AdminUpdateUser(user.ID, dto.AdminUserUpdateDTO{
		Status:  model.UserStatusBlocked,
		Message: "Your account was blocked for spam.",
	})
	require.NoError(t, err)
	assert.True(t, notified)
	assert.Equal(t, model.UserStatusBlocked, resp.Status)

	updates := mailer.byTemplate(TemplateAccountUpdated)
	require.Len(t, updates, 1)
	assert.Equal(t, "Your account was blocked for spam.", updates[0].vars["Message"])
}

func TestAdminUpdateUserUnknownUser(t *testing.T) {
	svc, _, _, _ := newUserFixture()

	_, _, err := svc.AdminUpdateUser(99, dto.AdminUserUpdateDTO{Role: model.RoleAdmin})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestDeleteMarksAccount(t *testing.T) {
	svc, userRepo, _, _ := newUserFixture()
	user := userRepo.add(model.User{Name: "Ada", Email: "ada@example.com", Status: model.UserStatusActive})

	require.NoError(t, svc.RequestDelete(user.ID))

	stored, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusPendingDelete, stored.Status)
}

func TestMyResults(t *testing.T) {
	svc, userRepo, resultRepo, _ := newUserFixture()
	user := userRepo.add(model.User{Name: "Ada", Email: "ada@example.com", Status: model.UserStatusActive})

	playedAt := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	resultRepo.results = append(resultRepo.results, model.QuizResult{
		ID: 1, UserID: user.ID, QuizID: 3,
		Quiz:  model.Quiz{ID: 3, Title: "Capitals"},
		Score: 8, MaxScore: 10, PlayedAt: playedAt,
	})

	results, err := svc.MyResults(user.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Capitals", results[0].QuizTitle)
	assert.Equal(t, 8, results[0].Score)
	assert.Equal(t, playedAt, results[0].PlayedAt)
}
