package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pvhoang/quizforge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var sampleQuestions = []GeneratedQuestion{
	{Question: "Q1?", Answers: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
	{Question: "Q2?", Answers: []string{"w", "x", "y", "z"}, CorrectAnswer: "z"},
}

func newDailyFixture() (DailyQuizService, *fakeQuizRepo, *fakeUserRepo, *fakeResultRepo, *fakeFetcher) {
	quizRepo := newFakeQuizRepo()
	userRepo := newFakeUserRepo()
	resultRepo := newFakeResultRepo()
	fetcher := &fakeFetcher{questions: sampleQuestions}
	svc := NewDailyQuizService(quizRepo, userRepo, resultRepo, fetcher)
	return svc, quizRepo, userRepo, resultRepo, fetcher
}

func TestGenerateForDatePublishesQuiz(t *testing.T) {
	svc, quizRepo, userRepo, _, _ := newDailyFixture()
	date := time.Date(2026, 8, 31, 3, 0, 0, 0, time.UTC)

	require.NoError(t, svc.GenerateForDate(context.Background(), date, "Science"))

	quiz, err := quizRepo.FindDailyByDate(date)
	require.NoError(t, err)
	assert.Equal(t, "Daily Quiz 2026-08-31 - Science", quiz.Title)
	assert.True(t, quiz.Public)
	require.NotNil(t, quiz.DailyDate)
	assert.True(t, quiz.HasTag(model.TagDailyQuiz))
	assert.True(t, quiz.HasTag("Science"))
	require.Len(t, quiz.Questions, 2)
	assert.Equal(t, model.QuestionTypeMultipleChoice, quiz.Questions[0].Type)
	assert.Equal(t, "a", quiz.Questions[0].CorrectAnswer)
	require.Len(t, quiz.Questions[0].Options, 4)
	assert.Equal(t, "b", quiz.Questions[0].Options[1].Text)
	assert.Equal(t, 1, quiz.Questions[0].Options[1].Position)

	// The quiz belongs to the implicitly created system admin account.
	owner, err := userRepo.FindByID(quiz.CreatorID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, owner.Role)
	assert.Equal(t, model.UserStatusActive, owner.Status)
}

func TestGenerateForDateSkipsExistingDay(t *testing.T) {
	svc, quizRepo, _, resultRepo, fetcher := newDailyFixture()
	date := time.Date(2026, 8, 31, 3, 0, 0, 0, time.UTC)
	addDaily(quizRepo, resultRepo, date)

	require.NoError(t, svc.GenerateForDate(context.Background(), date, "Science"))
	assert.Equal(t, 0, fetcher.calls)
	assert.Len(t, quizRepo.quizzes, 1)
}

func TestGenerateForDateTreatsConcurrentCreateAsNoop(t *testing.T) {
	svc, quizRepo, _, _, _ := newDailyFixture()
	quizRepo.createErr = gorm.ErrDuplicatedKey
	date := time.Date(2026, 8, 31, 3, 0, 0, 0, time.UTC)

	// A second process won the publish race between our existence check and
	// our insert. The unique daily-date index makes that visible and the run
	// ends cleanly.
	err := svc.GenerateForDate(context.Background(), date, "Science")
	require.NoError(t, err)
}

func TestGenerateForDatePropagatesFetchFailure(t *testing.T) {
	svc, quizRepo, _, _, fetcher := newDailyFixture()
	fetcher.err = errors.New("generation API unreachable")
	date := time.Date(2026, 8, 31, 3, 0, 0, 0, time.UTC)

	err := svc.GenerateForDate(context.Background(), date, "Science")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation API unreachable")
	assert.Empty(t, quizRepo.quizzes)
}

func TestGenerateForDateReusesSystemUser(t *testing.T) {
	svc, _, userRepo, _, _ := newDailyFixture()
	day1 := time.Date(2026, 8, 30, 3, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 31, 3, 0, 0, 0, time.UTC)

	require.NoError(t, svc.GenerateForDate(context.Background(), day1, "Science"))
	require.NoError(t, svc.GenerateForDate(context.Background(), day2, "History"))
	assert.Len(t, userRepo.users, 1)
}

func TestGetDailyQuizMasksCorrectAnswers(t *testing.T) {
	svc, quizRepo, _, _, _ := newDailyFixture()
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	quizRepo.add(model.Quiz{
		Title:     "Daily Quiz 2026-08-31 - Science",
		DailyDate: &date,
		Public:    true,
		Creator:   model.User{Name: "QuizForge", Email: "system@quizforge.local"},
		Tags:      []model.QuizTag{{Name: model.TagDailyQuiz}, {Name: "Science"}},
		Questions: []model.Question{
			{
				ID:     1,
				Prompt: "Q1?",
				Type:   model.QuestionTypeMultipleChoice,
				Options: []model.AnswerOption{
					{Text: "a", Position: 0},
					{Text: "b", Position: 1},
				},
				CorrectAnswer: "a",
				Difficulty:    1,
			},
		},
	})

	play, err := svc.GetDailyQuiz(date)
	require.NoError(t, err)
	assert.Equal(t, "QuizForge", play.CreatorName)
	assert.ElementsMatch(t, []string{model.TagDailyQuiz, "Science"}, play.Tags)
	require.Len(t, play.Questions, 1)
	assert.Equal(t, []string{"a", "b"}, play.Questions[0].Options)
}

func TestGetDailyQuizMissing(t *testing.T) {
	svc, _, _, _, _ := newDailyFixture()

	_, err := svc.GetDailyQuiz(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompletionStatus(t *testing.T) {
	svc, quizRepo, userRepo, resultRepo, _ := newDailyFixture()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	quiz := addDaily(quizRepo, resultRepo, now)
	user := userRepo.add(model.User{Name: "Ada", Email: "ada@example.com", Status: model.UserStatusActive})

	done, err := svc.CompletionStatus(user.ID, now)
	require.NoError(t, err)
	assert.False(t, done)

	// A result from before midnight does not count for today.
	require.NoError(t, resultRepo.Create(&model.QuizResult{
		UserID: user.ID, QuizID: quiz.ID, Score: 5, MaxScore: 10, PlayedAt: now.AddDate(0, 0, -1),
	}))
	done, err = svc.CompletionStatus(user.ID, now)
	require.NoError(t, err)
	assert.False(t, done)

	require.NoError(t, resultRepo.Create(&model.QuizResult{
		UserID: user.ID, QuizID: quiz.ID, Score: 5, MaxScore: 10, PlayedAt: now,
	}))
	done, err = svc.CompletionStatus(user.ID, now)
	require.NoError(t, err)
	assert.True(t, done)
}
