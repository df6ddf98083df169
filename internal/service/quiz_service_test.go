package service

import (
	"testing"
	"time"

	"github.com/pvhoang/quizforge/internal/dto"
	"github.com/pvhoang/quizforge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func validQuestionDTO() dto.QuestionCreateDTO {
	return dto.QuestionCreateDTO{
		Prompt:        "What is the capital of France?",
		Type:          model.QuestionTypeMultipleChoice,
		Options:       []string{"Paris", "Lyon"},
		CorrectAnswer: "Paris",
	}
}

func TestCreateQuizStoresQuestionsAndTags(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	svc := NewQuizService(quizRepo, newFakeFavoriteRepo())

	quiz, err := svc.CreateQuiz(1, dto.QuizCreateDTO{
		Title:     "Capitals",
		Tags:      []string{"Geography"},
		Questions: []dto.QuestionCreateDTO{validQuestionDTO()},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), quiz.CreatorID)
	assert.True(t, quiz.Public, "quizzes default to public")
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, 1, quiz.Questions[0].Difficulty, "difficulty defaults to 1")
	require.Len(t, quiz.Questions[0].Options, 2)
	assert.Equal(t, "Lyon", quiz.Questions[0].Options[1].Text)
	require.Len(t, quiz.Tags, 1)
	assert.Equal(t, "Geography", quiz.Tags[0].Name)
}

func TestCreateQuizValidation(t *testing.T) {
	svc := NewQuizService(newFakeQuizRepo(), newFakeFavoriteRepo())

	tests := []struct {
		name string
		req  dto.QuizCreateDTO
	}{
		{
			"empty title",
			dto.QuizCreateDTO{Title: "  ", Questions: []dto.QuestionCreateDTO{validQuestionDTO()}},
		},
		{
			"correct answer not in options",
			dto.QuizCreateDTO{Title: "Q", Questions: []dto.QuestionCreateDTO{{
				Prompt: "p", Type: model.QuestionTypeMultipleChoice,
				Options: []string{"a", "b"}, CorrectAnswer: "c",
			}}},
		},
		{
			"single option",
			dto.QuizCreateDTO{Title: "Q", Questions: []dto.QuestionCreateDTO{{
				Prompt: "p", Type: model.QuestionTypeMultipleChoice,
				Options: []string{"a"}, CorrectAnswer: "a",
			}}},
		},
		{
			"reserved daily tag",
			dto.QuizCreateDTO{Title: "Q", Tags: []string{model.TagDailyQuiz},
				Questions: []dto.QuestionCreateDTO{validQuestionDTO()}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateQuiz(1, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateQuizFreeTextNeedsNoOptions(t *testing.T) {
	svc := NewQuizService(newFakeQuizRepo(), newFakeFavoriteRepo())

	quiz, err := svc.CreateQuiz(1, dto.QuizCreateDTO{
		Title: "Open questions",
		Questions: []dto.QuestionCreateDTO{{
			Prompt:        "Name any prime number.",
			Type:          model.QuestionTypeFreeText,
			CorrectAnswer: "7",
		}},
	})
	require.NoError(t, err)
	assert.Empty(t, quiz.Questions[0].Options)
}

func TestUpdateQuizPermissions(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	svc := NewQuizService(quizRepo, newFakeFavoriteRepo())

	owned := quizRepo.add(model.Quiz{Title: "Mine", CreatorID: 1, Public: true})
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	daily := quizRepo.add(model.Quiz{Title: "Daily", CreatorID: 1, DailyDate: &day})

	_, err := svc.UpdateQuiz(2, owned.ID, dto.QuizUpdateDTO{Title: "Stolen"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateQuiz(1, daily.ID, dto.QuizUpdateDTO{Title: "Hijacked daily"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.UpdateQuiz(1, owned.ID, dto.QuizUpdateDTO{Title: "Renamed", Public: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.Public)
}

func TestDeleteQuizPermissions(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	svc := NewQuizService(quizRepo, newFakeFavoriteRepo())
	quiz := quizRepo.add(model.Quiz{Title: "Mine", CreatorID: 1})

	err := svc.DeleteQuiz(2, false, quiz.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins may delete quizzes they do not own.
	require.NoError(t, svc.DeleteQuiz(2, true, quiz.ID))
	assert.Equal(t, []uint{quiz.ID}, quizRepo.deleted)
}

func TestGetQuizForPlayMasksAnswers(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	svc := NewQuizService(quizRepo, newFakeFavoriteRepo())
	quiz := quizRepo.add(model.Quiz{
		Title:     "Capitals",
		CreatorID: 1,
		Creator:   model.User{Name: "Ada", Email: "ada@example.com"},
		Questions: []model.Question{{
			ID:     5,
			Prompt: "Capital of France?",
			Type:   model.QuestionTypeMultipleChoice,
			Options: []model.AnswerOption{
				{Text: "Paris", Position: 0},
				{Text: "Lyon", Position: 1},
			},
			CorrectAnswer: "Paris",
			Difficulty:    2,
		}},
	})

	play, err := svc.GetQuizForPlay(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", play.CreatorName)
	require.Len(t, play.Questions, 1)
	q := play.Questions[0]
	assert.Equal(t, uint(5), q.ID)
	assert.Equal(t, []string{"Paris", "Lyon"}, q.Options)
	assert.Equal(t, 2, q.Difficulty)
}

func TestToggleFavorite(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	favRepo := newFakeFavoriteRepo()
	svc := NewQuizService(quizRepo, favRepo)
	quiz := quizRepo.add(model.Quiz{Title: "Capitals", CreatorID: 1})

	on, err := svc.ToggleFavorite(2, quiz.ID)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := svc.ToggleFavorite(2, quiz.ID)
	require.NoError(t, err)
	assert.False(t, off)
	assert.Empty(t, favRepo.favorites)

	_, err = svc.ToggleFavorite(2, 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFavoritesSkipsDeletedQuizzes(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	favRepo := newFakeFavoriteRepo()
	svc := NewQuizService(quizRepo, favRepo)
	kept := quizRepo.add(model.Quiz{Title: "Kept", CreatorID: 1, Public: true})
	doomed := quizRepo.add(model.Quiz{Title: "Doomed", CreatorID: 1, Public: true})

	_, err := svc.ToggleFavorite(2, kept.ID)
	require.NoError(t, err)
	_, err = svc.ToggleFavorite(2, doomed.ID)
	require.NoError(t, err)

	require.NoError(t, quizRepo.Delete(doomed.ID))

	favs, err := svc.ListFavorites(2)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "Kept", favs[0].Title)
}
