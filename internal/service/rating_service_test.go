package service

import (
	"testing"

	"github.com/pvhoang/quizforge/internal/dto"
	"github.com/pvhoang/quizforge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateQuizRejectsSelfRating(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	quiz := quizRepo.add(model.Quiz{Title: "Mine", CreatorID: 1})
	svc := NewRatingService(quizRepo, newFakeRatingRepo())

	_, err := svc.RateQuiz(1, quiz.ID, dto.RateQuizDTO{Rating: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRateQuizUpsertsPerUser(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	ratingRepo := newFakeRatingRepo()
	quiz := quizRepo.add(model.Quiz{Title: "Capitals", CreatorID: 1})
	svc := NewRatingService(quizRepo, ratingRepo)

	first, err := svc.RateQuiz(2, quiz.ID, dto.RateQuizDTO{Rating: 4, Comment: "nice"})
	require.NoError(t, err)
	assert.Equal(t, 4, first.Rating)

	second, err := svc.RateQuiz(2, quiz.ID, dto.RateQuizDTO{Rating: 5, Comment: "even better"})
	require.NoError(t, err)
	assert.Equal(t, 5, second.Rating)
	assert.Equal(t, first.ID, second.ID, "second submission updates the same row")

	ratings, err := ratingRepo.ListByQuiz(quiz.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Rating)
	assert.Equal(t, "even better", ratings[0].Comment)
}

func TestRateQuizUnknownQuiz(t *testing.T) {
	svc := NewRatingService(newFakeQuizRepo(), newFakeRatingRepo())

	_, err := svc.RateQuiz(2, 999, dto.RateQuizDTO{Rating: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListForQuiz(t *testing.T) {
	quizRepo := newFakeQuizRepo()
	ratingRepo := newFakeRatingRepo()
	quiz := quizRepo.add(model.Quiz{Title: "Capitals", CreatorID: 1})
	svc := NewRatingService(quizRepo, ratingRepo)

	_, err := svc.RateQuiz(2, quiz.ID, dto.RateQuizDTO{Rating: 4})
	require.NoError(t, err)
	_, err = svc.RateQuiz(3, quiz.ID, dto.RateQuizDTO{Rating: 2, Comment: "too easy"})
	require.NoError(t, err)

	ratings, err := svc.ListForQuiz(quiz.ID)
	require.NoError(t, err)
	assert.Len(t, ratings, 2)
}
