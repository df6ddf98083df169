package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pvhoang/quizforge/internal/dto"
	"github.com/pvhoang/quizforge/internal/middleware"
	"github.com/pvhoang/quizforge/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizSvc    service.QuizService
	gradingSvc service.GradingService
	ratingSvc  service.RatingService
}

func NewQuizController(quizSvc service.QuizService, gradingSvc service.GradingService, ratingSvc service.RatingService) *QuizController {
	return &QuizController{quizSvc: quizSvc, gradingSvc: gradingSvc, ratingSvc: ratingSvc}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

// CreateQuiz godoc
// @Summary Create a quiz with its questions
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quiz body dto.QuizCreateDTO true "Quiz data"
// @Success 201 {object} model.Quiz
// @Failure 400 {object} dto.ErrorResponse
// @Router /quizzes [post]
func (ctrl *QuizController) CreateQuiz(c *gin.Context) {
	var req dto.QuizCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind QuizCreateDTO")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	quiz, err := ctrl.quizSvc.CreateQuiz(middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, quiz)
}

// UpdateQuiz godoc
// @Summary Update quiz metadata (creator only)
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param quiz body dto.QuizUpdateDTO true "Quiz metadata"
// @Success 200 {object} model.Quiz
// @Failure 403 {object} dto.ErrorResponse
// @Router /quizzes/{quizId} [put]
func (ctrl *QuizController) UpdateQuiz(c *gin.Context) {
	quizID, ok := parseID(c, "quizId")
	if !ok {
		return
	}
	var req dto.QuizUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	quiz, err := ctrl.quizSvc.UpdateQuiz(middleware.UserID(c), quizID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary Delete a quiz and everything attached to it
// @Tags quizzes
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse
// @Router /quizzes/{quizId} [delete]
func (ctrl *QuizController) DeleteQuiz(c *gin.Context) {
	quizID, ok := parseID(c, "quizId")
	if !ok {
		return
	}
	if err := ctrl.quizSvc.DeleteQuiz(middleware.UserID(c), middleware.IsAdmin(c), quizID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListQuizzes godoc
// @Summary List public quizzes
// @Tags quizzes
// @Produce json
// @Success 200 {array} dto.QuizSummaryDTO
// @Router /quizzes [get]
func (ctrl *QuizController) ListQuizzes(c *gin.Context) {
	quizzes, err := ctrl.quizSvc.ListPublic()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// GetQuizForPlay godoc
// @Summary Get a quiz for playing
// @Description Correct answers and creator contact details are masked
// @Tags quizzes
// @Produce json
// @Param quizId path int true "Quiz ID"
// @Success 200 {object} dto.QuizPlayDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizId} [get]
func (ctrl *QuizController) GetQuizForPlay(c *gin.Context) {
	quizID, ok := parseID(c, "quizId")
	if !ok {
		return
	}
	quiz, err := ctrl.quizSvc.GetQuizForPlay(quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// SubmitAnswer godoc
// @Summary Grade a submitted answer
// @Description Case-insensitive, whitespace-trimmed exact match. The verdict
// @Description includes the correct answer; the pre-submission view never does.
// @Tags play
// @Accept json
// @Produce json
// @Param quizId path int true "Quiz ID"
// @Param answer body dto.SubmitAnswerDTO true "Submitted answer"
// @Success 200 {object} dto.GradeResultDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /{quizId}/submit [post]
func (ctrl *QuizController) SubmitAnswer(c *gin.Context) {
	quizID, ok := parseID(c, "quizId")
	if !ok {
		return
	}
	var req dto.SubmitAnswerDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := ctrl.gradingSvc.Grade(quizID, req.QuestionID, req.Answer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RecordResult godoc
// @Summary Record a finished play-through of a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param result body dto.DailyCompletedDTO true "Play result"
// @Success 201 {object} dto.ResultDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/{quizId}/results [post]
func (ctrl *QuizController) RecordResult(c *gin.Context) {
	quizID, ok := parseID(c, "quizId")
	if !ok {
		return
	}
	var req dto.DailyCompletedDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	result, err := ctrl.gradingSvc.SubmitQuizPlay(middleware.UserID(c), quizID, req.Score, req.MaxScore)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// RateQuiz godoc
// @Summary Rate a quiz from 1 to 5
// @Description Upserts the caller's rating. Creators may not rate their own quiz.
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Param rating body dto.RateQuizDTO true "Rating"
// @Success 200 {object} dto.RatingDTO
// @Failure 403 {object} dto.ErrorResponse
// @Router /quizzes/{quizId}/rate [post]
func (ctrl *QuizController) RateQuiz(c *gin.Context) {
	quizID, ok := parseID(c, "quizId")
	if !ok {
		return
	}
	var req dto.RateQuizDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	rating, err := ctrl.ratingSvc.RateQuiz(middleware.UserID(c), quizID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// ListRatings godoc
// @Summary List ratings of a quiz
// @Tags quizzes
// @Produce json
// @Param quizId path int true "Quiz ID"
// @Success 200 {array} dto.RatingDTO
// @Router /quizzes/{quizId}/ratings [get]
func (ctrl *QuizController) ListRatings(c *gin.Context) {
	quizID, ok := parseID(c, "quizId")
	if !ok {
		return
	}
	ratings, err := ctrl.ratingSvc.ListForQuiz(quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// ToggleFavorite godoc
// @Summary Toggle a quiz bookmark
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param quizId path int true "Quiz ID"
// @Success 200 {object} map[string]bool
// @Router /quizzes/{quizId}/favorite [post]
func (ctrl *QuizController) ToggleFavorite(c *gin.Context) {
	quizID, ok := parseID(c, "quizId")
	if !ok {
		return
	}
	favorited, err := ctrl.quizSvc.ToggleFavorite(middleware.UserID(c), quizID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}
