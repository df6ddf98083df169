package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pvhoang/quizforge/internal/dto"
	"github.com/pvhoang/quizforge/internal/middleware"
	"github.com/pvhoang/quizforge/internal/service"
)

type DailyController struct {
	dailySvc  service.DailyQuizService
	streakSvc service.StreakService
}

func NewDailyController(dailySvc service.DailyQuizService, streakSvc service.StreakService) *DailyController {
	return &DailyController{dailySvc: dailySvc, streakSvc: streakSvc}
}

// GetDailyQuiz godoc
// @Summary Get today's daily quiz
// @Tags daily
// @Produce json
// @Success 200 {object} dto.QuizPlayDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /quizzes/daily [get]
func (ctrl *DailyController) GetDailyQuiz(c *gin.Context) {
	quiz, err := ctrl.dailySvc.GetDailyQuiz(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quiz)
}

// CompletionStatus godoc
// @Summary Check whether a user has played today's daily quiz
// @Tags daily
// @Produce json
// @Param userId query int true "User ID"
// @Success 200 {object} map[string]bool
// @Router /daily/completion-status [get]
func (ctrl *DailyController) CompletionStatus(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid userId"})
		return
	}
	completed, err := ctrl.dailySvc.CompletionStatus(uint(userID), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": completed})
}

// MarkDailyCompleted godoc
// @Summary Record a finished daily-quiz play and update the streak
// @Description Idempotent per calendar day: a repeat play refreshes the
// @Description last-played timestamp but leaves the streak unchanged.
// @Tags daily
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param result body dto.DailyCompletedDTO true "Play result"
// @Success 200 {object} dto.StreakDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/daily-quiz/completed [post]
func (ctrl *DailyController) MarkDailyCompleted(c *gin.Context) {
	var req dto.DailyCompletedDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	streak, err := ctrl.streakSvc.MarkDailyCompleted(middleware.UserID(c), req.Score, req.MaxScore)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StreakDTO{StreakDays: streak, PlayedToday: true})
}

// MyStreak godoc
// @Summary Get the caller's streak status
// @Tags daily
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StreakDTO
// @Router /users/me/streak [get]
func (ctrl *DailyController) MyStreak(c *gin.Context) {
	streak, playedToday, err := ctrl.streakSvc.Status(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StreakDTO{StreakDays: streak, PlayedToday: playedToday})
}
