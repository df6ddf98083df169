package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pvhoang/quizforge/internal/dto"
	"github.com/pvhoang/quizforge/internal/middleware"
	"github.com/pvhoang/quizforge/internal/service"
)

type UserController struct {
	userSvc      service.UserService
	quizSvc      service.QuizService
	schedulerSvc service.SchedulerService
}

func NewUserController(userSvc service.UserService, quizSvc service.QuizService, schedulerSvc service.SchedulerService) *UserController {
	return &UserController{userSvc: userSvc, quizSvc: quizSvc, schedulerSvc: schedulerSvc}
}

// Me godoc
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserDTO
// @Router /users/me [get]
func (ctrl *UserController) Me(c *gin.Context) {
	user, err := ctrl.userSvc.GetProfile(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body dto.ProfileUpdateDTO true "Profile changes"
// @Success 200 {object} dto.UserDTO
// @Router /users/me [put]
func (ctrl *UserController) UpdateMe(c *gin.Context) {
	var req dto.ProfileUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	user, err := ctrl.userSvc.UpdateProfile(middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteMe godoc
// @Summary Mark the caller's account for deletion
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse
// @Router /users/me [delete]
func (ctrl *UserController) DeleteMe(c *gin.Context) {
	if err := ctrl.userSvc.RequestDelete(middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Account marked for deletion"})
}

// MyResults godoc
// @Summary List the caller's quiz results
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ResultDTO
// @Router /users/me/results [get]
func (ctrl *UserController) MyResults(c *gin.Context) {
	results, err := ctrl.userSvc.MyResults(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// MyQuizzes godoc
// @Summary List quizzes authored by the caller
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.QuizSummaryDTO
// @Router /users/me/quizzes [get]
func (ctrl *UserController) MyQuizzes(c *gin.Context) {
	quizzes, err := ctrl.quizSvc.ListMine(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// MyFavorites godoc
// @Summary List quizzes the caller has bookmarked
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.QuizSummaryDTO
// @Router /users/me/favorites [get]
func (ctrl *UserController) MyFavorites(c *gin.Context) {
	quizzes, err := ctrl.quizSvc.ListFavorites(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quizzes)
}

// AdminUpdateUser godoc
// @Summary Update a user account (admin)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param update body dto.AdminUserUpdateDTO true "Account changes"
// @Success 200 {object} dto.UserDTO
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/users/{userId} [put]
func (ctrl *UserController) AdminUpdateUser(c *gin.Context) {
	userID, ok := parseID(c, "userId")
	if !ok {
		return
	}
	var req dto.AdminUserUpdateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	user, notified, err := ctrl.userSvc.AdminUpdateUser(userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "notification_sent": notified})
}

// AdminCleanup godoc
// @Summary Purge accounts marked pending delete (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int
// @Router /admin/cleanup [post]
func (ctrl *UserController) AdminCleanup(c *gin.Context) {
	purged, err := ctrl.userSvc.PurgePendingDeletes()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": purged})
}

// AdminGenerateDaily godoc
// @Summary Trigger the daily-quiz generation sweep manually (admin)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 202 {object} dto.MessageResponse
// @Router /admin/daily/generate [post]
func (ctrl *UserController) AdminGenerateDaily(c *gin.Context) {
	go ctrl.schedulerSvc.RunGenerationSweep(context.Background())
	c.JSON(http.StatusAccepted, dto.MessageResponse{Message: "Generation sweep started"})
}
