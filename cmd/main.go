package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pvhoang/quizforge/config"
	"github.com/pvhoang/quizforge/database"
	_ "github.com/pvhoang/quizforge/docs" // Swagger docs - auto-generated
	"github.com/pvhoang/quizforge/internal/controller"
	"github.com/pvhoang/quizforge/internal/logger"
	"github.com/pvhoang/quizforge/internal/middleware"
	"github.com/pvhoang/quizforge/internal/model"
	"github.com/pvhoang/quizforge/internal/repository"
	"github.com/pvhoang/quizforge/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title QuizForge API
// @version 1.0
// @description Quiz platform with user-authored quizzes, ratings, favorites, an auto-generated daily quiz and streak tracking.
// @contact.name API Support
// @contact.email support@quizforge.local
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewQuizRepository,
			repository.NewQuestionRepository,
			repository.NewResultRepository,
			repository.NewRatingRepository,
			repository.NewFavoriteRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewEmailService,
			service.NewQuestionFetcher,
			service.NewAuthService,
			service.NewUserService,
			service.NewQuizService,
			service.NewGradingService,
			service.NewRatingService,
			service.NewDailyQuizService,
			service.NewStreakService,
			service.NewSchedulerService,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewAuthController,
			controller.NewQuizController,
			controller.NewDailyController,
			controller.NewUserController,
		),

		// Invokers - Functions that are executed by Fx
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(StartScheduler),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// Request logging via the global zerolog instance
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authCtrl *controller.AuthController,
	quizCtrl *controller.QuizController,
	dailyCtrl *controller.DailyController,
	userCtrl *controller.UserController,
) {
	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/register", authCtrl.Register)
		auth.GET("/verify", authCtrl.Verify)
		auth.POST("/login", authCtrl.Login)

		// Public quiz surface. The daily route is registered before the
		// parameterized sibling so it resolves as the static match.
		api.GET("/quizzes", quizCtrl.ListQuizzes)
		api.GET("/quizzes/daily", dailyCtrl.GetDailyQuiz)
		api.GET("/quizzes/:quizId", quizCtrl.GetQuizForPlay)
		api.GET("/quizzes/:quizId/ratings", quizCtrl.ListRatings)
		api.POST("/:quizId/submit", quizCtrl.SubmitAnswer)
		api.GET("/daily/completion-status", dailyCtrl.CompletionStatus)

		authed := api.Group("")
		authed.Use(middleware.RequireAuth(cfg))
		{
			authed.POST("/quizzes", quizCtrl.CreateQuiz)
			authed.PUT("/quizzes/:quizId", quizCtrl.UpdateQuiz)
			authed.DELETE("/quizzes/:quizId", quizCtrl.DeleteQuiz)
			authed.POST("/quizzes/:quizId/results", quizCtrl.RecordResult)
			authed.POST("/quizzes/:quizId/rate", quizCtrl.RateQuiz)
			authed.POST("/quizzes/:quizId/favorite", quizCtrl.ToggleFavorite)

			authed.GET("/users/me", userCtrl.Me)
			authed.PUT("/users/me", userCtrl.UpdateMe)
			authed.DELETE("/users/me", userCtrl.DeleteMe)
			authed.GET("/users/me/results", userCtrl.MyResults)
			authed.GET("/users/me/quizzes", userCtrl.MyQuizzes)
			authed.GET("/users/me/favorites", userCtrl.MyFavorites)
			authed.GET("/users/me/streak", dailyCtrl.MyStreak)
			authed.POST("/users/daily-quiz/completed", dailyCtrl.MarkDailyCompleted)

			admin := authed.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.PUT("/users/:userId", userCtrl.AdminUpdateUser)
				admin.POST("/cleanup", userCtrl.AdminCleanup)
				admin.POST("/daily/generate", userCtrl.AdminGenerateDaily)
			}
		}
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("QuizForge server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartScheduler ties the cron scheduler to the fx lifecycle.
func StartScheduler(lc fx.Lifecycle, scheduler service.SchedulerService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			scheduler.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-scheduler.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Quiz{},
		&model.QuizTag{},
		&model.Question{},
		&model.AnswerOption{},
		&model.QuizResult{},
		&model.QuizRating{},
		&model.QuizFavorite{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
