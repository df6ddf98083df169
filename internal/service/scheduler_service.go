package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/pvhoang/quizforge/config"
	"github.com/pvhoang/quizforge/internal/model"
	"github.com/pvhoang/quizforge/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Categories used for daily quiz generation before any user-authored tags
// exist in the database.
var seedCategories = []string{
	"Science", "History", "Geography", "Movies",
	"Sports", "Music", "Technology", "Literature",
}

// SchedulerService drives daily quiz generation and the streak sweeps on a
// fixed daily clock, plus once at startup to cover missed runs.
type SchedulerService interface {
	Start()
	Stop() context.Context
	// RunGenerationSweep walks a day from no-quiz through generating to
	// published. Failures are logged and the run ends; the next tick or the
	// next startup retries.
	RunGenerationSweep(ctx context.Context)
	RunReminderSweep()
}

type schedulerService struct {
	cfg       *config.Config
	cron      *cron.Cron
	dailyQuiz DailyQuizService
	streaks   StreakService
	quizRepo  repository.QuizRepository
	rng       *rand.Rand
	now       func() time.Time
}

func NewSchedulerService(
	cfg *config.Config,
	dailyQuiz DailyQuizService,
	streaks StreakService,
	quizRepo repository.QuizRepository,
) SchedulerService {
	return &schedulerService{
		cfg:       cfg,
		cron:      cron.New(),
		dailyQuiz: dailyQuiz,
		streaks:   streaks,
		quizRepo:  quizRepo,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

func (s *schedulerService) Start() {
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.GenerateSpec, func() {
		s.RunGenerationSweep(context.Background())
	}); err != nil {
		log.Error().Err(err).Str("spec", s.cfg.Scheduler.GenerateSpec).Msg("Failed to schedule generation sweep")
	}
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.ReminderSpec, s.RunReminderSweep); err != nil {
		log.Error().Err(err).Str("spec", s.cfg.Scheduler.ReminderSpec).Msg("Failed to schedule reminder sweep")
	}
	s.cron.Start()
	log.Info().Str("generate", s.cfg.Scheduler.GenerateSpec).Str("remind", s.cfg.Scheduler.ReminderSpec).
		Msg("Scheduler started")

	// Startup sweep covers runs missed while the process was down.
	go s.RunGenerationSweep(context.Background())
}

func (s *schedulerService) Stop() context.Context {
	return s.cron.Stop()
}

func (s *schedulerService) RunGenerationSweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Generation sweep panicked")
		}
	}()

	today := s.now()
	exists, err := s.dailyQuiz.HasDailyQuiz(today)
	if err != nil {
		log.Error().Err(err).Msg("Generation sweep: failed to check today's quiz")
		return
	}
	if !exists {
		category, err := s.pickCategory()
		if err != nil {
			log.Error().Err(err).Msg("Generation sweep: failed to pick a category")
			return
		}
		log.Info().Str("category", category).Msg("Generation sweep: generating today's daily quiz")
		if err := s.dailyQuiz.GenerateForDate(ctx, today, category); err != nil {
			log.Error().Err(err).Msg("Generation sweep: daily quiz generation failed")
			return
		}
	}

	if err := s.streaks.RunMorningSweep(); err != nil {
		log.Error().Err(err).Msg("Generation sweep: streak sweep failed")
	}
}

func (s *schedulerService) RunReminderSweep() {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Reminder sweep panicked")
		}
	}()
	if err := s.streaks.RunEveningSweep(); err != nil {
		log.Error().Err(err).Msg("Reminder sweep failed")
	}
}

// pickCategory selects uniformly at random from known categories, excluding
// the daily marker tag and the generic general-knowledge bucket.
func (s *schedulerService) pickCategory() (string, error) {
	names, err := s.quizRepo.DistinctTagNames()
	if err != nil {
		return "", fmt.Errorf("error listing categories: %w", err)
	}

	candidates := make([]string, 0, len(names))
	for _, n := range names {
		if n == model.TagDailyQuiz || n == model.CategoryGeneralKnowledge {
			continue
		}
		candidates = append(candidates, n)
	}
	if len(candidates) == 0 {
		candidates = seedCategories
	}
	return candidates[s.rng.Intn(len(candidates))], nil
}
