package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pvhoang/quizforge/internal/model"
	"github.com/pvhoang/quizforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// StreakService tracks consecutive-day daily-quiz participation.
type StreakService interface {
	// MarkDailyCompleted records a finished daily-quiz play and returns the
	// user's streak. Calling it twice within the same calendar day leaves the
	// streak unchanged after the second call.
	MarkDailyCompleted(userID uint, score, maxScore int) (int, error)
	// RunMorningSweep runs after a new daily quiz is published: reminders for
	// opted-in users, streak resets for users who skipped yesterday.
	RunMorningSweep() error
	// RunEveningSweep warns opted-in users with a positive streak who have
	// not played at all today.
	RunEveningSweep() error
	Status(userID uint) (int, bool, error)
}

type streakService struct {
	userRepo   repository.UserRepository
	quizRepo   repository.QuizRepository
	resultRepo repository.ResultRepository
	email      EmailService
	now        func() time.Time
}

func NewStreakService(
	userRepo repository.UserRepository,
	quizRepo repository.QuizRepository,
	resultRepo repository.ResultRepository,
	email EmailService,
) StreakService {
	return &streakService{
		userRepo:   userRepo,
		quizRepo:   quizRepo,
		resultRepo: resultRepo,
		email:      email,
		now:        time.Now,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *streakService) MarkDailyCompleted(userID uint, score, maxScore int) (int, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return 0, fmt.Errorf("error loading user %d: %w", userID, err)
	}

	now := s.now()
	quiz, err := s.quizRepo.FindDailyByDate(now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, fmt.Errorf("no daily quiz published today: %w", ErrNotFound)
		}
		return 0, fmt.Errorf("error loading today's daily quiz: %w", err)
	}

	alreadyPlayed, err := s.resultRepo.HasDailyResultSince(userID, startOfDay(now))
	if err != nil {
		return 0, fmt.Errorf("error checking today's results for user %d: %w", userID, err)
	}

	result := &model.QuizResult{
		UserID:   userID,
		QuizID:   quiz.ID,
		Score:    score,
		MaxScore: maxScore,
		PlayedAt: now,
	}
	if err := s.resultRepo.Create(result); err != nil {
		return 0, fmt.Errorf("error recording daily quiz result: %w", err)
	}

	if alreadyPlayed {
		// Repeat play within the same day: refresh the timestamp only.
		user.LastDailyPlayedAt = &now
		if err := s.userRepo.Update(user); err != nil {
			return 0, fmt.Errorf("error updating user %d: %w", userID, err)
		}
		return user.StreakDays, nil
	}

	user.StreakDays++
	user.LastDailyPlayedAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return 0, fmt.Errorf("error updating streak for user %d: %w", userID, err)
	}
	log.Info().Uint("userID", userID).Int("streak", user.StreakDays).Msg("Daily quiz completed, streak incremented")
	return user.StreakDays, nil
}

func (s *streakService) RunMorningSweep() error {
	now := s.now()
	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	yesterdayQuizExisted := true
	if _, err := s.quizRepo.FindDailyByDate(yesterday); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			yesterdayQuizExisted = false
		} else {
			return fmt.Errorf("error checking yesterday's daily quiz: %w", err)
		}
	}

	users, err := s.userRepo.FindAllActive()
	if err != nil {
		return fmt.Errorf("error listing users for streak sweep: %w", err)
	}

	for i := range users {
		user := &users[i]

		playedToday, err := s.resultRepo.HasDailyResultSince(user.ID, today)
		if err != nil {
			log.Error().Err(err).Uint("userID", user.ID).Msg("Streak sweep: failed to check today's results")
			continue
		}

		if user.DailyReminder && !playedToday {
			if err := s.email.SendToUser(user, "Today's daily quiz is ready!", TemplateDailyReminder, nil); err != nil {
				log.Error().Err(err).Uint("userID", user.ID).Msg("Streak sweep: failed to send reminder")
			}
		}

		if user.StreakDays > 0 && yesterdayQuizExisted && missedYesterday(user.LastDailyPlayedAt, yesterday) {
			prior := user.StreakDays
			user.StreakDays = 0
			if err := s.userRepo.Update(user); err != nil {
				log.Error().Err(err).Uint("userID", user.ID).Msg("Streak sweep: failed to reset streak")
				continue
			}
			log.Info().Uint("userID", user.ID).Int("priorStreak", prior).Msg("Streak reset")
			if user.DailyReminder {
				vars := map[string]string{"Streak": strconv.Itoa(prior)}
				if err := s.email.SendToUser(user, "Your daily quiz streak was lost", TemplateStreakLost, vars); err != nil {
					log.Error().Err(err).Uint("userID", user.ID).Msg("Streak sweep: failed to send streak-lost notice")
				}
			}
		}
	}
	return nil
}

// missedYesterday reports whether the last-played date is strictly before
// yesterday. Users who already played today keep their streak.
func missedYesterday(lastPlayed *time.Time, yesterday time.Time) bool {
	if lastPlayed == nil {
		return true
	}
	return startOfDay(*lastPlayed).Before(yesterday)
}

func (s *streakService) RunEveningSweep() error {
	today := startOfDay(s.now())

	users, err := s.userRepo.FindReminderOptIn()
	if err != nil {
		return fmt.Errorf("error listing opted-in users for evening sweep: %w", err)
	}

	for i := range users {
		user := &users[i]
		if user.StreakDays <= 0 {
			continue
		}
		if user.LastDailyPlayedAt != nil && !startOfDay(*user.LastDailyPlayedAt).Before(today) {
			continue // already played today
		}
		vars := map[string]string{"Streak": strconv.Itoa(user.StreakDays)}
		if err := s.email.SendToUser(user, "Your streak is at risk!", TemplateStreakAtRisk, vars); err != nil {
			log.Error().Err(err).Uint("userID", user.ID).Msg("Evening sweep: failed to send at-risk notice")
		}
	}
	return nil
}

func (s *streakService) Status(userID uint) (int, bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return 0, false, fmt.Errorf("error loading user %d: %w", userID, err)
	}
	playedToday, err := s.resultRepo.HasDailyResultSince(userID, startOfDay(s.now()))
	if err != nil {
		return 0, false, fmt.Errorf("error checking today's results: %w", err)
	}
	return user.StreakDays, playedToday, nil
}
