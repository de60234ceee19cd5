package service

import (
	"context"
	"fmt"
	"time"

	"nutritrack/internal/models"
	"nutritrack/internal/observability"
	"nutritrack/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// MessageWelcomeBack is returned when a login leaves the streak untouched.
const MessageWelcomeBack = "Welcome back!"

// LoginResult is the outcome of recording one login.
type LoginResult struct {
	User    *models.User
	Streak  int
	Changed bool
	Message string
}

// StreakService tracks consecutive login days.
type StreakService struct {
	store repository.Store
	clock Clock
}

func NewStreakService(store repository.Store, clock Clock) *StreakService {
	return &StreakService{store: store, clock: orSystemClock(clock)}
}

// Today is the calendar day logins are currently recorded against.
func (s *StreakService) Today() string {
	return Today(s.clock)
}

// RecordLogin records that userID logged in on today and updates the streak.
//
// The user row is locked and the login_history insert is the idempotency
// guard: a second login on the same day, including a concurrent one that lost
// the race on the unique (user_id, login_date) index, changes nothing.
func (s *StreakService) RecordLogin(ctx context.Context, userID uint, today string) (*LoginResult, error) {
	if err := ValidateDate(today); err != nil {
		return nil, err
	}

	ctx, span := observability.GetTraceLayer().TraceService(ctx, "streak", "RecordLogin",
		attribute.Int64("user.id", int64(userID)),
		attribute.String("login.date", today),
	)

	var result *LoginResult
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := tx.Users().LockByID(ctx, userID)
		if err != nil {
			return err
		}

		inserted, err := tx.Logins().Record(ctx, userID, today)
		if err != nil {
			return err
		}
		if !inserted {
			result = &LoginResult{User: user, Streak: user.DayStreak, Message: MessageWelcomeBack}
			return nil
		}

		streak, changed := NextStreak(user.LastLoginDate, user.DayStreak, today)
		if err := tx.Users().UpdateStreak(ctx, userID, today, streak); err != nil {
			return err
		}
		user.LastLoginDate = &today
		user.DayStreak = streak

		result = &LoginResult{User: user, Streak: streak, Changed: changed, Message: MessageWelcomeBack}
		if changed {
			result.Message = fmt.Sprintf("Day streak: %d days!", streak)
		}
		return nil
	})
	observability.EndSpan(span, err)
	if err != nil {
		return nil, asAppError(err)
	}
	return result, nil
}

// NextStreak computes the streak after a first login on today. changed is
// false only when previous is already today, which the login_history guard
// normally prevents.
func NextStreak(previous *string, streak int, today string) (next int, changed bool) {
	if previous == nil {
		return 1, true
	}
	if *previous == today {
		return max(streak, 1), false
	}
	prev, err := time.Parse(DateLayout, *previous)
	if err != nil {
		return 1, true
	}
	yesterday, err := PreviousDay(today)
	if err != nil {
		return 1, true
	}
	if prev.Format(DateLayout) == yesterday {
		return streak + 1, true
	}
	return 1, true
}
