// Package seed loads the reference catalog and generates demo data for
// development databases.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"nutritrack/internal/middleware"
	"nutritrack/internal/models"
	"nutritrack/internal/nutriscan"
	"nutritrack/internal/observability"
	"nutritrack/internal/repository"
	"nutritrack/internal/service"

	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every generated account.
const DemoPassword = "password123"

// CatalogResult describes a catalog load.
type CatalogResult struct {
	Foods         int
	Exercises     int
	ExerciseTypes []string
}

// Catalog upserts the reference foods and exercises. Existing ids are left
// untouched, so running it on every start is safe.
func Catalog(ctx context.Context, store repository.Store, catalog *nutriscan.Catalog) (*CatalogResult, error) {
	foods := catalog.FoodRecords()
	exercises := catalog.ExerciseRecords()

	if err := store.Catalog().UpsertFoods(ctx, foods); err != nil {
		return nil, fmt.Errorf("seed foods: %w", err)
	}
	if err := store.Catalog().UpsertExercises(ctx, exercises); err != nil {
		return nil, fmt.Errorf("seed exercises: %w", err)
	}

	seen := make(map[string]struct{})
	res := &CatalogResult{Foods: len(foods), Exercises: len(exercises)}
	for _, e := range exercises {
		if _, ok := seen[e.Type]; ok {
			continue
		}
		seen[e.Type] = struct{}{}
		res.ExerciseTypes = append(res.ExerciseTypes, e.Type)
	}
	sort.Strings(res.ExerciseTypes)

	middleware.Logger.Info("catalog seeded",
		slog.Int("foods", res.Foods),
		slog.Int("exercises", res.Exercises),
	)
	return res, nil
}

// Options configure a demo run.
type Options struct {
	Users int
	Days  int
	// Seed fixes the generated data; zero picks a random seed.
	Seed int64
	// FastHash hashes the demo password at bcrypt.MinCost.
	FastHash bool
}

// Report counts what a demo run created.
type Report struct {
	Users        int
	Logins       int
	FoodLogs     int
	ExerciseLogs int
	WaterLogs    int
	Summaries    int
}

// Seeder writes demo users with a history of logs and logins.
type Seeder struct {
	store     repository.Store
	summaries *service.SummaryService
	streaks   *service.StreakService
	catalog   *nutriscan.Catalog
	clock     service.Clock
}

// NewSeeder creates a Seeder. Summaries and streaks go through the same
// services the API uses.
func NewSeeder(store repository.Store, summaries *service.SummaryService, streaks *service.StreakService, catalog *nutriscan.Catalog, clock service.Clock) *Seeder {
	if clock == nil {
		clock = service.SystemClock
	}
	return &Seeder{store: store, summaries: summaries, streaks: streaks, catalog: catalog, clock: clock}
}

// Demo creates opts.Users accounts, each with opts.Days days of history ending
// today, then recomputes the summary of every touched day.
func (s *Seeder) Demo(ctx context.Context, opts Options) (*Report, error) {
	if opts.Users <= 0 || opts.Days <= 0 {
		return nil, fmt.Errorf("seed: users and days must be positive")
	}

	cost := bcrypt.DefaultCost
	if opts.FastHash {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	start := time.Now()
	f := NewFactory(s.catalog, opts.Seed, string(hash))
	report := &Report{}
	touched := make(map[models.LogRef]struct{})

	dates := s.dates(opts.Days)
	for i := 0; i < opts.Users; i++ {
		user := f.User(i)
		if err := s.store.Users().Create(ctx, user); err != nil {
			return report, fmt.Errorf("create user %s: %w", user.Email, err)
		}
		report.Users++

		for _, date := range dates {
			if f.LoggedIn() {
				if _, err := s.streaks.RecordLogin(ctx, user.ID, date); err != nil {
					return report, fmt.Errorf("record login: %w", err)
				}
				report.Logins++
			}
			if err := s.day(ctx, f, user, date, report); err != nil {
				return report, err
			}
			touched[models.LogRef{UserID: user.ID, LogDate: date}] = struct{}{}
		}
	}

	for ref := range touched {
		if _, err := s.summaries.Recompute(ctx, observability.TriggerSeed, ref.UserID, ref.LogDate); err != nil {
			return report, fmt.Errorf("recompute summary: %w", err)
		}
		report.Summaries++
	}

	middleware.Logger.Info("demo data seeded",
		slog.Int("users", report.Users),
		slog.Int("logins", report.Logins),
		slog.Int("food_logs", report.FoodLogs),
		slog.Int("exercise_logs", report.ExerciseLogs),
		slog.Int("water_logs", report.WaterLogs),
		slog.Int("summaries", report.Summaries),
		slog.Duration("took", time.Since(start)),
	)
	return report, nil
}

func (s *Seeder) day(ctx context.Context, f *Factory, user *models.User, date string, report *Report) error {
	logs := s.store.Logs()
	for _, entry := range f.FoodLogs(user, date) {
		if err := logs.CreateFood(ctx, &entry); err != nil {
			return fmt.Errorf("create food log: %w", err)
		}
		report.FoodLogs++
	}
	if entry := f.ExerciseLog(user, date); entry != nil {
		if err := logs.CreateExercise(ctx, entry); err != nil {
			return fmt.Errorf("create exercise log: %w", err)
		}
		report.ExerciseLogs++
	}
	for _, entry := range f.WaterLogs(user, date) {
		if err := logs.CreateWater(ctx, &entry); err != nil {
			return fmt.Errorf("create water log: %w", err)
		}
		report.WaterLogs++
	}
	return nil
}

// dates returns the last n calendar days, oldest first, so streaks build forward.
func (s *Seeder) dates(n int) []string {
	today := s.clock().UTC()
	out := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, today.AddDate(0, 0, -i).Format(service.DateLayout))
	}
	return out
}
