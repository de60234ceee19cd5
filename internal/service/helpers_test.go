package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"nutritrack/internal/cache"
	"nutritrack/internal/models"
	"nutritrack/internal/repository"
	"nutritrack/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

type testEnv struct {
	db        *gorm.DB
	store     repository.Store
	cache     *cache.Cache
	publisher *publisherStub
	summaries *SummaryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	_, rdb := testutil.NewRedis(t)
	store := repository.NewStore(db)
	c := cache.New(rdb)
	pub := &publisherStub{}
	return &testEnv{
		db:        db,
		store:     store,
		cache:     c,
		publisher: pub,
		summaries: NewSummaryService(store, c, pub, fixedClock(fixedNow)),
	}
}

func (e *testEnv) user(t *testing.T, email string) *models.User {
	t.Helper()
	return testutil.CreateUser(t, e.db, email, "password123", models.GoalWeightLoss)
}

// publisherStub records published summaries.
type publisherStub struct {
	mu        sync.Mutex
	published []models.DailySummary
	err       error
}

func (p *publisherStub) PublishSummary(_ context.Context, s *models.DailySummary) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, *s)
	return p.err
}

func (p *publisherStub) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

// sumFailStore is a Store whose day sums always fail.
type sumFailStore struct {
	repository.Store
}

func (s sumFailStore) Summaries() repository.SummaryRepository {
	return failingSums{s.Store.Summaries()}
}

func (s sumFailStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(sumFailStore{tx})
	})
}

type failingSums struct {
	repository.SummaryRepository
}

func (failingSums) SumDay(context.Context, uint, string) (models.DailyTotals, error) {
	return models.DailyTotals{}, models.NewInternalError(errors.New("sum failed"))
}

// streakFailStore is a Store whose streak updates always fail.
type streakFailStore struct {
	repository.Store
}

func (s streakFailStore) Users() repository.UserRepository {
	return failingStreaks{s.Store.Users()}
}

func (s streakFailStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	return s.Store.Transaction(ctx, func(tx repository.Store) error {
		return fn(streakFailStore{tx})
	})
}

type failingStreaks struct {
	repository.UserRepository
}

func (failingStreaks) UpdateStreak(context.Context, uint, string, int) error {
	return models.NewInternalError(errors.New("update failed"))
}

// afterGetStore runs hook once, right after the first summary row read.
// Build it with a non-nil once.
type afterGetStore struct {
	repository.Store
	hook func()
	once *sync.Once
}

func (s afterGetStore) Summaries() repository.SummaryRepository {
	return hookedSummaries{SummaryRepository: s.Store.Summaries(), after: func() { s.once.Do(s.hook) }}
}

type hookedSummaries struct {
	repository.SummaryRepository
	after func()
}

func (r hookedSummaries) Get(ctx context.Context, userID uint, date string) (*models.DailySummary, error) {
	row, err := r.SummaryRepository.Get(ctx, userID, date)
	r.after()
	return row, err
}

func ptr[T any](v T) *T {
	return &v
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, models.ErrorCode(err), err.Error())
}
