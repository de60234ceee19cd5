package service

import (
	"context"
	"sync"
	"testing"

	"nutritrack/internal/cache"
	"nutritrack/internal/models"
	"nutritrack/internal/observability"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecompute_EmptyDayYieldsZeros(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "empty@example.com")

	s, err := env.summaries.RecomputeDailySummary(context.Background(), u.ID, "2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, u.ID, s.UserID)
	assert.Equal(t, "2024-03-10", s.SummaryDate)
	assert.Zero(t, s.TotalCaloriesConsumed)
	assert.Zero(t, s.TotalCaloriesBurned)
	assert.Zero(t, s.NetCalories)
	assert.Zero(t, s.WaterIntake)
}

func TestRecompute_SumsOnlyThatUsersDay(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "sums@example.com")
	other := env.user(t, "other@example.com")
	day := "2024-03-10"

	rows := []interface{}{
		&models.FoodLog{UserID: u.ID, FoodName: "Oatmeal", Calories: 150, Protein: 5, Carbs: 27, Fat: 3, MealType: "breakfast", LogDate: day, LogTime: "08:00:00"},
		&models.FoodLog{UserID: u.ID, FoodName: "Salmon", Calories: 206, Protein: 22, Carbs: 0, Fat: 13, MealType: "dinner", LogDate: day, LogTime: "19:00:00"},
		&models.FoodLog{UserID: u.ID, FoodName: "Other day", Calories: 999, LogDate: "2024-03-11", LogTime: "12:00:00", MealType: "lunch"},
		&models.FoodLog{UserID: other.ID, FoodName: "Other user", Calories: 777, LogDate: day, LogTime: "12:00:00", MealType: "lunch"},
		&models.ExerciseLog{UserID: u.ID, ExerciseName: "Running", Duration: 45, Calories: 481, LogDate: day, LogTime: "07:00:00"},
		&models.WaterLog{UserID: u.ID, Amount: 500, LogDate: day, LogTime: "09:00:00"},
		&models.WaterLog{UserID: u.ID, Amount: 750, LogDate: day, LogTime: "15:00:00"},
	}
	for _, r := range rows {
		require.NoError(t, env.db.Create(r).Error)
	}

	s, err := env.summaries.RecomputeDailySummary(context.Background(), u.ID, day)
	require.NoError(t, err)
	assert.InDelta(t, 356, s.TotalCaloriesConsumed, 0.001)
	assert.InDelta(t, 481, s.TotalCaloriesBurned, 0.001)
	assert.InDelta(t, -125, s.NetCalories, 0.001)
	assert.InDelta(t, 27, s.TotalProtein, 0.001)
	assert.InDelta(t, 27, s.TotalCarbs, 0.001)
	assert.InDelta(t, 16, s.TotalFat, 0.001)
	assert.InDelta(t, 1250, s.WaterIntake, 0.001)

	stored, err := env.store.Summaries().Get(context.Background(), u.ID, day)
	require.NoError(t, err)
	assert.Equal(t, s.NetCalories, stored.NetCalories)
	assert.Equal(t, 1, env.publisher.count())
}

func TestRecompute_RepeatedKeepsOneRow(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "repeat@example.com")
	ctx := context.Background()

	first, err := env.summaries.RecomputeDailySummary(ctx, u.ID, "2024-03-10")
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&models.WaterLog{UserID: u.ID, Amount: 300, LogDate: "2024-03-10", LogTime: "10:00:00"}).Error)
	second, err := env.summaries.RecomputeDailySummary(ctx, u.ID, "2024-03-10")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.InDelta(t, 300, second.WaterIntake, 0.001)

	var count int64
	require.NoError(t, env.db.Model(&models.DailySummary{}).Where("user_id = ?", u.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecompute_ConcurrentSameKey(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "concurrent@example.com")
	day := "2024-03-12"
	require.NoError(t, env.db.Create(&models.FoodLog{UserID: u.ID, FoodName: "Apple", Calories: 95, MealType: "snack", LogDate: day, LogTime: "10:00:00"}).Error)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.summaries.RecomputeDailySummary(context.Background(), u.ID, day)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	var rows []models.DailySummary
	require.NoError(t, env.db.Where("user_id = ? AND summary_date = ?", u.ID, day).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.InDelta(t, 95, rows[0].TotalCaloriesConsumed, 0.001)
}

func TestRecompute_FailureLeavesNoRow(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "fail@example.com")
	svc := NewSummaryService(sumFailStore{env.store}, env.cache, env.publisher, fixedClock(fixedNow))
	failures := observability.SummaryRecomputeFailures.WithLabelValues(observability.TriggerManual)
	before := promtest.ToFloat64(failures)

	_, err := svc.RecomputeDailySummary(context.Background(), u.ID, "2024-03-10")
	requireCode(t, err, models.CodeInternal)
	assert.Equal(t, before+1, promtest.ToFloat64(failures))

	_, err = env.store.Summaries().Get(context.Background(), u.ID, "2024-03-10")
	assert.True(t, models.IsNotFound(err))
	assert.Zero(t, env.publisher.count())
}

func TestRecompute_RejectsBadDate(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.summaries.RecomputeDailySummary(context.Background(), 1, "2024-02-30")
	requireCode(t, err, models.CodeValidation)
}

func TestGetDailySummary_BuildsMissingRowAndDefaultsToToday(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "read@example.com")

	s, err := env.summaries.GetDailySummary(context.Background(), u.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", s.SummaryDate)
	assert.Zero(t, s.TotalCaloriesConsumed)

	_, err = env.store.Summaries().Get(context.Background(), u.ID, "2024-03-15")
	assert.NoError(t, err)
	// Building a missing row on read is not an update anyone has to hear about.
	assert.Zero(t, env.publisher.count())
}

func TestGetDailySummary_SlowFillDoesNotOverwriteWriteThrough(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "race@example.com")
	ctx := context.Background()
	day := "2024-03-15"
	logs := NewLogService(env.store, env.summaries, fixedClock(fixedNow))

	_, err := logs.LogFood(ctx, FoodLogInput{UserID: u.ID, FoodName: "Yogurt", Calories: ptr(100.0), LogDate: day})
	require.NoError(t, err)
	require.NoError(t, env.cache.Invalidate(ctx, cache.SummaryKey(u.ID, day)))

	// The reader misses the cache and loads the 100 kcal row; a second log
	// commits and writes 150 through before the reader fills the cache.
	reader := NewSummaryService(afterGetStore{Store: env.store, hook: func() {
		_, err := logs.LogFood(ctx, FoodLogInput{UserID: u.ID, FoodName: "Berries", Calories: ptr(50.0), LogDate: day})
		require.NoError(t, err)
	}, once: &sync.Once{}}, env.cache, env.publisher, fixedClock(fixedNow))

	stale, err := reader.GetDailySummary(ctx, u.ID, day)
	require.NoError(t, err)
	assert.InDelta(t, 100, stale.TotalCaloriesConsumed, 0.001)

	var cached models.DailySummary
	found, err := env.cache.GetJSON(ctx, cache.SummaryKey(u.ID, day), &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 150, cached.TotalCaloriesConsumed, 0.001)

	s, err := env.summaries.GetDailySummary(ctx, u.ID, day)
	require.NoError(t, err)
	assert.InDelta(t, 150, s.TotalCaloriesConsumed, 0.001)
}

func TestRecompute_WriteThroughKeepsLatest(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "order@example.com")
	ctx := context.Background()
	day := "2024-03-12"
	key := cache.SummaryKey(u.ID, day)

	older, err := env.summaries.RecomputeDailySummary(ctx, u.ID, day)
	require.NoError(t, err)
	require.NoError(t, env.db.Create(&models.WaterLog{UserID: u.ID, Amount: 600, LogDate: day, LogTime: "10:00:00"}).Error)
	newer, err := env.summaries.Recompute(ctx, observability.TriggerLogCreate, u.ID, day)
	require.NoError(t, err)
	require.True(t, newer.UpdatedAt.After(older.UpdatedAt))

	// A recompute that committed earlier but reaches the cache late is dropped.
	stored, err := env.cache.SetJSONVersioned(ctx, key, older, older.UpdatedAt.UnixMicro(), cache.SummaryTTL)
	require.NoError(t, err)
	assert.False(t, stored)

	var cached models.DailySummary
	found, err := env.cache.GetJSON(ctx, key, &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.InDelta(t, 600, cached.WaterIntake, 0.001)
}

func TestGetDailySummary_WriteThroughAfterRecompute(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "cache@example.com")
	ctx := context.Background()
	day := "2024-03-14"

	_, err := env.summaries.GetDailySummary(ctx, u.ID, day)
	require.NoError(t, err)
	var cached models.DailySummary
	found, err := env.cache.GetJSON(ctx, cache.SummaryKey(u.ID, day), &cached)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, env.db.Create(&models.FoodLog{UserID: u.ID, FoodName: "Toast", Calories: 250, MealType: "breakfast", LogDate: day, LogTime: "08:00:00"}).Error)
	_, err = env.summaries.Recompute(ctx, observability.TriggerLogCreate, u.ID, day)
	require.NoError(t, err)

	// Remove the row so only the cache can answer.
	require.NoError(t, env.db.Where("user_id = ?", u.ID).Delete(&models.DailySummary{}).Error)
	s, err := env.summaries.GetDailySummary(ctx, u.ID, day)
	require.NoError(t, err)
	assert.InDelta(t, 250, s.TotalCaloriesConsumed, 0.001)
}

func TestGetDailySummary_Errors(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.summaries.GetDailySummary(context.Background(), 9999, "2024-03-10")
	requireCode(t, err, models.CodeNotFound)

	_, err = env.summaries.GetDailySummary(context.Background(), 1, "03/10/2024")
	requireCode(t, err, models.CodeValidation)
}

func TestSummaryService_WorksWithoutCacheOrPublisher(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "bare@example.com")
	svc := NewSummaryService(env.store, nil, nil, nil)

	s, err := svc.GetDailySummary(context.Background(), u.ID, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", s.SummaryDate)
}

func TestMarkStale_InvalidatesCachedSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	key := cache.SummaryKey(4, "2024-03-10")
	require.NoError(t, env.cache.SetJSON(ctx, key, models.DailySummary{UserID: 4}, cache.SummaryTTL))

	env.summaries.MarkStale(ctx, models.LogRef{UserID: 4, LogDate: "2024-03-10"}, observability.TriggerLogCreate, assert.AnError)

	var cached models.DailySummary
	found, err := env.cache.GetJSON(ctx, key, &cached)
	require.NoError(t, err)
	assert.False(t, found)
}
