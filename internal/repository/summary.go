package repository

import (
	"context"
	"time"

	"nutritrack/internal/models"
	"nutritrack/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SummaryRepository reads and rewrites daily_summary rows and sums the log tables behind them.
type SummaryRepository interface {
	Get(ctx context.Context, userID uint, date string) (*models.DailySummary, error)
	// EnsureLocked inserts the (userID, date) row if absent, then reads it with
	// SELECT .. FOR UPDATE. Only meaningful inside a transaction.
	EnsureLocked(ctx context.Context, userID uint, date string) (*models.DailySummary, error)
	SumDay(ctx context.Context, userID uint, date string) (models.DailyTotals, error)
	// Overwrite replaces every derived field of row from totals.
	Overwrite(ctx context.Context, row *models.DailySummary, totals models.DailyTotals) error
}

type summaryRepository struct {
	db *gorm.DB
}

var summaryLog = observability.NewRepoLogger("daily_summary")

func (r *summaryRepository) Get(ctx context.Context, userID uint, date string) (*models.DailySummary, error) {
	var row models.DailySummary
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND summary_date = ?", userID, date).
		First(&row).Error; err != nil {
		return nil, notFoundOrInternal(err, "Daily summary", date)
	}
	return &row, nil
}

func (r *summaryRepository) EnsureLocked(ctx context.Context, userID uint, date string) (*models.DailySummary, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, dbSystem(r.db), "EnsureLocked", "daily_summary")
	defer span.End()

	seed := models.DailySummary{UserID: userID, SummaryDate: date}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "summary_date"}},
			DoNothing: true,
		}).
		Create(&seed).Error; err != nil && !isUniqueConstraintError(err) {
		summaryLog.LogError(ctx, err, "create")
		return nil, models.NewInternalError(err)
	}

	var row models.DailySummary
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND summary_date = ?", userID, date).
		First(&row).Error; err != nil {
		return nil, notFoundOrInternal(err, "Daily summary", date)
	}
	return &row, nil
}

type foodSums struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

func (r *summaryRepository) SumDay(ctx context.Context, userID uint, date string) (models.DailyTotals, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, dbSystem(r.db), "SumDay", "food_logs,exercise_logs,water_logs")
	defer span.End()

	var totals models.DailyTotals
	day := r.db.WithContext(ctx).Where("user_id = ? AND log_date = ?", userID, date).Session(&gorm.Session{})

	var food foodSums
	if err := day.Model(&models.FoodLog{}).
		Select("COALESCE(SUM(calories), 0) AS calories, COALESCE(SUM(protein), 0) AS protein, " +
			"COALESCE(SUM(carbs), 0) AS carbs, COALESCE(SUM(fat), 0) AS fat").
		Scan(&food).Error; err != nil {
		return totals, models.NewInternalError(err)
	}

	var burned float64
	if err := day.Model(&models.ExerciseLog{}).
		Select("COALESCE(SUM(calories), 0)").
		Scan(&burned).Error; err != nil {
		return totals, models.NewInternalError(err)
	}

	var water float64
	if err := day.Model(&models.WaterLog{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&water).Error; err != nil {
		return totals, models.NewInternalError(err)
	}

	totals = models.DailyTotals{
		CaloriesConsumed: food.Calories,
		CaloriesBurned:   burned,
		Protein:          food.Protein,
		Carbs:            food.Carbs,
		Fat:              food.Fat,
		Water:            water,
	}
	return totals, nil
}

func (r *summaryRepository) Overwrite(ctx context.Context, row *models.DailySummary, totals models.DailyTotals) error {
	row.Apply(totals)
	// Callers hold the row lock, so updated_at orders recomputes of one key.
	row.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Model(row).Updates(map[string]interface{}{
		"total_calories_consumed": row.TotalCaloriesConsumed,
		"total_calories_burned":   row.TotalCaloriesBurned,
		"net_calories":            row.NetCalories,
		"total_protein":           row.TotalProtein,
		"total_carbs":             row.TotalCarbs,
		"total_fat":               row.TotalFat,
		"water_intake":            row.WaterIntake,
		"updated_at":              row.UpdatedAt,
	}).Error; err != nil {
		summaryLog.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	summaryLog.LogUpdate(ctx, map[string]interface{}{"user_id": row.UserID, "summary_date": row.SummaryDate})
	return nil
}
