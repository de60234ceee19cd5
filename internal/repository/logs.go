package repository

import (
	"context"

	"nutritrack/internal/models"
	"nutritrack/internal/observability"

	"gorm.io/gorm"
)

// LogRepository persists food, exercise and water logs. Rows are never updated.
type LogRepository interface {
	CreateFood(ctx context.Context, entry *models.FoodLog) error
	CreateExercise(ctx context.Context, entry *models.ExerciseLog) error
	CreateWater(ctx context.Context, entry *models.WaterLog) error

	GetFood(ctx context.Context, id uint) (*models.FoodLog, error)
	GetExercise(ctx context.Context, id uint) (*models.ExerciseLog, error)
	GetWater(ctx context.Context, id uint) (*models.WaterLog, error)

	// List methods filter by date when date is non-empty and order newest first.
	ListFood(ctx context.Context, userID uint, date string) ([]models.FoodLog, error)
	ListExercise(ctx context.Context, userID uint, date string) ([]models.ExerciseLog, error)
	ListWater(ctx context.Context, userID uint, date string) ([]models.WaterLog, error)

	DeleteFood(ctx context.Context, id uint) error
	DeleteExercise(ctx context.Context, id uint) error
	DeleteWater(ctx context.Context, id uint) error
}

type logRepository struct {
	db *gorm.DB
}

var (
	foodLog     = observability.NewRepoLogger("food_logs")
	exerciseLog = observability.NewRepoLogger("exercise_logs")
	waterLog    = observability.NewRepoLogger("water_logs")
)

func createRow[T any](ctx context.Context, db *gorm.DB, l *observability.RepoLogger, row *T, fields map[string]interface{}) error {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		l.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	l.LogCreate(ctx, fields)
	return nil
}

func getRow[T any](ctx context.Context, db *gorm.DB, resource string, id uint) (*T, error) {
	var row T
	if err := db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, notFoundOrInternal(err, resource, id)
	}
	return &row, nil
}

func listRows[T any](ctx context.Context, db *gorm.DB, userID uint, date string) ([]T, error) {
	q := db.WithContext(ctx).Where("user_id = ?", userID)
	if date != "" {
		q = q.Where("log_date = ?", date)
	}
	rows := []T{}
	if err := q.Order("log_date DESC").Order("log_time DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

func deleteRow[T any](ctx context.Context, db *gorm.DB, l *observability.RepoLogger, resource string, id uint) error {
	var row T
	result := db.WithContext(ctx).Delete(&row, id)
	if result.Error != nil {
		l.LogError(ctx, result.Error, "delete")
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError(resource, id)
	}
	l.LogDelete(ctx, map[string]interface{}{"id": id})
	return nil
}

func (r *logRepository) CreateFood(ctx context.Context, entry *models.FoodLog) error {
	return createRow(ctx, r.db, foodLog, entry, map[string]interface{}{"user_id": entry.UserID, "log_date": entry.LogDate})
}

func (r *logRepository) CreateExercise(ctx context.Context, entry *models.ExerciseLog) error {
	return createRow(ctx, r.db, exerciseLog, entry, map[string]interface{}{"user_id": entry.UserID, "log_date": entry.LogDate})
}

func (r *logRepository) CreateWater(ctx context.Context, entry *models.WaterLog) error {
	return createRow(ctx, r.db, waterLog, entry, map[string]interface{}{"user_id": entry.UserID, "log_date": entry.LogDate})
}

func (r *logRepository) GetFood(ctx context.Context, id uint) (*models.FoodLog, error) {
	return getRow[models.FoodLog](ctx, r.db, "Food log", id)
}

func (r *logRepository) GetExercise(ctx context.Context, id uint) (*models.ExerciseLog, error) {
	return getRow[models.ExerciseLog](ctx, r.db, "Exercise log", id)
}

func (r *logRepository) GetWater(ctx context.Context, id uint) (*models.WaterLog, error) {
	return getRow[models.WaterLog](ctx, r.db, "Water log", id)
}

func (r *logRepository) ListFood(ctx context.Context, userID uint, date string) ([]models.FoodLog, error) {
	return listRows[models.FoodLog](ctx, r.db, userID, date)
}

func (r *logRepository) ListExercise(ctx context.Context, userID uint, date string) ([]models.ExerciseLog, error) {
	return listRows[models.ExerciseLog](ctx, r.db, userID, date)
}

func (r *logRepository) ListWater(ctx context.Context, userID uint, date string) ([]models.WaterLog, error) {
	return listRows[models.WaterLog](ctx, r.db, userID, date)
}

func (r *logRepository) DeleteFood(ctx context.Context, id uint) error {
	return deleteRow[models.FoodLog](ctx, r.db, foodLog, "Food log", id)
}

func (r *logRepository) DeleteExercise(ctx context.Context, id uint) error {
	return deleteRow[models.ExerciseLog](ctx, r.db, exerciseLog, "Exercise log", id)
}

func (r *logRepository) DeleteWater(ctx context.Context, id uint) error {
	return deleteRow[models.WaterLog](ctx, r.db, waterLog, "Water log", id)
}
