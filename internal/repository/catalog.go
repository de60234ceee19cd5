package repository

import (
	"context"
	"strings"

	"nutritrack/internal/models"
	"nutritrack/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CatalogRepository reads the static food and exercise tables.
type CatalogRepository interface {
	ListFoods(ctx context.Context) ([]models.FoodCatalogItem, error)
	SearchFoods(ctx context.Context, query string) ([]models.FoodCatalogItem, error)
	GetFood(ctx context.Context, id uint) (*models.FoodCatalogItem, error)
	ListExercises(ctx context.Context) ([]models.ExerciseCatalogItem, error)
	ListExercisesByType(ctx context.Context, exerciseType string) ([]models.ExerciseCatalogItem, error)
	// METValue returns the MET value of the first exercise of the given type.
	METValue(ctx context.Context, exerciseType string) (float64, error)
	// UpsertFoods and UpsertExercises insert rows by primary key, leaving existing ids untouched.
	UpsertFoods(ctx context.Context, items []models.FoodCatalogItem) error
	UpsertExercises(ctx context.Context, items []models.ExerciseCatalogItem) error
}

type catalogRepository struct {
	db *gorm.DB
}

var catalogLog = observability.NewRepoLogger("food_database")

func (r *catalogRepository) ListFoods(ctx context.Context) ([]models.FoodCatalogItem, error) {
	items := []models.FoodCatalogItem{}
	if err := r.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *catalogRepository) SearchFoods(ctx context.Context, query string) ([]models.FoodCatalogItem, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	items := []models.FoodCatalogItem{}
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(keywords) LIKE ?", pattern, pattern).
		Order("name").
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	catalogLog.LogRead(ctx, map[string]interface{}{"query": query, "count": len(items)})
	return items, nil
}

func (r *catalogRepository) GetFood(ctx context.Context, id uint) (*models.FoodCatalogItem, error) {
	var item models.FoodCatalogItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFoundOrInternal(err, "Food", id)
	}
	return &item, nil
}

func (r *catalogRepository) ListExercises(ctx context.Context) ([]models.ExerciseCatalogItem, error) {
	items := []models.ExerciseCatalogItem{}
	if err := r.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *catalogRepository) ListExercisesByType(ctx context.Context, exerciseType string) ([]models.ExerciseCatalogItem, error) {
	items := []models.ExerciseCatalogItem{}
	if err := r.db.WithContext(ctx).
		Where("type = ?", exerciseType).
		Order("name").
		Find(&items).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *catalogRepository) METValue(ctx context.Context, exerciseType string) (float64, error) {
	var item models.ExerciseCatalogItem
	if err := r.db.WithContext(ctx).
		Where("type = ?", exerciseType).
		Order("id").
		First(&item).Error; err != nil {
		return 0, notFoundOrInternal(err, "Exercise type", exerciseType)
	}
	return item.METValue, nil
}

func (r *catalogRepository) UpsertFoods(ctx context.Context, items []models.FoodCatalogItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&items).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *catalogRepository) UpsertExercises(ctx context.Context, items []models.ExerciseCatalogItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&items).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
