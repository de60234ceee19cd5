package service

import (
	"context"
	"strings"

	"nutritrack/internal/cache"
	"nutritrack/internal/models"
	"nutritrack/internal/nutriscan"
	"nutritrack/internal/repository"
)

// UserProfile is the public goal view of a user.
type UserProfile struct {
	ID            uint        `json:"id"`
	Goal          models.Goal `json:"goal"`
	DailyCalories int         `json:"daily_calories"`
}

// CatalogService serves the food and exercise reference tables.
// Table reads are cached; the tables only change when seeded.
type CatalogService struct {
	store   repository.Store
	cache   *cache.Cache
	catalog *nutriscan.Catalog
}

func NewCatalogService(store repository.Store, c *cache.Cache, catalog *nutriscan.Catalog) *CatalogService {
	return &CatalogService{store: store, cache: c, catalog: catalog}
}

func (s *CatalogService) ListFoods(ctx context.Context) ([]models.FoodCatalogItem, error) {
	return cache.Aside(ctx, s.cache, cache.FoodCatalogKey, cache.CatalogTTL, s.store.Catalog().ListFoods)
}

func (s *CatalogService) SearchFoods(ctx context.Context, query string) ([]models.FoodCatalogItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.store.Catalog().SearchFoods(ctx, query)
}

func (s *CatalogService) GetFood(ctx context.Context, id uint) (*models.FoodCatalogItem, error) {
	return s.store.Catalog().GetFood(ctx, id)
}

func (s *CatalogService) ListExercises(ctx context.Context) ([]models.ExerciseCatalogItem, error) {
	return cache.Aside(ctx, s.cache, cache.ExerciseCatalogKey, cache.CatalogTTL, s.store.Catalog().ListExercises)
}

func (s *CatalogService) ListExercisesByType(ctx context.Context, exerciseType string) ([]models.ExerciseCatalogItem, error) {
	return cache.Aside(ctx, s.cache, cache.ExerciseTypeKey(exerciseType), cache.CatalogTTL,
		func(ctx context.Context) ([]models.ExerciseCatalogItem, error) {
			return s.store.Catalog().ListExercisesByType(ctx, exerciseType)
		})
}

// METValue returns the MET of the first exercise of exerciseType.
func (s *CatalogService) METValue(ctx context.Context, exerciseType string) (float64, error) {
	met, err := s.store.Catalog().METValue(ctx, exerciseType)
	if models.IsNotFound(err) {
		return 0, models.NewNotFoundMessage("Exercise type not found")
	}
	return met, err
}

// Suggestions returns the static foods offered for goal, falling back to maintenance.
func (s *CatalogService) Suggestions(goal string) []nutriscan.Food {
	return s.catalog.ForGoal(models.Goal(strings.ToLower(strings.TrimSpace(goal))))
}

// InvalidateCatalog drops cached catalog reads after a reseed.
func (s *CatalogService) InvalidateCatalog(ctx context.Context, exerciseTypes ...string) error {
	return s.cache.Invalidate(ctx, cache.CatalogKeys(exerciseTypes...)...)
}

func (s *CatalogService) UserProfile(ctx context.Context, userID uint) (*UserProfile, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewNotFoundMessage("User not found")
		}
		return nil, err
	}
	return &UserProfile{ID: user.ID, Goal: user.Goal, DailyCalories: user.DailyCalories}, nil
}
