package cache

import (
	"fmt"
	"time"
)

const (
	SummaryKeyPrefix      = "summary:%d:%s"
	FoodCatalogKey        = "catalog:foods"
	ExerciseCatalogKey    = "catalog:exercises"
	ExerciseTypeKeyPrefix = "catalog:exercises:%s"
)

const (
	SummaryTTL = 10 * time.Minute
	CatalogTTL = time.Hour
)

// SummaryKey is the cache key of one user's summary for one day.
func SummaryKey(userID uint, date string) string {
	return fmt.Sprintf(SummaryKeyPrefix, userID, date)
}

// ExerciseTypeKey is the cache key of the exercise catalog filtered by type.
func ExerciseTypeKey(exerciseType string) string {
	return fmt.Sprintf(ExerciseTypeKeyPrefix, exerciseType)
}

// CatalogKeys lists every catalog key, including the per-type lists of exerciseTypes.
func CatalogKeys(exerciseTypes ...string) []string {
	keys := []string{FoodCatalogKey, ExerciseCatalogKey}
	for _, t := range exerciseTypes {
		keys = append(keys, ExerciseTypeKey(t))
	}
	return keys
}
