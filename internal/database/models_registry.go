package database

import "nutritrack/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.LoginHistory{},
		&models.FoodCatalogItem{},
		&models.ExerciseCatalogItem{},
		&models.FoodLog{},
		&models.ExerciseLog{},
		&models.WaterLog{},
		&models.DailySummary{},
	}
}
