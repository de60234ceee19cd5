package models

import "time"

// DailySummary caches one user's totals for one calendar day.
//
// Grain: (user_id, summary_date). The row is derived data: it is always
// recomputed from food_logs, exercise_logs and water_logs, never patched.
type DailySummary struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	UserID                uint      `gorm:"not null;uniqueIndex:idx_daily_summary_user_date,priority:1" json:"user_id"`
	SummaryDate           string    `gorm:"size:10;not null;uniqueIndex:idx_daily_summary_user_date,priority:2" json:"summary_date"`
	TotalCaloriesConsumed float64   `gorm:"not null" json:"total_calories_consumed"`
	TotalCaloriesBurned   float64   `gorm:"not null" json:"total_calories_burned"`
	NetCalories           float64   `gorm:"not null" json:"net_calories"`
	TotalProtein          float64   `gorm:"not null" json:"total_protein"`
	TotalCarbs            float64   `gorm:"not null" json:"total_carbs"`
	TotalFat              float64   `gorm:"not null" json:"total_fat"`
	WaterIntake           float64   `gorm:"not null" json:"water_intake"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName returns the database table name for DailySummary.
func (DailySummary) TableName() string {
	return "daily_summary"
}

// DailyTotals are the raw sums a summary is derived from.
type DailyTotals struct {
	CaloriesConsumed float64
	CaloriesBurned   float64
	Protein          float64
	Carbs            float64
	Fat              float64
	Water            float64
}

// Apply overwrites every derived field of s from t.
func (s *DailySummary) Apply(t DailyTotals) {
	s.TotalCaloriesConsumed = t.CaloriesConsumed
	s.TotalCaloriesBurned = t.CaloriesBurned
	s.NetCalories = t.CaloriesConsumed - t.CaloriesBurned
	s.TotalProtein = t.Protein
	s.TotalCarbs = t.Carbs
	s.TotalFat = t.Fat
	s.WaterIntake = t.Water
}
