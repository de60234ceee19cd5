package models

import "time"

// Meal types accepted on food logs.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// DefaultConfidence is stored on manual food logs that carry no scan confidence.
const DefaultConfidence = "85%"

// FoodLog is one eaten item. Rows are created and deleted, never updated.
type FoodLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_food_logs_user_date,priority:1" json:"user_id"`
	FoodName   string    `gorm:"size:255;not null" json:"food_name"`
	Calories   float64   `gorm:"not null" json:"calories"`
	Protein    float64   `gorm:"not null" json:"protein"`
	Carbs      float64   `gorm:"not null" json:"carbs"`
	Fat        float64   `gorm:"not null" json:"fat"`
	MealType   string    `gorm:"size:20;not null" json:"meal_type"`
	LogDate    string    `gorm:"size:10;not null;index:idx_food_logs_user_date,priority:2" json:"log_date"`
	LogTime    string    `gorm:"size:20;not null" json:"log_time"`
	Scanned    bool      `gorm:"not null" json:"scanned"`
	Confidence string    `gorm:"size:10" json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// ExerciseLog is one workout with its duration in minutes and calories burned.
type ExerciseLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index:idx_exercise_logs_user_date,priority:1" json:"user_id"`
	ExerciseName string    `gorm:"size:255;not null" json:"exercise_name"`
	ExerciseType *string   `gorm:"size:50" json:"exercise_type"`
	Duration     float64   `gorm:"not null" json:"duration"`
	Calories     float64   `gorm:"not null" json:"calories"`
	LogDate      string    `gorm:"size:10;not null;index:idx_exercise_logs_user_date,priority:2" json:"log_date"`
	LogTime      string    `gorm:"size:20;not null" json:"log_time"`
	CreatedAt    time.Time `json:"created_at"`
}

// WaterLog is one drink, measured in millilitres.
type WaterLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_water_logs_user_date,priority:1" json:"user_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	LogDate   string    `gorm:"size:10;not null;index:idx_water_logs_user_date,priority:2" json:"log_date"`
	LogTime   string    `gorm:"size:20;not null" json:"log_time"`
	CreatedAt time.Time `json:"created_at"`
}

// LogKind names one of the three log tables.
type LogKind string

const (
	LogKindFood     LogKind = "food"
	LogKindExercise LogKind = "exercise"
	LogKindWater    LogKind = "water"
)

// LogRef identifies the owner and day of a log row.
type LogRef struct {
	UserID  uint
	LogDate string
}
