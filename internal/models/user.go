// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// Goal is a user's nutrition objective. It selects which food subset is offered and matched.
type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMuscleGain  Goal = "muscle_gain"
	GoalMaintenance Goal = "maintenance"
)

// Goals lists every supported goal in display order.
var Goals = []Goal{GoalWeightLoss, GoalMuscleGain, GoalMaintenance}

// ParseGoal normalizes raw into a Goal. ok is false for unknown values.
func ParseGoal(raw string) (Goal, bool) {
	g := Goal(strings.ToLower(strings.TrimSpace(raw)))
	switch g {
	case GoalWeightLoss, GoalMuscleGain, GoalMaintenance:
		return g, true
	}
	return "", false
}

// GoalOrDefault returns the parsed goal, falling back to maintenance.
func GoalOrDefault(raw string) Goal {
	if g, ok := ParseGoal(raw); ok {
		return g
	}
	return GoalMaintenance
}

// DefaultDailyCalories is the calorie target assigned when registration omits one.
const DefaultDailyCalories = 2000

// User represents an account and its login streak state.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100" json:"name"`
	Email         string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password      string    `gorm:"not null" json:"-"`
	Goal          Goal      `gorm:"size:20;not null" json:"goal"`
	DailyCalories int       `gorm:"not null" json:"daily_calories"`
	LastLoginDate *string   `gorm:"size:10" json:"last_login_date"`
	DayStreak     int       `gorm:"not null" json:"day_streak"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LoginHistory records that a user logged in on a calendar day.
// The (user_id, login_date) pair is unique and guards streak increments.
type LoginHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_login_history_user_date,priority:1" json:"user_id"`
	LoginDate string    `gorm:"size:10;not null;uniqueIndex:idx_login_history_user_date,priority:2" json:"login_date"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for LoginHistory.
func (LoginHistory) TableName() string {
	return "login_history"
}
