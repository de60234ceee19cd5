package service

import (
	"context"
	"strings"
	"time"

	"nutritrack/internal/models"
	"nutritrack/internal/observability"
	"nutritrack/internal/repository"
)

// FoodLogInput is a food log request. Calories is required; macros default to 0.
type FoodLogInput struct {
	UserID     uint     `json:"user_id"`
	FoodName   string   `json:"food_name"`
	Calories   *float64 `json:"calories"`
	Protein    float64  `json:"protein"`
	Carbs      float64  `json:"carbs"`
	Fat        float64  `json:"fat"`
	MealType   string   `json:"meal_type"`
	LogDate    string   `json:"log_date"`
	LogTime    string   `json:"log_time"`
	Scanned    bool     `json:"scanned"`
	Confidence string   `json:"confidence"`
}

// ExerciseLogInput is an exercise log request. Duration is in minutes.
type ExerciseLogInput struct {
	UserID       uint     `json:"user_id"`
	ExerciseName string   `json:"exercise_name"`
	ExerciseType string   `json:"exercise_type"`
	Duration     *float64 `json:"duration"`
	Calories     *float64 `json:"calories"`
	LogDate      string   `json:"log_date"`
	LogTime      string   `json:"log_time"`
}

// WaterLogInput is a water log request. Amount is in millilitres.
type WaterLogInput struct {
	UserID  uint     `json:"user_id"`
	Amount  *float64 `json:"amount"`
	LogDate string   `json:"log_date"`
	LogTime string   `json:"log_time"`
}

// LogResult describes a created or deleted log row and the summary of its day.
// Summary is nil and SummaryStale true when the recompute failed.
type LogResult struct {
	ID           uint                 `json:"id"`
	Message      string               `json:"message"`
	LogDate      string               `json:"log_date"`
	Scanned      *bool                `json:"scanned,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
	Summary      *models.DailySummary `json:"summary,omitempty"`
	SummaryStale bool                 `json:"summary_stale,omitempty"`
}

// LogService records food, exercise and water logs and keeps the daily
// summary of every touched day current.
type LogService struct {
	store     repository.Store
	summaries *SummaryService
	clock     Clock
}

func NewLogService(store repository.Store, summaries *SummaryService, clock Clock) *LogService {
	return &LogService{store: store, summaries: summaries, clock: orSystemClock(clock)}
}

var mealTypes = map[string]bool{
	models.MealBreakfast: true,
	models.MealLunch:     true,
	models.MealDinner:    true,
	models.MealSnack:     true,
}

func (s *LogService) LogFood(ctx context.Context, in FoodLogInput) (*LogResult, error) {
	name := strings.TrimSpace(in.FoodName)
	if in.UserID == 0 || name == "" || in.Calories == nil {
		return nil, models.NewValidationError("Missing required fields: user_id, food_name, and calories are required")
	}
	meal := strings.ToLower(strings.TrimSpace(in.MealType))
	if meal == "" {
		meal = models.MealLunch
	}
	if !mealTypes[meal] {
		return nil, models.NewValidationError("meal_type must be one of breakfast, lunch, dinner, snack")
	}
	date, logTime, err := s.stamp(in.LogDate, in.LogTime)
	if err != nil {
		return nil, err
	}
	confidence := in.Confidence
	if confidence == "" {
		confidence = models.DefaultConfidence
	}
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	entry := &models.FoodLog{
		UserID:     in.UserID,
		FoodName:   name,
		Calories:   *in.Calories,
		Protein:    in.Protein,
		Carbs:      in.Carbs,
		Fat:        in.Fat,
		MealType:   meal,
		LogDate:    date,
		LogTime:    logTime,
		Scanned:    in.Scanned,
		Confidence: confidence,
	}
	if err := s.store.Logs().CreateFood(ctx, entry); err != nil {
		return nil, err
	}

	result := s.afterMutation(ctx, entry.ID, "Food logged successfully",
		models.LogRef{UserID: entry.UserID, LogDate: entry.LogDate}, observability.TriggerLogCreate)
	result.Scanned = &entry.Scanned
	return result, nil
}

func (s *LogService) LogExercise(ctx context.Context, in ExerciseLogInput) (*LogResult, error) {
	name := strings.TrimSpace(in.ExerciseName)
	if in.UserID == 0 || name == "" || in.Duration == nil || *in.Duration <= 0 || in.Calories == nil {
		return nil, models.NewValidationError("Missing required fields: user_id, exercise_name, duration, and calories are required")
	}
	date, logTime, err := s.stamp(in.LogDate, in.LogTime)
	if err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	entry := &models.ExerciseLog{
		UserID:       in.UserID,
		ExerciseName: name,
		Duration:     *in.Duration,
		Calories:     *in.Calories,
		LogDate:      date,
		LogTime:      logTime,
	}
	if t := strings.TrimSpace(in.ExerciseType); t != "" {
		entry.ExerciseType = &t
	}
	if err := s.store.Logs().CreateExercise(ctx, entry); err != nil {
		return nil, err
	}
	return s.afterMutation(ctx, entry.ID, "Exercise logged successfully",
		models.LogRef{UserID: entry.UserID, LogDate: entry.LogDate}, observability.TriggerLogCreate), nil
}

func (s *LogService) LogWater(ctx context.Context, in WaterLogInput) (*LogResult, error) {
	if in.UserID == 0 || in.Amount == nil || *in.Amount <= 0 {
		return nil, models.NewValidationError("Missing required fields: user_id and amount are required")
	}
	date, logTime, err := s.stamp(in.LogDate, in.LogTime)
	if err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	entry := &models.WaterLog{
		UserID:  in.UserID,
		Amount:  *in.Amount,
		LogDate: date,
		LogTime: logTime,
	}
	if err := s.store.Logs().CreateWater(ctx, entry); err != nil {
		return nil, err
	}
	return s.afterMutation(ctx, entry.ID, "Water intake logged successfully",
		models.LogRef{UserID: entry.UserID, LogDate: entry.LogDate}, observability.TriggerLogCreate), nil
}

// DeleteFoodLog removes a food log and recomputes the day it was logged on.
func (s *LogService) DeleteFoodLog(ctx context.Context, id uint) (*LogResult, error) {
	entry, err := s.store.Logs().GetFood(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Logs().DeleteFood(ctx, id); err != nil {
		return nil, err
	}
	return s.afterMutation(ctx, id, "Food log deleted successfully",
		models.LogRef{UserID: entry.UserID, LogDate: entry.LogDate}, observability.TriggerLogDelete), nil
}

// DeleteExerciseLog removes an exercise log and recomputes the day it was logged on.
func (s *LogService) DeleteExerciseLog(ctx context.Context, id uint) (*LogResult, error) {
	entry, err := s.store.Logs().GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Logs().DeleteExercise(ctx, id); err != nil {
		return nil, err
	}
	return s.afterMutation(ctx, id, "Exercise log deleted successfully",
		models.LogRef{UserID: entry.UserID, LogDate: entry.LogDate}, observability.TriggerLogDelete), nil
}

// DeleteWaterLog removes a water log and recomputes the day it was logged on.
func (s *LogService) DeleteWaterLog(ctx context.Context, id uint) (*LogResult, error) {
	entry, err := s.store.Logs().GetWater(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.Logs().DeleteWater(ctx, id); err != nil {
		return nil, err
	}
	return s.afterMutation(ctx, id, "Water log deleted successfully",
		models.LogRef{UserID: entry.UserID, LogDate: entry.LogDate}, observability.TriggerLogDelete), nil
}

func (s *LogService) ListFoodLogs(ctx context.Context, userID uint, date string) ([]models.FoodLog, error) {
	if err := validateOptionalDate(date); err != nil {
		return nil, err
	}
	return s.store.Logs().ListFood(ctx, userID, date)
}

func (s *LogService) ListExerciseLogs(ctx context.Context, userID uint, date string) ([]models.ExerciseLog, error) {
	if err := validateOptionalDate(date); err != nil {
		return nil, err
	}
	return s.store.Logs().ListExercise(ctx, userID, date)
}

func (s *LogService) ListWaterLogs(ctx context.Context, userID uint, date string) ([]models.WaterLog, error) {
	if err := validateOptionalDate(date); err != nil {
		return nil, err
	}
	return s.store.Logs().ListWater(ctx, userID, date)
}

// stamp fills in today and the current time for an omitted date or time.
func (s *LogService) stamp(date, logTime string) (string, string, error) {
	date, err := DateOrToday(strings.TrimSpace(date), s.clock)
	if err != nil {
		return "", "", err
	}
	logTime = strings.TrimSpace(logTime)
	if logTime == "" {
		logTime = s.clock().UTC().Format(TimeLayout)
	}
	return date, logTime, nil
}

func (s *LogService) requireUser(ctx context.Context, userID uint) error {
	_, err := s.store.Users().GetByID(ctx, userID)
	return err
}

// afterMutation recomputes ref's day. A failed recompute does not undo the
// mutation; the result is flagged stale instead.
func (s *LogService) afterMutation(ctx context.Context, id uint, message string, ref models.LogRef, trigger string) *LogResult {
	result := &LogResult{
		ID:        id,
		Message:   message,
		LogDate:   ref.LogDate,
		Timestamp: s.clock().UTC(),
	}
	summary, err := s.summaries.Recompute(ctx, trigger, ref.UserID, ref.LogDate)
	if err != nil {
		s.summaries.MarkStale(ctx, ref, trigger, err)
		result.SummaryStale = true
		return result
	}
	result.Summary = summary
	return result
}

func validateOptionalDate(date string) error {
	if date == "" {
		return nil
	}
	return ValidateDate(date)
}
