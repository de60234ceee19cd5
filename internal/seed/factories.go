package seed

import (
	"fmt"
	"math"
	"strings"

	"nutritrack/internal/models"
	"nutritrack/internal/nutriscan"

	"github.com/brianvoe/gofakeit/v6"
)

// averageBodyWeightKg converts MET values into calories for generated workouts.
const averageBodyWeightKg = 70.0

// mealSlots are the meals a generated day draws from, with the hour range each is eaten in.
var mealSlots = []struct {
	meal     string
	from, to int
}{
	{models.MealBreakfast, 6, 9},
	{models.MealLunch, 11, 14},
	{models.MealDinner, 17, 20},
	{models.MealSnack, 15, 22},
}

// Factory builds demo users and log rows. It does not touch the database;
// the Seeder persists what it returns.
type Factory struct {
	faker        *gofakeit.Faker
	catalog      *nutriscan.Catalog
	passwordHash string
}

// NewFactory creates a Factory. A zero seed draws from crypto/rand.
func NewFactory(catalog *nutriscan.Catalog, seed int64, passwordHash string) *Factory {
	return &Factory{
		faker:        gofakeit.New(seed),
		catalog:      catalog,
		passwordHash: passwordHash,
	}
}

// User builds the i-th demo account. Emails are unique per index.
func (f *Factory) User(i int, overrides ...func(*models.User)) *models.User {
	first, last := f.faker.FirstName(), f.faker.LastName()
	user := &models.User{
		Name:          first + " " + last,
		Email:         fmt.Sprintf("%s.%s.%d@nutritrack.test", strings.ToLower(first), strings.ToLower(last), i),
		Password:      f.passwordHash,
		Goal:          models.Goals[f.faker.Number(0, len(models.Goals)-1)],
		DailyCalories: f.faker.Number(16, 30) * 100,
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// FoodLogs builds two to four meals for one day, drawn mostly from the user's goal foods.
func (f *Factory) FoodLogs(user *models.User, date string) []models.FoodLog {
	preferred := f.catalog.ForGoal(user.Goal)
	all := f.catalog.Foods()

	n := f.faker.Number(2, len(mealSlots))
	logs := make([]models.FoodLog, 0, n)
	for _, slot := range mealSlots[:n] {
		pool := preferred
		if f.faker.Number(1, 10) > 7 {
			pool = all
		}
		food := pool[f.faker.Number(0, len(pool)-1)]
		portion := f.faker.Float64Range(0.75, 1.5)
		logs = append(logs, models.FoodLog{
			UserID:     user.ID,
			FoodName:   food.Name,
			Calories:   round1(food.Calories * portion),
			Protein:    round1(food.Protein * portion),
			Carbs:      round1(food.Carbs * portion),
			Fat:        round1(food.Fat * portion),
			MealType:   slot.meal,
			LogDate:    date,
			LogTime:    f.clockTime(slot.from, slot.to),
			Scanned:    f.faker.Bool(),
			Confidence: fmt.Sprintf("%d%%", f.faker.Number(70, 95)),
		})
	}
	return logs
}

// ExerciseLog builds one workout for the day, or nil on a rest day.
func (f *Factory) ExerciseLog(user *models.User, date string) *models.ExerciseLog {
	if f.faker.Number(1, 10) <= 4 {
		return nil
	}
	exercises := f.catalog.Exercises()
	ex := exercises[f.faker.Number(0, len(exercises)-1)]
	minutes := float64(f.faker.Number(3, 12) * 5)
	exerciseType := ex.Type
	return &models.ExerciseLog{
		UserID:       user.ID,
		ExerciseName: ex.Name,
		ExerciseType: &exerciseType,
		Duration:     minutes,
		Calories:     math.Round(ex.METValue * averageBodyWeightKg * minutes / 60),
		LogDate:      date,
		LogTime:      f.clockTime(6, 21),
	}
}

// WaterLogs builds one to six drinks of 200 to 500 ml.
func (f *Factory) WaterLogs(user *models.User, date string) []models.WaterLog {
	n := f.faker.Number(1, 6)
	logs := make([]models.WaterLog, 0, n)
	for i := 0; i < n; i++ {
		logs = append(logs, models.WaterLog{
			UserID:  user.ID,
			Amount:  float64(f.faker.Number(4, 10) * 50),
			LogDate: date,
			LogTime: f.clockTime(7, 22),
		})
	}
	return logs
}

// LoggedIn decides whether the user opened the app on a given day.
func (f *Factory) LoggedIn() bool {
	return f.faker.Number(1, 10) <= 8
}

func (f *Factory) clockTime(fromHour, toHour int) string {
	return fmt.Sprintf("%02d:%02d:%02d", f.faker.Number(fromHour, toHour), f.faker.Number(0, 59), f.faker.Number(0, 59))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
