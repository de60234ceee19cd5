package nutriscan

import (
	"math"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"time"

	"nutritrack/internal/models"
)

// Rand is the randomness a matcher draws from. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// SystemRand draws from the math/rand/v2 global source.
var SystemRand Rand = globalRand{}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// MatchInput is what a matcher knows about an uploaded photo.
type MatchInput struct {
	Filename string
	Goal     models.Goal
	At       time.Time
}

// ScannedFood is a catalog food scaled by portion variance.
type ScannedFood struct {
	Food
	EstimatedPortion string `json:"estimated_portion"`
	MealSuggestion   string `json:"meal_suggestion"`
}

// Match is the outcome of analysing one photo.
type Match struct {
	Food       ScannedFood
	Base       Food
	Confidence int
	KeywordHit bool
}

// FoodMatcher identifies the food in a photo.
type FoodMatcher interface {
	Match(in MatchInput) Match
}

// KeywordMatcher is a stand-in for real recognition: it matches catalog
// keywords in the file name and otherwise picks a plausible food for the hour.
type KeywordMatcher struct {
	catalog *Catalog
	rnd     Rand
}

// NewKeywordMatcher returns a matcher over catalog. A nil rnd uses the global source.
func NewKeywordMatcher(catalog *Catalog, rnd Rand) *KeywordMatcher {
	if rnd == nil {
		rnd = SystemRand
	}
	return &KeywordMatcher{catalog: catalog, rnd: rnd}
}

// Match implements FoodMatcher.
func (m *KeywordMatcher) Match(in MatchInput) Match {
	goalFoods := m.catalog.ForGoal(in.Goal)
	hour := in.At.Hour()
	confidence := 85 + m.rnd.IntN(15)

	base, hit := m.keywordMatch(in.Filename)
	if hit {
		confidence = min(99, confidence+5)
	} else {
		candidates := filterByCategory(goalFoods, mealWindowCategories(hour))
		if len(candidates) == 0 {
			candidates = goalFoods
		}
		base = candidates[m.rnd.IntN(len(candidates))]
	}

	variance := 0.85 + m.rnd.Float64()*0.3
	scaled := base
	scaled.Keywords = slices.Clone(base.Keywords)
	scaled.Calories = math.Round(base.Calories * variance)
	scaled.Protein = round1(base.Protein * variance)
	scaled.Carbs = round1(base.Carbs * variance)
	scaled.Fat = round1(base.Fat * variance)

	return Match{
		Food: ScannedFood{
			Food:             scaled,
			EstimatedPortion: EstimatedPortion(base.Category),
			MealSuggestion:   MealSuggestion(hour),
		},
		Base:       base,
		Confidence: confidence,
		KeywordHit: hit,
	}
}

func (m *KeywordMatcher) keywordMatch(filename string) (Food, bool) {
	name := strings.ToLower(filename)
	if name == "" {
		return Food{}, false
	}
	for _, f := range m.catalog.Foods() {
		for _, kw := range f.Keywords {
			if strings.Contains(name, kw) {
				return f, true
			}
		}
	}
	return Food{}, false
}

func mealWindowCategories(hour int) []string {
	switch {
	case hour >= 6 && hour < 11:
		return []string{"dairy", "fruit", "grain", "meal"}
	case hour >= 11 && hour < 22:
		return []string{"protein", "meal", "vegetable"}
	default:
		return []string{"fruit", "snack", "dairy"}
	}
}

func filterByCategory(foods []Food, categories []string) []Food {
	var out []Food
	for _, f := range foods {
		if slices.Contains(categories, f.Category) {
			out = append(out, f)
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

var portions = map[string]string{
	"protein":    "150-200g",
	"vegetable":  "1 cup",
	"fruit":      "1 medium piece",
	"dairy":      "200g",
	"grain":      "1 cup cooked",
	"meal":       "1 serving",
	"snack":      "1 handful",
	"supplement": "1 serving",
	"soup":       "1 bowl",
}

// EstimatedPortion is the typical serving for a food category.
func EstimatedPortion(category string) string {
	if p, ok := portions[category]; ok {
		return p
	}
	return "1 serving"
}

// MealSuggestion names the meal eaten at hour.
func MealSuggestion(hour int) string {
	switch {
	case hour >= 6 && hour < 11:
		return "Breakfast"
	case hour >= 11 && hour < 16:
		return "Lunch"
	case hour >= 16 && hour < 22:
		return "Dinner"
	default:
		return "Late Night Snack"
	}
}

// Alternative is a suggested swap for a matched food.
type Alternative struct {
	Food
	Reason string `json:"reason"`
}

// Alternatives returns up to three other foods from goalFoods: same category first,
// then foods within 50 calories of main.
func Alternatives(main Food, goalFoods []Food) []Alternative {
	seen := map[uint]bool{main.ID: true}
	out := []Alternative{}

	add := func(f Food, reason string) bool {
		if seen[f.ID] {
			return false
		}
		seen[f.ID] = true
		out = append(out, Alternative{Food: f, Reason: reason})
		return len(out) >= 3
	}

	for _, f := range goalFoods {
		if f.Category == main.Category && add(f, "Similar "+f.Category+" option") {
			return out
		}
	}
	for _, f := range goalFoods {
		if math.Abs(f.Calories-main.Calories) < 50 &&
			add(f, "Similar calorie count ("+formatCalories(f.Calories)+" cal)") {
			return out
		}
	}
	return out
}

func formatCalories(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Recommendations returns advice for eating food under goal.
func Recommendations(food Food, goal models.Goal) []string {
	var recs []string
	switch goal {
	case models.GoalWeightLoss:
		if food.Calories > 300 {
			recs = append(recs, "Consider a smaller portion for weight loss")
		}
		if food.Protein < 20 {
			recs = append(recs, "Add a protein source to stay full longer")
		}
	case models.GoalMuscleGain:
		if food.Protein >= 25 {
			recs = append(recs, "Great for muscle growth - high in protein")
		}
		if food.Calories < 300 {
			recs = append(recs, "Consider adding a side for extra calories")
		}
	}
	if food.Fat > 15 {
		recs = append(recs, "Contains healthy fats - great for satiety")
	}
	if food.Category == "vegetable" || food.Category == "fruit" {
		recs = append(recs, "Rich in vitamins and fiber")
	}
	if len(recs) == 0 {
		return []string{"Balanced choice for your goals"}
	}
	return recs
}
