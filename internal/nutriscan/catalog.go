// Package nutriscan holds the static food catalog and the simulated photo matcher.
package nutriscan

import (
	_ "embed"
	"fmt"
	"strings"

	"nutritrack/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Food is one catalog entry.
type Food struct {
	ID       uint        `yaml:"id" json:"id"`
	Name     string      `yaml:"name" json:"name"`
	Calories float64     `yaml:"calories" json:"calories"`
	Protein  float64     `yaml:"protein" json:"protein"`
	Carbs    float64     `yaml:"carbs" json:"carbs"`
	Fat      float64     `yaml:"fat" json:"fat"`
	Category string      `yaml:"category" json:"category"`
	Icon     string      `yaml:"icon" json:"icon"`
	Keywords []string    `yaml:"keywords" json:"keywords"`
	Goal     models.Goal `yaml:"-" json:"-"`
}

// Exercise is one exercise reference entry.
type Exercise struct {
	ID          uint    `yaml:"id"`
	Name        string  `yaml:"name"`
	Type        string  `yaml:"type"`
	METValue    float64 `yaml:"met_value"`
	Description string  `yaml:"description"`
}

type catalogFile struct {
	Foods     map[models.Goal][]Food `yaml:"foods"`
	Exercises []Exercise             `yaml:"exercises"`
}

// Catalog is an immutable, goal-indexed food table.
type Catalog struct {
	all       []Food
	byGoal    map[models.Goal][]Food
	exercises []Exercise
}

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// MustDefaultCatalog is DefaultCatalog for callers that cannot proceed without it.
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog decodes a YAML catalog. Foods keep file order within each goal,
// and goals are ordered weight_loss, muscle_gain, maintenance.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{byGoal: make(map[models.Goal][]Food, len(models.Goals)), exercises: file.Exercises}
	seen := make(map[uint]bool)
	for goal, foods := range file.Foods {
		if _, ok := models.ParseGoal(string(goal)); !ok {
			return nil, fmt.Errorf("parse catalog: unknown goal %q", goal)
		}
		for i := range foods {
			if seen[foods[i].ID] {
				return nil, fmt.Errorf("parse catalog: duplicate food id %d", foods[i].ID)
			}
			seen[foods[i].ID] = true
			foods[i].Goal = goal
		}
	}
	for _, goal := range models.Goals {
		c.byGoal[goal] = file.Foods[goal]
		c.all = append(c.all, file.Foods[goal]...)
	}
	if len(c.byGoal[models.GoalMaintenance]) == 0 {
		return nil, fmt.Errorf("parse catalog: maintenance foods are required")
	}
	return c, nil
}

// Foods returns every food across all goals.
func (c *Catalog) Foods() []Food {
	return c.all
}

// ForGoal returns the foods of goal, falling back to maintenance for unknown goals.
func (c *Catalog) ForGoal(goal models.Goal) []Food {
	if foods, ok := c.byGoal[goal]; ok && len(foods) > 0 {
		return foods
	}
	return c.byGoal[models.GoalMaintenance]
}

// Exercises returns the exercise reference table.
func (c *Catalog) Exercises() []Exercise {
	return c.exercises
}

// FoodRecords converts the catalog to food_database rows.
func (c *Catalog) FoodRecords() []models.FoodCatalogItem {
	out := make([]models.FoodCatalogItem, 0, len(c.all))
	for _, f := range c.all {
		out = append(out, models.FoodCatalogItem{
			ID:       f.ID,
			Name:     f.Name,
			Calories: f.Calories,
			Protein:  f.Protein,
			Carbs:    f.Carbs,
			Fat:      f.Fat,
			Category: f.Category,
			Goal:     f.Goal,
			Icon:     f.Icon,
			Keywords: strings.Join(f.Keywords, ","),
		})
	}
	return out
}

// ExerciseRecords converts the exercise table to exercise_database rows.
func (c *Catalog) ExerciseRecords() []models.ExerciseCatalogItem {
	out := make([]models.ExerciseCatalogItem, 0, len(c.exercises))
	for _, e := range c.exercises {
		out = append(out, models.ExerciseCatalogItem{
			ID:          e.ID,
			Name:        e.Name,
			Type:        e.Type,
			METValue:    e.METValue,
			Description: e.Description,
		})
	}
	return out
}
