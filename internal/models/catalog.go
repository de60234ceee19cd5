package models

// FoodCatalogItem is a row of the static food_database table.
type FoodCatalogItem struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"size:255;not null;index" json:"name"`
	Calories float64 `gorm:"not null" json:"calories"`
	Protein  float64 `gorm:"not null" json:"protein"`
	Carbs    float64 `gorm:"not null" json:"carbs"`
	Fat      float64 `gorm:"not null" json:"fat"`
	Category string  `gorm:"size:50" json:"category"`
	Goal     Goal    `gorm:"size:20" json:"goal"`
	Icon     string  `gorm:"size:50" json:"icon"`
	Keywords string  `gorm:"type:text" json:"keywords"`
}

// TableName returns the database table name for FoodCatalogItem.
func (FoodCatalogItem) TableName() string {
	return "food_database"
}

// ExerciseCatalogItem is a row of the static exercise_database table.
type ExerciseCatalogItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Type        string  `gorm:"size:50;not null;index" json:"type"`
	METValue    float64 `gorm:"column:met_value;not null" json:"met_value"`
	Description string  `gorm:"type:text" json:"description"`
}

// TableName returns the database table name for ExerciseCatalogItem.
func (ExerciseCatalogItem) TableName() string {
	return "exercise_database"
}
