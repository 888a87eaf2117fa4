package models

// Tag and Ingredient are administrator-managed reference data. Recipes point
// at them through the join tables in recipe.go and never mutate them.

type Tag struct {
	ID   uint    `gorm:"primarykey" json:"id"`
	Name string  `gorm:"size:256;not null" json:"name"`
	Slug *string `gorm:"size:32;uniqueIndex" json:"slug"`
}

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:256;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null" json:"measurement_unit"`
}
