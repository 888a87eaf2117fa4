package models

import (
	"time"
)

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"modified_at"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"-"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Image       string    `gorm:"size:255" json:"image"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`

	Ingredients []IngredientRecipe `gorm:"foreignKey:RecipeID" json:"-"`
	Tags        []TagRecipe        `gorm:"foreignKey:RecipeID" json:"-"`
}

// IngredientRecipe carries the per-pair amount; the (ingredient, recipe)
// pair is unique at the storage layer.
type IngredientRecipe struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_ingredient_recipe" json:"ingredient_id"`
	RecipeID     uint       `gorm:"not null;uniqueIndex:idx_ingredient_recipe" json:"recipe_id"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
	Amount       int        `gorm:"not null;check:amount >= 1" json:"amount"`
}

func (IngredientRecipe) TableName() string {
	return "ingredient_recipes"
}

type TagRecipe struct {
	ID       uint `gorm:"primarykey" json:"id"`
	TagID    uint `gorm:"not null;uniqueIndex:idx_tag_recipe" json:"tag_id"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_tag_recipe" json:"recipe_id"`
	Tag      Tag  `gorm:"foreignKey:TagID" json:"-"`
}

func (TagRecipe) TableName() string {
	return "tag_recipes"
}
