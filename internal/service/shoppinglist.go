package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ShoppingListHeader is the first line of every rendered shopping list.
const ShoppingListHeader = "Shopping list:"

// ShoppingListItem is one aggregated (ingredient name, unit) group.
type ShoppingListItem struct {
	Name  string
	Unit  string
	Total int
}

type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate sums ingredient amounts across every recipe in the user's cart,
// grouped by (name, unit). Sorted by name so output is stable run to run.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uint) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("ingredient_recipes").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, SUM(ingredient_recipes.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = ingredient_recipes.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = ingredient_recipes.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderText formats the aggregated list as the plain-text download body.
// An empty cart renders the header line alone.
func RenderText(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteByte('\n')
	for _, item := range items {
		fmt.Fprintf(&b, "%s: %d %s\n", item.Name, item.Total, item.Unit)
	}
	return b.String()
}
