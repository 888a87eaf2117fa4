package database

import (
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// Migrate runs schema auto-migration for every persisted entity. The edge
// and join tables carry the composite unique indexes that back duplicate
// rejection, so they must always be part of this list.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.IngredientRecipe{},
		&models.TagRecipe{},
		&models.Subscribe{},
		&models.Favorite{},
		&models.ShoppingCart{},
	)
}
