package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// RecipeService owns recipe CRUD and the ingredient/tag association
// reconciliation. Every multi-row write runs inside one transaction so a
// failed validation or insert never leaves a half-updated recipe visible.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// IngredientAmount is one requested (ingredient id, amount) pair.
type IngredientAmount struct {
	ID     uint
	Amount int
}

// RecipeInput is the flat write representation of a recipe.
type RecipeInput struct {
	Name        string
	Image       string
	Text        string
	CookingTime int
	Ingredients []IngredientAmount
	TagIDs      []uint
}

// RecipeFilter narrows List. Zero values mean "no filter"; FavoritedBy and
// InCartOf are only set for authenticated viewers.
type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
	Limit       int
	Offset      int
}

func (s *RecipeService) Create(ctx context.Context, authorID uint, in RecipeInput) (*models.Recipe, error) {
	var created models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateRecipeInput(tx, in); err != nil {
			return err
		}

		created = models.Recipe{
			AuthorID:    authorID,
			Name:        in.Name,
			Image:       in.Image,
			Text:        in.Text,
			CookingTime: in.CookingTime,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}

		for _, ing := range in.Ingredients {
			row := models.IngredientRecipe{
				IngredientID: ing.ID,
				RecipeID:     created.ID,
				Amount:       ing.Amount,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		for _, tagID := range in.TagIDs {
			row := models.TagRecipe{TagID: tagID, RecipeID: created.ID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

func (s *RecipeService) Get(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_recipes.id") }).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tag_recipes.id") }).
		Preload("Tags.Tag").
		First(&recipe, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// Update replaces the recipe's scalar fields and reconciles its ingredient
// and tag associations against the requested sets. Only the author may call
// it.
func (s *RecipeService) Update(ctx context.Context, id, actorID uint, in RecipeInput) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if recipe.AuthorID != actorID {
			return ErrForbidden
		}

		if err := validateRecipeInput(tx, in); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":         in.Name,
			"text":         in.Text,
			"cooking_time": in.CookingTime,
		}
		if in.Image != "" {
			updates["image"] = in.Image
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}

		if err := reconcileIngredients(tx, id, in.Ingredients); err != nil {
			return err
		}
		return reconcileTags(tx, id, in.TagIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *RecipeService) Delete(ctx context.Context, id, actorID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if recipe.AuthorID != actorID {
			return ErrForbidden
		}

		// Cascade to join rows and edges before removing the recipe.
		for _, m := range []interface{}{
			&models.IngredientRecipe{},
			&models.TagRecipe{},
			&models.Favorite{},
			&models.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Recipe{}, id).Error
	})
}

func (s *RecipeService) List(ctx context.Context, f RecipeFilter) ([]models.Recipe, int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Recipe{})

	if f.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)", s.db.Table("tag_recipes").
			Select("tag_recipes.recipe_id").
			Joins("JOIN tags ON tags.id = tag_recipes.tag_id").
			Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.FavoritedBy != 0 {
		q = q.Where("recipes.id IN (?)", s.db.Table("favorites").
			Select("favorites.recipe_id").
			Where("favorites.user_id = ?", f.FavoritedBy))
	}
	if f.InCartOf != 0 {
		q = q.Where("recipes.id IN (?)", s.db.Table("shopping_carts").
			Select("shopping_carts.recipe_id").
			Where("shopping_carts.user_id = ?", f.InCartOf))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Order("recipes.created_at").Order("recipes.id")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var recipes []models.Recipe
	err := q.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredient_recipes.id") }).
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tag_recipes.id") }).
		Preload("Tags.Tag").
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// ListByAuthor returns the author's recipes in creation order, optionally
// capped; used by the subscriptions listing.
func (s *RecipeService) ListByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := s.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at").Order("id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

func validateRecipeInput(tx *gorm.DB, in RecipeInput) error {
	if in.Name == "" {
		return newValidationError("name", "this field is required")
	}
	if in.Text == "" {
		return newValidationError("text", "this field is required")
	}
	if in.CookingTime < 1 {
		return newValidationError("cooking_time", "must be at least 1")
	}

	if len(in.Ingredients) == 0 {
		return newValidationError("ingredients", "this field must not be empty")
	}
	seen := make(map[uint]struct{}, len(in.Ingredients))
	ids := make([]uint, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		if ing.Amount < 1 {
			return newValidationError("ingredients", "amount must be at least 1")
		}
		if _, dup := seen[ing.ID]; dup {
			return newValidationError("ingredients", "duplicate ingredient id %d", ing.ID)
		}
		seen[ing.ID] = struct{}{}
		ids = append(ids, ing.ID)
	}
	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return newValidationError("ingredients", "unknown ingredient id")
	}

	if len(in.TagIDs) == 0 {
		return newValidationError("tags", "this field must not be empty")
	}
	seenTags := make(map[uint]struct{}, len(in.TagIDs))
	for _, id := range in.TagIDs {
		if _, dup := seenTags[id]; dup {
			return newValidationError("tags", "duplicate tag id %d", id)
		}
		seenTags[id] = struct{}{}
	}
	if err := tx.Model(&models.Tag{}).Where("id IN ?", in.TagIDs).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(in.TagIDs)) {
		return newValidationError("tags", "unknown tag id")
	}

	return nil
}

// reconcileIngredients diffs the stored (ingredient, amount) rows against
// the requested set: rows for dropped ingredients are deleted, new ones
// inserted, and amounts updated only where they changed.
func reconcileIngredients(tx *gorm.DB, recipeID uint, requested []IngredientAmount) error {
	var current []models.IngredientRecipe
	if err := tx.Where("recipe_id = ?", recipeID).Find(&current).Error; err != nil {
		return err
	}

	old := make(map[uint]int, len(current))
	for _, row := range current {
		old[row.IngredientID] = row.Amount
	}
	want := make(map[uint]int, len(requested))
	for _, ing := range requested {
		want[ing.ID] = ing.Amount
	}

	var removed []uint
	for id := range old {
		if _, keep := want[id]; !keep {
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		if err := tx.Where("recipe_id = ? AND ingredient_id IN ?", recipeID, removed).
			Delete(&models.IngredientRecipe{}).Error; err != nil {
			return err
		}
	}

	for _, ing := range requested {
		oldAmount, existed := old[ing.ID]
		switch {
		case !existed:
			row := models.IngredientRecipe{
				IngredientID: ing.ID,
				RecipeID:     recipeID,
				Amount:       ing.Amount,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		case oldAmount != ing.Amount:
			if err := tx.Model(&models.IngredientRecipe{}).
				Where("recipe_id = ? AND ingredient_id = ?", recipeID, ing.ID).
				Update("amount", ing.Amount).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func reconcileTags(tx *gorm.DB, recipeID uint, requested []uint) error {
	var current []models.TagRecipe
	if err := tx.Where("recipe_id = ?", recipeID).Find(&current).Error; err != nil {
		return err
	}

	old := make(map[uint]struct{}, len(current))
	for _, row := range current {
		old[row.TagID] = struct{}{}
	}
	want := make(map[uint]struct{}, len(requested))
	for _, id := range requested {
		want[id] = struct{}{}
	}

	var removed []uint
	for id := range old {
		if _, keep := want[id]; !keep {
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		if err := tx.Where("recipe_id = ? AND tag_id IN ?", recipeID, removed).
			Delete(&models.TagRecipe{}).Error; err != nil {
			return err
		}
	}

	for _, id := range requested {
		if _, existed := old[id]; existed {
			continue
		}
		row := models.TagRecipe{TagID: id, RecipeID: recipeID}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
