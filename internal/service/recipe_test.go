package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
)

type recipeFixture struct {
	db      *gorm.DB
	svc     *service.RecipeService
	author  *models.User
	flour   *models.Ingredient
	milk    *models.Ingredient
	sugar   *models.Ingredient
	dinner  *models.Tag
	dessert *models.Tag
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	t.Helper()
	db := testhelpers.NewTestDB(t)
	return &recipeFixture{
		db:      db,
		svc:     service.NewRecipeService(db),
		author:  testhelpers.CreateUser(t, db, "author"),
		flour:   testhelpers.CreateIngredient(t, db, "flour", "g"),
		milk:    testhelpers.CreateIngredient(t, db, "milk", "ml"),
		sugar:   testhelpers.CreateIngredient(t, db, "sugar", "g"),
		dinner:  testhelpers.CreateTag(t, db, "Dinner", "dinner"),
		dessert: testhelpers.CreateTag(t, db, "Dessert", "dessert"),
	}
}

func (f *recipeFixture) input() service.RecipeInput {
	return service.RecipeInput{
		Name:        "Pancakes",
		Image:       "/media/images/pancakes.png",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Ingredients: []service.IngredientAmount{
			{ID: f.flour.ID, Amount: 200},
			{ID: f.milk.ID, Amount: 300},
		},
		TagIDs: []uint{f.dinner.ID},
	}
}

func TestCreateRecipeRoundTrip(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, f.author.ID, recipe.Author.ID)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, f.flour.ID, recipe.Ingredients[0].IngredientID)
	assert.Equal(t, 200, recipe.Ingredients[0].Amount)
	assert.Equal(t, "flour", recipe.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 300, recipe.Ingredients[1].Amount)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "Dinner", recipe.Tags[0].Tag.Name)
}

func TestCreateRecipeValidation(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*service.RecipeInput)
		field  string
	}{
		{"missing name", func(in *service.RecipeInput) { in.Name = "" }, "name"},
		{"missing text", func(in *service.RecipeInput) { in.Text = "" }, "text"},
		{"zero cooking time", func(in *service.RecipeInput) { in.CookingTime = 0 }, "cooking_time"},
		{"no ingredients", func(in *service.RecipeInput) { in.Ingredients = nil }, "ingredients"},
		{"zero amount", func(in *service.RecipeInput) { in.Ingredients[0].Amount = 0 }, "ingredients"},
		{"duplicate ingredient", func(in *service.RecipeInput) { in.Ingredients[1].ID = in.Ingredients[0].ID }, "ingredients"},
		{"unknown ingredient", func(in *service.RecipeInput) { in.Ingredients[0].ID = 9999 }, "ingredients"},
		{"no tags", func(in *service.RecipeInput) { in.TagIDs = nil }, "tags"},
		{"duplicate tag", func(in *service.RecipeInput) { in.TagIDs = []uint{f.dinner.ID, f.dinner.ID} }, "tags"},
		{"unknown tag", func(in *service.RecipeInput) { in.TagIDs = []uint{9999} }, "tags"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := f.input()
			tc.mutate(&in)

			_, err := f.svc.Create(ctx, f.author.ID, in)
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	// Rejected creates must leave nothing behind.
	var recipes, joins int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&recipes).Error)
	require.NoError(t, f.db.Model(&models.IngredientRecipe{}).Count(&joins).Error)
	assert.Zero(t, recipes)
	assert.Zero(t, joins)
}

func TestUpdateRecipeReconcilesAssociations(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	// Remember the milk row so we can prove it was updated in place.
	var milkRow models.IngredientRecipe
	require.NoError(t, f.db.Where("recipe_id = ? AND ingredient_id = ?", recipe.ID, f.milk.ID).First(&milkRow).Error)

	in := f.input()
	in.Ingredients = []service.IngredientAmount{
		{ID: f.milk.ID, Amount: 500},
		{ID: f.sugar.ID, Amount: 50},
	}
	in.TagIDs = []uint{f.dessert.ID}

	updated, err := f.svc.Update(ctx, recipe.ID, f.author.ID, in)
	require.NoError(t, err)

	require.Len(t, updated.Ingredients, 2)
	byIngredient := map[uint]models.IngredientRecipe{}
	for _, row := range updated.Ingredients {
		byIngredient[row.IngredientID] = row
	}
	assert.NotContains(t, byIngredient, f.flour.ID)
	assert.Equal(t, 500, byIngredient[f.milk.ID].Amount)
	assert.Equal(t, milkRow.ID, byIngredient[f.milk.ID].ID, "amount change should update the row, not replace it")
	assert.Equal(t, 50, byIngredient[f.sugar.ID].Amount)

	require.Len(t, updated.Tags, 1)
	assert.Equal(t, f.dessert.ID, updated.Tags[0].TagID)
}

func TestUpdateRecipeKeepsUnchangedRows(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)
	originalIDs := []uint{recipe.Ingredients[0].ID, recipe.Ingredients[1].ID}

	updated, err := f.svc.Update(ctx, recipe.ID, f.author.ID, f.input())
	require.NoError(t, err)

	require.Len(t, updated.Ingredients, 2)
	assert.Equal(t, originalIDs, []uint{updated.Ingredients[0].ID, updated.Ingredients[1].ID})
}

func TestUpdateRecipeValidationRollsBack(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	in := f.input()
	in.Name = "Renamed"
	in.TagIDs = []uint{9999}

	_, err = f.svc.Update(ctx, recipe.ID, f.author.ID, in)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)

	got, err := f.svc.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
}

func TestUpdateRecipeAuthorOnly(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	other := testhelpers.CreateUser(t, f.db, "other")

	recipe, err := f.svc.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, recipe.ID, other.ID, f.input())
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = f.svc.Delete(ctx, recipe.ID, other.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestDeleteRecipeCascades(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	recipe, err := f.svc.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&models.Favorite{UserID: f.author.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, f.db.Create(&models.ShoppingCart{UserID: f.author.ID, RecipeID: recipe.ID}).Error)

	require.NoError(t, f.svc.Delete(ctx, recipe.ID, f.author.ID))

	_, err = f.svc.Get(ctx, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	for _, m := range []interface{}{
		&models.IngredientRecipe{}, &models.TagRecipe{}, &models.Favorite{}, &models.ShoppingCart{},
	} {
		var count int64
		require.NoError(t, f.db.Model(m).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestListRecipesFilters(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	other := testhelpers.CreateUser(t, f.db, "other")

	first, err := f.svc.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	in := f.input()
	in.Name = "Cake"
	in.TagIDs = []uint{f.dessert.ID}
	second, err := f.svc.Create(ctx, other.ID, in)
	require.NoError(t, err)

	require.NoError(t, f.db.Create(&models.Favorite{UserID: f.author.ID, RecipeID: second.ID}).Error)
	require.NoError(t, f.db.Create(&models.ShoppingCart{UserID: f.author.ID, RecipeID: first.ID}).Error)

	all, total, err := f.svc.List(ctx, service.RecipeFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID, "oldest first")

	byAuthor, total, err := f.svc.List(ctx, service.RecipeFilter{AuthorID: other.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, second.ID, byAuthor[0].ID)

	byTag, _, err := f.svc.List(ctx, service.RecipeFilter{TagSlugs: []string{"dessert"}})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, second.ID, byTag[0].ID)

	favorited, _, err := f.svc.List(ctx, service.RecipeFilter{FavoritedBy: f.author.ID})
	require.NoError(t, err)
	require.Len(t, favorited, 1)
	assert.Equal(t, second.ID, favorited[0].ID)

	inCart, _, err := f.svc.List(ctx, service.RecipeFilter{InCartOf: f.author.ID})
	require.NoError(t, err)
	require.Len(t, inCart, 1)
	assert.Equal(t, first.ID, inCart[0].ID)

	page, total, err := f.svc.List(ctx, service.RecipeFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total, "count ignores pagination")
	require.Len(t, page, 1)
	assert.Equal(t, second.ID, page[0].ID)
}
