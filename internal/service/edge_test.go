package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
)

func TestRecipeEdgeToggle(t *testing.T) {
	for _, kind := range []service.RecipeEdgeKind{service.EdgeFavorite, service.EdgeShoppingCart} {
		t.Run(string(kind), func(t *testing.T) {
			db := testhelpers.NewTestDB(t)
			edges := service.NewEdgeService(db)
			ctx := context.Background()

			author := testhelpers.CreateUser(t, db, "author")
			viewer := testhelpers.CreateUser(t, db, "viewer")
			recipe := models.Recipe{AuthorID: author.ID, Name: "Soup", Text: "Boil.", CookingTime: 10}
			require.NoError(t, db.Create(&recipe).Error)

			has, err := edges.HasRecipeEdge(ctx, viewer.ID, recipe.ID, kind)
			require.NoError(t, err)
			assert.False(t, has)

			got, err := edges.AddRecipeEdge(ctx, viewer.ID, recipe.ID, kind)
			require.NoError(t, err)
			assert.Equal(t, recipe.ID, got.ID)

			has, err = edges.HasRecipeEdge(ctx, viewer.ID, recipe.ID, kind)
			require.NoError(t, err)
			assert.True(t, has)

			_, err = edges.AddRecipeEdge(ctx, viewer.ID, recipe.ID, kind)
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr, "duplicate add is a validation error")

			require.NoError(t, edges.RemoveRecipeEdge(ctx, viewer.ID, recipe.ID, kind))
			err = edges.RemoveRecipeEdge(ctx, viewer.ID, recipe.ID, kind)
			assert.ErrorIs(t, err, service.ErrEdgeMissing)

			_, err = edges.AddRecipeEdge(ctx, viewer.ID, 9999, kind)
			assert.ErrorIs(t, err, service.ErrNotFound)
			err = edges.RemoveRecipeEdge(ctx, viewer.ID, 9999, kind)
			assert.ErrorIs(t, err, service.ErrNotFound)
		})
	}
}

func TestRecipeEdgeAnonymousViewer(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	edges := service.NewEdgeService(db)

	has, err := edges.HasRecipeEdge(context.Background(), 0, 1, service.EdgeFavorite)
	require.NoError(t, err)
	assert.False(t, has)

	subscribed, err := edges.IsSubscribed(context.Background(), 0, 1)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestSubscribe(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	edges := service.NewEdgeService(db)
	ctx := context.Background()

	follower := testhelpers.CreateUser(t, db, "follower")
	owner := testhelpers.CreateUser(t, db, "owner")

	_, err := edges.Subscribe(ctx, follower.ID, follower.ID)
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr, "self-subscribe is rejected")

	got, err := edges.Subscribe(ctx, follower.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.ID)

	_, err = edges.Subscribe(ctx, follower.ID, owner.ID)
	require.ErrorAs(t, err, &verr, "duplicate subscribe is rejected")

	subscribed, err := edges.IsSubscribed(ctx, follower.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	// Follows are directional.
	subscribed, err = edges.IsSubscribed(ctx, owner.ID, follower.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	_, err = edges.Subscribe(ctx, follower.ID, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUnsubscribe(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	edges := service.NewEdgeService(db)
	ctx := context.Background()

	follower := testhelpers.CreateUser(t, db, "follower")
	owner := testhelpers.CreateUser(t, db, "owner")

	_, err := edges.Subscribe(ctx, follower.ID, owner.ID)
	require.NoError(t, err)

	require.NoError(t, edges.Unsubscribe(ctx, follower.ID, owner.ID))
	assert.ErrorIs(t, edges.Unsubscribe(ctx, follower.ID, owner.ID), service.ErrEdgeMissing)
	assert.ErrorIs(t, edges.Unsubscribe(ctx, follower.ID, 9999), service.ErrNotFound)
}

func TestSubscriptionsOrder(t *testing.T) {
	db := testhelpers.NewTestDB(t)
	edges := service.NewEdgeService(db)
	ctx := context.Background()

	follower := testhelpers.CreateUser(t, db, "follower")
	first := testhelpers.CreateUser(t, db, "first")
	second := testhelpers.CreateUser(t, db, "second")

	_, err := edges.Subscribe(ctx, follower.ID, second.ID)
	require.NoError(t, err)
	_, err = edges.Subscribe(ctx, follower.ID, first.ID)
	require.NoError(t, err)

	owners, err := edges.Subscriptions(ctx, follower.ID)
	require.NoError(t, err)
	require.Len(t, owners, 2)
	assert.Equal(t, second.ID, owners[0].ID, "follow order, not user id order")
	assert.Equal(t, first.ID, owners[1].ID)
}
