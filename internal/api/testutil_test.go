package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/router"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/testhelpers"
)

// testEnv wires the full router against an in-memory database, local image
// storage and no rate limiter.
type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	images := service.NewImageService(service.NewLocalImageStorage(t.TempDir()))
	auth := service.NewAuthService(db, "test-secret", images)
	recipes := service.NewRecipeService(db)
	edges := service.NewEdgeService(db)
	lists := service.NewShoppingListService(db)
	catalog := service.NewCatalogService(db)

	r := router.SetupRouter(
		api.NewAuthHandler(auth),
		api.NewUserHandler(auth, edges, recipes),
		api.NewCatalogHandler(catalog),
		api.NewRecipeHandler(recipes, edges, lists, images, "http://testserver"),
		auth,
		nil,
	)
	return &testEnv{db: db, router: r, auth: auth}
}

// registerUser creates an account through the service layer and returns the
// user together with a valid bearer token.
func (e *testEnv) registerUser(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	user, err := e.auth.Register(context.Background(), service.RegisterInput{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)

	token, err := e.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out),
		"status %d body %s", w.Code, w.Body.String())
}

// seedCatalog inserts one tag and two ingredients most recipe tests need.
func (e *testEnv) seedCatalog(t *testing.T) (*models.Tag, *models.Ingredient, *models.Ingredient) {
	t.Helper()
	tag := testhelpers.CreateTag(t, e.db, "Dinner", "dinner")
	flour := testhelpers.CreateIngredient(t, e.db, "flour", "g")
	milk := testhelpers.CreateIngredient(t, e.db, "milk", "ml")
	return tag, flour, milk
}

func recipeBody(tag *models.Tag, ingredients ...models.Ingredient) map[string]interface{} {
	ings := []map[string]interface{}{}
	for _, ing := range ingredients {
		ings = append(ings, map[string]interface{}{"id": ing.ID, "amount": 100})
	}
	return map[string]interface{}{
		"name":         "Pancakes",
		"text":         "Mix and fry.",
		"cooking_time": 20,
		"image":        "data:image/png;base64,aW1hZ2U=",
		"tags":         []uint{tag.ID},
		"ingredients":  ings,
	}
}
