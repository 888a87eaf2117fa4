package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
)

type RecipeHandler struct {
	recipes *service.RecipeService
	edges   *service.EdgeService
	lists   *service.ShoppingListService
	images  *service.ImageService
	baseURL string
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	edges *service.EdgeService,
	lists *service.ShoppingListService,
	images *service.ImageService,
	baseURL string,
) *RecipeHandler {
	return &RecipeHandler{
		recipes: recipes,
		edges:   edges,
		lists:   lists,
		images:  images,
		baseURL: baseURL,
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer := middleware.CurrentUserID(c)

	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
	}
	if author := c.Query("author"); author != "" {
		id, err := strconv.ParseUint(author, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = uint(id)
	}
	// The boolean filters only take effect for authenticated viewers.
	if viewer != 0 && isTruthy(c.Query("is_favorited")) {
		filter.FavoritedBy = viewer
	}
	if viewer != 0 && isTruthy(c.Query("is_in_shopping_cart")) {
		filter.InCartOf = viewer
	}

	filter.Limit = 10
	if limit := c.Query("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			filter.Limit = n
		}
	}
	if page := c.Query("page"); page != "" {
		if n, err := strconv.Atoi(page); err == nil && n > 1 {
			filter.Offset = (n - 1) * filter.Limit
		}
	}

	recipes, total, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := RecipeListResponse{Count: total, Results: []RecipeResponse{}}
	for i := range recipes {
		view, err := h.buildRecipeResponse(c, viewer, &recipes[i])
		if err != nil {
			respondError(c, err)
			return
		}
		resp.Results = append(resp.Results, view)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.buildRecipeResponse(c, middleware.CurrentUserID(c), recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"image": []string{"this field is required"}})
		return
	}

	image, err := h.images.SaveDataURI(c.Request.Context(), req.Image)
	if err != nil {
		respondError(c, err)
		return
	}

	in := req.toInput()
	in.Image = image

	viewer := middleware.CurrentUserID(c)
	recipe, err := h.recipes.Create(c.Request.Context(), viewer, in)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.buildRecipeResponse(c, viewer, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := req.toInput()
	if req.Image != "" {
		image, err := h.images.SaveDataURI(c.Request.Context(), req.Image)
		if err != nil {
			respondError(c, err)
			return
		}
		in.Image = image
	}

	viewer := middleware.CurrentUserID(c)
	recipe, err := h.recipes.Update(c.Request.Context(), id, viewer, in)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.buildRecipeResponse(c, viewer, recipe)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id, middleware.CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.addEdge(c, service.EdgeFavorite)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.removeEdge(c, service.EdgeFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addEdge(c, service.EdgeShoppingCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeEdge(c, service.EdgeShoppingCart)
}

func (h *RecipeHandler) addEdge(c *gin.Context, kind service.RecipeEdgeKind) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	recipe, err := h.edges.AddRecipeEdge(c.Request.Context(), middleware.CurrentUserID(c), id, kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeCard(recipe))
}

func (h *RecipeHandler) removeEdge(c *gin.Context, kind service.RecipeEdgeKind) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.edges.RemoveRecipeEdge(c.Request.Context(), middleware.CurrentUserID(c), id, kind); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetLink returns the absolute short link for a recipe. The token is derived
// from the id, so nothing is stored.
func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	token := service.EncodeRecipeID(uint64(recipe.ID))
	c.JSON(http.StatusOK, gin.H{"short-link": h.absoluteURL(c, "/s/"+token)})
}

// ResolveShortLink decodes a token and redirects to the recipe page.
func (h *RecipeHandler) ResolveShortLink(c *gin.Context) {
	id, err := service.DecodeRecipeID(c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusFound, h.absoluteURL(c, fmt.Sprintf("/recipes/%d", recipe.ID)))
}

// DownloadShoppingCart streams the aggregated ingredient totals as a
// text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.lists.Aggregate(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.RenderText(items)))
}

func (h *RecipeHandler) buildRecipeResponse(c *gin.Context, viewer uint, recipe *models.Recipe) (RecipeResponse, error) {
	ctx := c.Request.Context()

	favorited, err := h.edges.HasRecipeEdge(ctx, viewer, recipe.ID, service.EdgeFavorite)
	if err != nil {
		return RecipeResponse{}, err
	}
	inCart, err := h.edges.HasRecipeEdge(ctx, viewer, recipe.ID, service.EdgeShoppingCart)
	if err != nil {
		return RecipeResponse{}, err
	}
	subscribed, err := h.edges.IsSubscribed(ctx, viewer, recipe.AuthorID)
	if err != nil {
		return RecipeResponse{}, err
	}

	author := newUserResponse(&recipe.Author, subscribed)
	return newRecipeResponse(recipe, author, favorited, inCart), nil
}

func (h *RecipeHandler) absoluteURL(c *gin.Context, path string) string {
	if h.baseURL != "" {
		return h.baseURL + path
	}
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, path)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func isTruthy(v string) bool {
	return v == "1" || v == "true" || v == "True"
}
