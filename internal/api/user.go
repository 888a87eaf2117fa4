package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
)

type UserHandler struct {
	auth    *service.AuthService
	edges   *service.EdgeService
	recipes *service.RecipeService
}

func NewUserHandler(auth *service.AuthService, edges *service.EdgeService, recipes *service.RecipeService) *UserHandler {
	return &UserHandler{auth: auth, edges: edges, recipes: recipes}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	limit := 0
	offset := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 && limit > 0 {
			offset = (n - 1) * limit
		}
	}

	users, err := h.auth.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	viewer := middleware.CurrentUserID(c)
	resp := []UserResponse{}
	for i := range users {
		subscribed, err := h.edges.IsSubscribed(c.Request.Context(), viewer, users[i].ID)
		if err != nil {
			respondError(c, err)
			return
		}
		resp = append(resp, newUserResponse(&users[i], subscribed))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed, err := h.edges.IsSubscribed(c.Request.Context(), middleware.CurrentUserID(c), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user, subscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user, false))
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	url, err := h.auth.UpdateAvatar(c.Request.Context(), middleware.CurrentUserID(c), req.Avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	if err := h.auth.DeleteAvatar(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	owner, err := h.edges.Subscribe(c.Request.Context(), middleware.CurrentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.buildSubscriptionResponse(c, owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.edges.Unsubscribe(c.Request.Context(), middleware.CurrentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	owners, err := h.edges.Subscriptions(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := []SubscriptionResponse{}
	for i := range owners {
		view, err := h.buildSubscriptionResponse(c, &owners[i])
		if err != nil {
			respondError(c, err)
			return
		}
		resp = append(resp, view)
	}
	c.JSON(http.StatusOK, resp)
}

// buildSubscriptionResponse embeds the followed author's recipes in compact
// card form, capped by the recipes_limit query param.
func (h *UserHandler) buildSubscriptionResponse(c *gin.Context, owner *models.User) (SubscriptionResponse, error) {
	limit := 0
	if v := c.Query("recipes_limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	recipes, total, err := h.recipes.ListByAuthor(c.Request.Context(), owner.ID, limit)
	if err != nil {
		return SubscriptionResponse{}, err
	}

	view := SubscriptionResponse{
		UserResponse: newUserResponse(owner, true),
		Recipes:      []RecipeCardResponse{},
		RecipesCount: total,
	}
	for i := range recipes {
		view.Recipes = append(view.Recipes, newRecipeCard(&recipes[i]))
	}
	return view, nil
}
