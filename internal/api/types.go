package api

import (
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/service"
)

// Write and read representations are asymmetric by design: writes take flat
// id lists, reads return nested objects plus per-viewer flags.

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar"`
}

type IngredientAmountRequest struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

type RecipeRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients"`
	Tags        []uint                    `json:"tags"`
	Image       string                    `json:"image"`
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time"`
}

func (r *RecipeRequest) toInput() service.RecipeInput {
	in := service.RecipeInput{
		Name:        r.Name,
		Image:       r.Image,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
	}
	for _, ing := range r.Ingredients {
		in.Ingredients = append(in.Ingredients, service.IngredientAmount{ID: ing.ID, Amount: ing.Amount})
	}
	return in
}

type UserResponse struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar"`
}

func newUserResponse(u *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       u.Avatar,
	}
}

type TagResponse struct {
	ID   uint    `json:"id"`
	Name string  `json:"name"`
	Slug *string `json:"slug"`
}

func newTagResponse(t *models.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

func newRecipeResponse(r *models.Recipe, author UserResponse, favorited, inCart bool) RecipeResponse {
	resp := RecipeResponse{
		ID:               r.ID,
		Tags:             []TagResponse{},
		Author:           author,
		Ingredients:      []RecipeIngredientResponse{},
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
	for i := range r.Tags {
		resp.Tags = append(resp.Tags, newTagResponse(&r.Tags[i].Tag))
	}
	for i := range r.Ingredients {
		row := &r.Ingredients[i]
		resp.Ingredients = append(resp.Ingredients, RecipeIngredientResponse{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}
	return resp
}

// RecipeCardResponse is the compact recipe form used by favorite/cart
// responses and subscription listings.
type RecipeCardResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func newRecipeCard(r *models.Recipe) RecipeCardResponse {
	return RecipeCardResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeCardResponse `json:"recipes"`
	RecipesCount int64                `json:"recipes_count"`
}

type RecipeListResponse struct {
	Count   int64            `json:"count"`
	Results []RecipeResponse `json:"results"`
}
