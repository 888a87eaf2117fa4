package router

import (
	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/middleware"
)

// SetupRouter configures the application routes. The limiter may be nil when
// Redis is unavailable; write routes then run unthrottled.
func SetupRouter(
	authHandler *api.AuthHandler,
	userHandler *api.UserHandler,
	catalogHandler *api.CatalogHandler,
	recipeHandler *api.RecipeHandler,
	validator middleware.TokenValidator,
	limiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	// Short links live outside the API prefix.
	router.GET("/s/:token", recipeHandler.ResolveShortLink)

	v1 := router.Group("/api")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Public reads. Optional auth so per-viewer flags (is_favorited,
	// is_in_shopping_cart, is_subscribed) resolve when a token is sent.
	read := v1.Group("")
	read.Use(middleware.OptionalAuthMiddleware(validator))
	{
		read.GET("/tags", catalogHandler.ListTags)
		read.GET("/tags/:id", catalogHandler.GetTag)
		read.GET("/ingredients", catalogHandler.ListIngredients)
		read.GET("/ingredients/:id", catalogHandler.GetIngredient)

		read.GET("/recipes", recipeHandler.ListRecipes)
		read.GET("/recipes/:id", recipeHandler.GetRecipe)
		read.GET("/recipes/:id/get-link", recipeHandler.GetLink)

		read.GET("/users", userHandler.ListUsers)
		read.GET("/users/:id", userHandler.GetUser)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		protected.GET("/users/me", userHandler.Me)
		protected.PUT("/users/me/avatar", userHandler.UpdateAvatar)
		protected.DELETE("/users/me/avatar", userHandler.DeleteAvatar)

		protected.POST("/users/:id/subscribe", userHandler.Subscribe)
		protected.DELETE("/users/:id/subscribe", userHandler.Unsubscribe)
		protected.GET("/users/subscriptions", userHandler.Subscriptions)

		protected.POST("/recipes/:id/favorite", recipeHandler.FavoriteRecipe)
		protected.DELETE("/recipes/:id/favorite", recipeHandler.UnfavoriteRecipe)
		protected.POST("/recipes/:id/shopping_cart", recipeHandler.AddToShoppingCart)
		protected.DELETE("/recipes/:id/shopping_cart", recipeHandler.RemoveFromShoppingCart)
		protected.GET("/recipes/download_shopping_cart", recipeHandler.DownloadShoppingCart)

		write := protected.Group("")
		if limiter != nil {
			write.Use(limiter.Middleware())
		}
		write.POST("/recipes", recipeHandler.CreateRecipe)
		write.PUT("/recipes/:id", recipeHandler.UpdateRecipe)
		write.PATCH("/recipes/:id", recipeHandler.UpdateRecipe)
		write.DELETE("/recipes/:id", recipeHandler.DeleteRecipe)
	}

	return router
}
