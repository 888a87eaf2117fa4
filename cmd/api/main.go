package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/api"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/router"
	"github.com/platefeed/backend/internal/server"
	"github.com/platefeed/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	var limiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		if config.IsProduction() {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
	} else {
		limiter = middleware.NewWriteRateLimiter(redisClient)
	}

	var storage service.ImageStorage
	if cfg.StorageBackend == "s3" {
		s3cfg, err := config.NewS3Config(context.Background())
		if err != nil {
			log.Fatalf("Failed to configure S3 storage: %v", err)
		}
		storage = service.NewS3ImageStorage(s3cfg)
	} else {
		storage = service.NewLocalImageStorage(cfg.MediaRoot)
	}

	images := service.NewImageService(storage)
	authService := service.NewAuthService(db, cfg.JWTSecret, images)
	recipeService := service.NewRecipeService(db)
	edgeService := service.NewEdgeService(db)
	listService := service.NewShoppingListService(db)
	catalogService := service.NewCatalogService(db)

	r := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewUserHandler(authService, edgeService, recipeService),
		api.NewCatalogHandler(catalogService),
		api.NewRecipeHandler(recipeService, edgeService, listService, images, cfg.BaseURL),
		authService,
		limiter,
	)

	srv := server.New(r)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(cfg.ServerHost, cfg.ServerPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
