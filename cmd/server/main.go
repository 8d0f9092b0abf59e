package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/mhasan-dev/devgram/backend/internal/router"
	"github.com/mhasan-dev/devgram/backend/pkg/config"
	"github.com/mhasan-dev/devgram/backend/pkg/firebase"
	"github.com/mhasan-dev/devgram/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase storage for post images and avatars
	ctx := context.Background()
	storage, err := firebase.InitStorage(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase storage: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Postgres, db.Mongo, storage)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
