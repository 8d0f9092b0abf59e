package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/mhasan-dev/devgram/backend/internal/auth"
	"github.com/mhasan-dev/devgram/backend/internal/handlers"
	"github.com/mhasan-dev/devgram/backend/internal/middleware"
	"github.com/mhasan-dev/devgram/backend/internal/models"
	"github.com/mhasan-dev/devgram/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/mhasan-dev/devgram/backend/internal/repositories"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, images handlers.ImageStore) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Like{},
		&models.Unlike{},
		&models.SavedPost{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	sessionRepo := repositories.NewPostgresSessionRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(cfg.MongoDatabase))
	reactionRepo := repositories.NewPostgresReactionRepository(pgdb)
	savedPostRepo := repositories.NewPostgresSavedPostRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)

	checker := auth.NewChecker(sessionRepo, userRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, sessionRepo, checker, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- GitHub OAuth bridge (cookie-based, outside the session middleware) ---
	githubGroup := e.Group("/api/github")
	githubHandler := handlers.NewGitHubHandler(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubRedirectURL, cfg.Env)
	githubHandler.RegisterGitHubRoutes(githubGroup)
	log.Println("GitHub bridge routes configured.")

	// --- Protected routes (require a valid session) ---
	api := e.Group("/api/v1")
	api.Use(middleware.SessionAuthMiddleware(checker, cfg.JWTSecret))
	log.Println("Session authentication middleware applied to /api/v1 group.")

	authHandler.RegisterProtectedAuthRoutes(api)

	// User and profile routes
	userHandler := handlers.NewUserHandler(userRepo, images)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, userRepo, reactionRepo, images)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Reaction routes
	reactionHandler := handlers.NewReactionHandler(reactionRepo, postRepo)
	reactionHandler.RegisterReactionRoutes(api)
	log.Println("Reaction routes configured.")

	// Saved post routes
	savedPostHandler := handlers.NewSavedPostHandler(savedPostRepo, postRepo)
	savedPostHandler.RegisterSavedPostRoutes(api)
	log.Println("Saved post routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	log.Println("All routes configured.")
}
