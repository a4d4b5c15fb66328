package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"

	"mars/internal/config"
	"mars/internal/database"
	"mars/internal/handlers"
	"mars/internal/middleware"
	"mars/internal/repositories"
	"mars/internal/services"
	"mars/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// --- Initialize Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL is not set. Domain events will not be published.")
	}

	app, err := newApp(cfg, db, publisher)
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// newApp wires repositories, services and handlers, seeds the colony and
// returns a ready Fiber app. publisher may be nil.
func newApp(cfg *config.Config, db *gorm.DB, publisher services.EventPublisher) (*fiber.App, error) {
	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db, cfg.StoreTimeout)
	newsRepo := repositories.NewGORMNewsRepository(db, cfg.StoreTimeout)
	jobRepo := repositories.NewGORMJobRepository(db, cfg.StoreTimeout)
	sessionRepo := repositories.NewGORMSessionRepository(db, cfg.StoreTimeout)

	// --- Initialize Services ---
	credentials := services.NewCredentialStore(cfg.BcryptCost)
	userService := services.NewUserService(userRepo, credentials, publisher)
	newsService := services.NewNewsService(newsRepo, publisher)
	jobService := services.NewJobService(jobRepo)
	authService := services.NewAuthService(userService, sessionRepo, credentials, services.AuthConfig{
		Secret:      cfg.SessionKey,
		SessionTTL:  cfg.SessionTTL,
		RememberTTL: cfg.RememberTTL,
	})

	// --- Bootstrap data ---
	ctx := context.Background()
	seeder := services.NewSeeder(userRepo, jobRepo, credentials, cfg.SeedPassword)
	if err := seeder.Run(ctx); err != nil {
		return nil, err
	}
	if purged, err := authService.PurgeExpiredSessions(ctx); err != nil {
		log.Printf("Failed to purge expired sessions: %v", err)
	} else if purged > 0 {
		log.Printf("Purged %d expired sessions", purged)
	}

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService, cfg.CookieSecure)
	newsHandler := handlers.NewNewsHandler(newsService)
	jobHandler := handlers.NewJobHandler(jobService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New()) // Request logger
	app.Use(middleware.LoadViewer(authService))

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status = "degraded"
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Routes ---
	authHandler.RegisterRoutes(app)
	newsHandler.RegisterRoutes(app)
	jobHandler.RegisterRoutes(app)

	return app, nil
}
