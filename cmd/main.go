package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "coffee-store/internal/coffee/adapter/http"
	"coffee-store/internal/coffee/adapter/persistence/mongodb"
	"coffee-store/internal/coffee/config"
	"coffee-store/internal/di"
	"coffee-store/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

const (
	healthTimeout   = 5 * time.Second
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Initialize logger
	appLogger := logger.NewLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatalf("Failed to load configuration: %v", err)
	}
	appLogger.Info("Application configuration loaded successfully")

	// Initialize MongoDB connection
	appLogger.Infof("Connecting to MongoDB at %s", cfg.RedactedMongoURI())
	mongoClient, err := mongodb.Connect(context.Background(), cfg)
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	appLogger.Info("Pinged your deployment. You successfully connected to MongoDB!")

	// Initialize Dependency Injection Container
	container := di.NewContainer(cfg, appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	if err := container.InitializeCoffee(context.Background(), mongoClient); err != nil {
		_ = mongoClient.Disconnect(context.Background())
		appLogger.Fatalf("Failed to initialize coffee module: %v", err)
	}
	appLogger.Info("Coffee module initialized successfully")

	app := httpadapter.NewFiberApp(appLogger)

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.WithContext(c.UserContext()).Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "UNHEALTHY",
				"error":   err.Error(),
				"message": "One or more services are unhealthy",
			})
		}

		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"message":   "Coffee Store API is running",
			"timestamp": time.Now().UTC(),
			"modules": fiber.Map{
				"coffee":    "initialized",
				"changeLog": cfg.Redis.Enabled,
			},
		})
	})

	container.GetCoffeeModule().RegisterRoutes(app)

	serverAddr := cfg.Addr()
	appLogger.Infof("Coffee Store server is running on port: %s", cfg.Port)

	// Start server in a goroutine for graceful shutdown
	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed: %v", err)
			return
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}
