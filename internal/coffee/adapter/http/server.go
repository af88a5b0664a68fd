package http

import (
	"time"

	"coffee-store/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// AppName is reported by fiber on startup.
const AppName = "Coffee Store API"

// NewFiberApp creates the fiber app with the error handler and the common middleware:
// panic recovery, CORS for any origin and request ids.
func NewFiberApp(log logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               AppName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(log),
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,HEAD,PUT,PATCH,POST,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
	}))
	app.Use(RequestID(), RequestContext())

	return app
}
