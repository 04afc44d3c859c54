// Package routes wires handlers and middleware onto the fiber app.
package routes

import (
	"time"

	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/handlers"
	"github.com/EyeCodes/PAPI-BACKEND-sub001/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Dependencies struct {
	Analytics *handlers.AnalyticsHandler
	Health    *handlers.HealthHandler
	Auth      *middleware.AuthMiddleware
}

// SetupRoutes registers the health probe and the admin analytics API.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/health", deps.Health.HealthCheck)

	admin := app.Group("/api/admin", deps.Auth.Handler, middleware.AdminOnly)

	// The report issues a dozen aggregate queries per uncached request.
	admin.Get("/dashboard/stats", limiter.New(limiter.Config{
		Max:        30,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}), deps.Analytics.GetDashboardStats)

	admin.Get("/merchants/top", deps.Analytics.GetTopMerchants)

	products := admin.Group("/products")
	products.Get("/", deps.Analytics.GetProducts)
	products.Get("/rollup", deps.Analytics.GetRollup)
}
