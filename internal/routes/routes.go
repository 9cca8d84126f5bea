package routes

import (
	"github.com/freshtrio/backend/internal/config"
	"github.com/freshtrio/backend/internal/handlers"
	"github.com/freshtrio/backend/internal/middleware"
	"github.com/freshtrio/backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	orderHandler *handlers.OrderHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	// Auth — public
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/google", authHandler.GoogleAuth)
	auth.Post("/firebase", authHandler.FirebaseAuth)

	// Logout requires a valid token but is otherwise a no-op.
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Product catalog — public reads
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/categories", productHandler.Categories)
	products.Get("/search", productHandler.Search)
	products.Get("/:id", productHandler.Get)

	// Orders — authenticated customers
	orders := api.Group("/orders", middleware.JWTProtected(cfg))
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Get("/:id/track", orderHandler.Track)
	orders.Put("/:id/cancel", orderHandler.Cancel)

	// Driver status updates
	driver := api.Group("/driver", middleware.JWTProtected(cfg),
		middleware.RequireRole(cfg, models.RoleDriver, models.RoleAdmin))
	driver.Put("/orders/:id/status", orderHandler.UpdateStatus)

	// Admin catalog management
	admin := api.Group("/admin", middleware.JWTProtected(cfg),
		middleware.RequireRole(cfg, models.RoleAdmin))
	admin.Post("/products", productHandler.Save)
	admin.Put("/products/:id", productHandler.Save)
	admin.Delete("/products/:id", productHandler.Delete)
}
