package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"sitetrack/internal/config"
	"sitetrack/internal/handlers"
	"sitetrack/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	projectHandler *handlers.ProjectHandler,
	reportHandler *handlers.ReportHandler,
	summaryHandler *handlers.SummaryHandler,
	streamHandler *handlers.StreamHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter 10 req/min limit
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/google", authHandler.GoogleSignIn)

	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Authenticated routes load the actor's profile on every request; a
	// vanished profile forces a logout. Pending accounts can read their
	// own profile but nothing else.
	authed := api.Group("", middleware.JWTProtected(cfg), middleware.ProfileRequired(db))
	authed.Get("/me", authHandler.Me)

	active := authed.Group("", middleware.ActiveRoleRequired())

	active.Get("/users", userHandler.List)
	active.Get("/users/:id", userHandler.Get)

	active.Get("/projects", projectHandler.List)
	active.Get("/projects/:id", projectHandler.Get)
	active.Post("/projects", projectHandler.Create)
	active.Put("/projects/:id", projectHandler.Update)
	active.Delete("/projects/:id", projectHandler.Delete)
	active.Get("/projects/:id/reports", projectHandler.Reports)
	// Reviews are immutable: there is no update or delete route. A
	// review disappears only when its report is deleted.
	active.Post("/projects/:id/reports/:reportId/review", projectHandler.AddReview)
	active.Get("/projects/:id/summary", summaryHandler.Get)

	active.Post("/reports", reportHandler.Create)
	active.Put("/reports/:id", reportHandler.Update)
	active.Delete("/reports/:id", reportHandler.Delete)

	// Invalidation stream for dashboard clients
	active.Get("/stream", streamHandler.Events)

	// Admin: user administration and approval of pending accounts
	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.ProfileRequired(db), middleware.AdminRequired())
	admin.Put("/users/:id", userHandler.Update)
	admin.Post("/users/:id/approve", userHandler.Approve)
	admin.Delete("/users/:id", userHandler.Delete)
}
