package routes

import (
	"time"

	"github.com/craftlink/craftlink-backend/internal/config"
	"github.com/craftlink/craftlink-backend/internal/handlers"
	"github.com/craftlink/craftlink-backend/internal/middleware"
	"github.com/craftlink/craftlink-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	oauthHandler *handlers.OAuthHandler,
	userHandler *handlers.UserHandler,
	bookingHandler *handlers.BookingHandler,
	paymentHandler *handlers.PaymentHandler,
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

	// Auth — public, with a stricter limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Get("/google", oauthHandler.Redirect(services.ProviderGoogle))
	auth.Get("/google/callback", oauthHandler.Callback(services.ProviderGoogle))
	auth.Get("/facebook", oauthHandler.Redirect(services.ProviderFacebook))
	auth.Get("/facebook/callback", oauthHandler.Callback(services.ProviderFacebook))

	// Users and artisan discovery
	api.Get("/users", userHandler.List)
	api.Get("/users/:id", userHandler.Get)
	api.Put("/users/:id", middleware.JWTProtected(cfg), middleware.RequireUser(db), userHandler.Update)
	api.Delete("/users/:id", middleware.JWTProtected(cfg), middleware.RequireUser(db), userHandler.Delete)
	api.Get("/artisans", userHandler.ListArtisans)

	// Bookings
	api.Post("/bookings", bookingHandler.Create)
	api.Get("/bookings/:client_id", bookingHandler.ListByClient)

	// Payments — webhook is authenticated by signature, not JWT
	api.Post("/payments/initiate", paymentHandler.Initiate)
	api.Get("/payments/verify/:reference", paymentHandler.Verify)
	api.Post("/payments/webhook", paymentHandler.Webhook)
}
