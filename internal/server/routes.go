package server

import (
	"time"

	"github.com/libyanfood/site/internal/auth"
	"github.com/libyanfood/site/internal/catalog"
	"github.com/libyanfood/site/internal/contact"
	"github.com/libyanfood/site/internal/content"
	"github.com/libyanfood/site/internal/media"
	"github.com/libyanfood/site/internal/models"
	"github.com/libyanfood/site/internal/response"
	"github.com/libyanfood/site/internal/stats"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func SetupRoutes(app *fiber.App, opts Options) {
	// Middleware
	app.Use(recover.New())
	if !opts.Quiet {
		app.Use(logger.New())
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: opts.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Food company API is running",
		})
	})

	api := app.Group("/api")
	admin := []fiber.Handler{auth.JWTProtected(), auth.RoleProtected("admin")}

	// ==========================================
	// AUTH
	// ==========================================
	authGroup := api.Group("/auth")
	authGroup.Post("/login", limiter.New(limiter.Config{
		Max:        opts.LoginRateLimit,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return response.Error(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "Too many login attempts", nil)
		},
	}), auth.LoginHandler)
	authGroup.Get("/me", auth.JWTProtected(), auth.MeHandler)
	authGroup.Post("/logout", auth.JWTProtected(), auth.LogoutHandler)

	// ==========================================
	// SITE CONTENT (key-value per section)
	// ==========================================
	api.Get("/content", content.GetAllContentHandler)
	api.Get("/content/:section", content.GetSectionHandler)
	api.Put("/content/:section/:key", append(admin, content.UpdateContentHandler)...)

	// ==========================================
	// CATALOG LISTS
	// ==========================================
	catalog.Register[models.Service](api, "/services",
		catalog.Options{Name: "Service", Order: "order_num, id"}, admin...)
	catalog.Register[models.Project](api, "/projects",
		catalog.Options{Name: "Project", Order: "order_num, id"}, admin...)
	catalog.Register[models.Testimonial](api, "/testimonials",
		catalog.Options{Name: "Testimonial", Order: "order_num, id"}, admin...)
	catalog.Register[models.NewsItem](api, "/news",
		catalog.Options{Name: "News", Order: "created_at DESC, id DESC"}, admin...)

	// ==========================================
	// CONTACT MESSAGES
	// ==========================================
	api.Post("/contact", contact.SubmitHandler)
	api.Get("/contact", append(admin, contact.ListHandler)...)
	api.Put("/contact/:id/read", append(admin, contact.MarkReadHandler)...)
	api.Delete("/contact/:id", append(admin, contact.DeleteHandler)...)

	// ==========================================
	// UPLOADS & DASHBOARD
	// ==========================================
	api.Post("/upload", append(admin, media.UploadHandler)...)
	api.Get("/stats", append(admin, stats.Handler)...)

	app.Use(func(c *fiber.Ctx) error {
		return response.NotFound(c, "Route")
	})
}
