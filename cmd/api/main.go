package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"akses-lakbay/internal/config"
	"akses-lakbay/internal/handler"
	"akses-lakbay/internal/middleware"
	"akses-lakbay/internal/repository"
	"akses-lakbay/internal/service"
	"akses-lakbay/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (photo upload will not work)", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, minioClient, cfg)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	// Approved points only, no auth so the public map can load.
	v1.Get("/reports/heatmap", h.Report.Heatmap)

	protected := v1.Group("", middleware.AuthRequired(authService))

	users := protected.Group("/users")
	users.Get("/me", h.User.GetProfile)
	users.Put("/me/push-token", h.User.UpdatePushToken)

	reports := protected.Group("/reports")
	reports.Post("/", h.Report.Submit)
	reports.Get("/", h.Report.List)
	reports.Get("/mine", h.Report.ListMine)
	reports.Get("/:reportId", h.Report.Get)
	reports.Post("/:reportId/approve", middleware.RequireAdmin(), h.Report.Approve)
	reports.Post("/:reportId/reject", middleware.RequireAdmin(), h.Report.Reject)
	reports.Delete("/:reportId", middleware.RequireAdmin(), h.Report.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	audit := protected.Group("/audit")
	audit.Get("/recent", middleware.RequireAdmin(), h.Report.RecentActivity)

	navigation := protected.Group("/navigation")
	navigation.Post("/routes", h.Navigation.Routes)

	transit := protected.Group("/transit")
	transit.Get("/routes", h.Navigation.TransitRoutes)
	transit.Get("/suggest", h.Navigation.SuggestTransit)
}
