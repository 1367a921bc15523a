package server

import (
	"context"

	"learnflow-be/internal/bootstrap"
	"learnflow-be/internal/config"
	"learnflow-be/internal/pkg/logger"
	"learnflow-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
	logger    logger.ILogger
}

func New(cfg *config.Config, container *bootstrap.Container, log logger.ILogger) *Server {
	app := fiber.New(fiber.Config{
		AppName:   "learnflow-be",
		BodyLimit: 1 * 1024 * 1024,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			return serverutils.WriteError(ctx, log, err)
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
	}))

	// Traces every HTTP request.
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware(log))

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"status": "ok"})
	})

	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
		logger:    log,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.logger.Info("SERVER", "Server is running", map[string]interface{}{
		"addr": "http://localhost:" + s.cfg.App.Port,
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	api := app.Group("/api")

	c.AuthController.RegisterRoutes(api)
	c.CategoryController.RegisterRoutes(api)
	c.NoteController.RegisterRoutes(api)
	c.AIController.RegisterRoutes(api)

	c.RealtimeHandler.RegisterRoutes(api)
}
