package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"github.com/tripstamp-microservice/internal/config"
	"github.com/tripstamp-microservice/internal/delivery/http/handler"
	"github.com/tripstamp-microservice/internal/delivery/http/middleware"
	"go.uber.org/zap"
)

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	routeHandler   *handler.RouteHandler
	tripHandler    *handler.TripHandler
	stampHandler   *handler.StampHandler
	mapViewHandler *handler.MapViewHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	routeHandler *handler.RouteHandler,
	tripHandler *handler.TripHandler,
	stampHandler *handler.StampHandler,
	mapViewHandler *handler.MapViewHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Trip Stamp Microservice",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    10 * 1024 * 1024, // загрузка иконок приходит в base64
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		routeHandler:   routeHandler,
		tripHandler:    tripHandler,
		stampHandler:   stampHandler,
		mapViewHandler: mapViewHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS())
	s.app.Use(middleware.Session())
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// Route routes
	api.Post("/route", s.routeHandler.Generate)
	api.Get("/route", s.routeHandler.Get)
	api.Delete("/route", s.routeHandler.Clear)

	// Stamp routes
	api.Post("/route/stamps/:id/image", s.stampHandler.GenerateImage)
	api.Put("/route/stamps/:id/selection", s.stampHandler.SetSelection)
	api.Get("/route/stamps/export", s.stampHandler.ExportSelected)

	// Map routes
	api.Get("/map", s.mapViewHandler.GetView)
	api.Put("/map/style", s.mapViewHandler.UpdateStyle)
	api.Post("/map/refit", s.mapViewHandler.Refit)
	api.Post("/map/icon", s.stampHandler.UploadIcon)

	// Trip routes
	api.Get("/trips", s.tripHandler.List)
	api.Post("/trips", s.tripHandler.Save)
	api.Post("/trips/import", s.tripHandler.Import)
	api.Post("/trips/delete/confirm", s.tripHandler.ConfirmDelete)
	api.Post("/trips/delete/cancel", s.tripHandler.CancelDelete)
	api.Post("/trips/:id/load", s.tripHandler.Load)
	api.Get("/trips/:id/export", s.tripHandler.Export)
	api.Delete("/trips/:id", s.tripHandler.RequestDelete)
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_SERVER_ERROR",
				"message": err.Error(),
			},
		})
	}
}
