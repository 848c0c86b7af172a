package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"alertview-go/internal/config"
)

// Server represents the HTTP server with all configured routes and middleware.
type Server struct {
	app    *fiber.App
	config *config.ServerConfig
	logger *slog.Logger

	// Handlers
	reportHandler  *ReportHandler
	columnsHandler *ColumnsHandler
	exportHandler  *ExportHandler
}

// ServerDeps contains all dependencies required to create a new Server.
type ServerDeps struct {
	Config         *config.ServerConfig
	Logger         *slog.Logger
	ReportHandler  *ReportHandler
	ColumnsHandler *ColumnsHandler
	ExportHandler  *ExportHandler
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(deps ServerDeps) *Server {
	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		StrictRouting:         true,
		CaseSensitive:         true,
		ReadTimeout:           deps.Config.ReadTimeout,
		WriteTimeout:          deps.Config.WriteTimeout,
		IdleTimeout:           deps.Config.IdleTimeout,
		ErrorHandler:          customErrorHandler,
	})

	s := &Server{
		app:            app,
		config:         deps.Config,
		logger:         deps.Logger,
		reportHandler:  deps.ReportHandler,
		columnsHandler: deps.ColumnsHandler,
		exportHandler:  deps.ExportHandler,
	}

	s.registerMiddleware()
	s.registerRoutes()

	return s
}

// registerMiddleware sets up all middleware for the server.
func (s *Server) registerMiddleware() {
	// Recovery middleware to handle panics
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Request ID middleware for tracing
	s.app.Use(requestid.New())

	// Logger middleware for request logging
	s.app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} | ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
}

// registerRoutes sets up all API routes.
func (s *Server) registerRoutes() {
	// Health check endpoint (outside versioned API)
	s.app.Get("/healthz", s.healthCheck)

	// Prometheus metrics endpoint
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API v1 routes
	v1 := s.app.Group("/v1")

	// Accumulation runs
	v1.Post("/report/runs", s.reportHandler.StartRun)
	v1.Get("/report/runs/current", s.reportHandler.RunStatus)
	v1.Delete("/report/runs/current", s.reportHandler.CancelRun)

	// Report view
	v1.Get("/report/rows", s.reportHandler.Rows)
	v1.Post("/report/view/sort", s.reportHandler.SortClick)
	v1.Get("/report/timeline", s.reportHandler.Timeline)
	v1.Get("/report/properties", s.reportHandler.Properties)
	v1.Get("/report/alerts/:id", s.reportHandler.AlertDetail)

	// Column model
	v1.Get("/report/columns", s.columnsHandler.List)
	v1.Post("/report/columns/reorder", s.columnsHandler.Reorder)
	v1.Post("/report/columns/rename", s.columnsHandler.Rename)
	v1.Post("/report/columns/properties", s.columnsHandler.AddProperty)
	v1.Delete("/report/columns/properties/:name", s.columnsHandler.RemoveProperty)

	// Exports
	v1.Get("/report/export/csv", s.exportHandler.CSV)
	v1.Get("/report/export/print", s.exportHandler.Print)
}

// healthCheck returns the health status of the service.
func (s *Server) healthCheck(c *fiber.Ctx) error {
	return Success(c, map[string]string{
		"status": "healthy",
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	addr := s.config.Address()
	s.logger.Info("starting HTTP server", "address", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// customErrorHandler handles errors returned from handlers.
func customErrorHandler(c *fiber.Ctx, err error) error {
	// Check if it's a Fiber error
	if e, ok := err.(*fiber.Error); ok {
		return Error(c, e.Code, ErrCodeInternalError, e.Message)
	}

	// Default to internal server error
	return InternalError(c, fmt.Sprintf("unexpected error: %v", err))
}
