// Package api serves the read-only diagnostics HTTP API and telemetry WebSocket.
package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/open-teleop/rover/domain/diagnostic"
	"github.com/open-teleop/rover/pkg/config"
	customlog "github.com/open-teleop/rover/pkg/log"
)

const shutdownTimeout = 5 * time.Second

// Server is the diagnostics HTTP server.
type Server struct {
	app    *fiber.App
	addr   string
	logger customlog.Logger
}

// NewServer builds the fiber app and its routes.
func NewServer(cfg *config.Config, diagnostics *diagnostic.DiagnosticService, hub *TelemetryHub, logger customlog.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "Open-Teleop Rover",
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "online",
			"service": "open-teleop rover",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api := app.Group("/api")
	api.Get("/diagnostics", diagnostics.GetStatusHandler)

	RegisterConfigRoutes(app, cfg, logger)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/telemetry", hub.Handler())

	return &Server{
		app:    app,
		addr:   cfg.Diagnostics.HTTPAddr,
		logger: logger,
	}
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Diagnostics server starting on %s", s.addr)
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-errCh:
		if err == nil {
			return errors.New("diagnostics server stopped unexpectedly")
		}
		return fmt.Errorf("diagnostics server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("diagnostics server forced to shutdown: %w", err)
	}
	s.logger.Infof("Diagnostics server exited properly")
	return nil
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
