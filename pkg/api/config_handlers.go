package api

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/open-teleop/rover/pkg/config"
	customlog "github.com/open-teleop/rover/pkg/log"
)

// ConfigHandler serves the configuration the process is running with.
// Configuration is read once at startup, so there is no update endpoint.
type ConfigHandler struct {
	cfg    *config.Config
	logger customlog.Logger
}

// NewConfigHandler creates a new handler for configuration endpoints.
func NewConfigHandler(cfg *config.Config, logger customlog.Logger) *ConfigHandler {
	if cfg == nil {
		panic("Config cannot be nil in NewConfigHandler")
	}
	return &ConfigHandler{
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterConfigRoutes registers the configuration API endpoints with the Fiber app.
func RegisterConfigRoutes(app *fiber.App, cfg *config.Config, logger customlog.Logger) {
	h := NewConfigHandler(cfg, logger)
	app.Get("/api/v1/config", h.handleGetConfig)
	logger.Debugf("Registered configuration API endpoint under /api/v1/config")
}

// handleGetConfig returns the running configuration as YAML.
func (h *ConfigHandler) handleGetConfig(c *fiber.Ctx) error {
	yamlData, err := h.cfg.YAML()
	if err != nil {
		h.logger.Errorf("Failed to serialize running config: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to retrieve configuration: %v", err),
		})
	}

	c.Set(fiber.HeaderContentType, "application/x-yaml")
	return c.Send(yamlData)
}
