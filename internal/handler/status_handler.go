package handler

import (
	"trivia-forge/internal/domain"
	"trivia-forge/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatusHandler exposes the progress of the running generation pipeline.
type StatusHandler struct {
	service domain.GenerationService
	cache   domain.Cache // nil when no checkpoint store is configured
}

// NewStatusHandler creates a new StatusHandler instance
func NewStatusHandler(service domain.GenerationService, cache domain.Cache) *StatusHandler {
	return &StatusHandler{
		service: service,
		cache:   cache,
	}
}

// GetStatus handles GET /status and returns a snapshot of the current run.
func (h *StatusHandler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Snapshot())
}

// GetHealth handles GET /healthz.
func (h *StatusHandler) GetHealth(c *fiber.Ctx) error {
	status := fiber.Map{"status": "ok"}
	if h.cache != nil {
		if err := h.cache.Ping(c.Context()); err != nil {
			logger.Get().Warn("Checkpoint store is unreachable", zap.Error(err))
			status["checkpoint_store"] = "unreachable"
		} else {
			status["checkpoint_store"] = "ok"
		}
	}
	return c.JSON(status)
}

// RegisterRoutes wires the status endpoints onto the app.
func (h *StatusHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/healthz", h.GetHealth)
	app.Get("/status", h.GetStatus)
}
