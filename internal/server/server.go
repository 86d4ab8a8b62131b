// Package server exposes tool path synthesis over HTTP.
package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"camcore/internal/config"
)

// New builds the application with its middleware and routes.
func New(cfg *config.Config, h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BodyLimit:    32 << 20,
		AppName:      "camd",
	})

	app.Use(recover.New())
	if cfg.Environment != "test" {
		app.Use(RequestLogger())
	}

	app.Get("/health/live", LivenessProbe)
	app.Get("/health/ready", h.ReadinessProbe)

	app.Post("/vector", h.Vector)
	app.Post("/relief", h.Relief)
	app.Get("/jobs/:id", h.Job)
	app.Get("/jobs/:id/gcode", h.JobGcode)

	return app
}

// HeaderJobID carries the id of the job a synthesis request produced or
// matched.
const HeaderJobID = "X-Job-Id"

// RequestLogger logs one line per request, with the job id of synthesis
// requests and the size of the upload.
func RequestLogger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "${time} camd ${status} ${method} ${path} job=${respHeader:" + HeaderJobID + "} in=${bytesReceived}B ${latency}\n",
		TimeFormat: "2006-01-02T15:04:05",
		TimeZone:   "UTC",
	})
}

func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// ReadinessProbe reports ready once the job store answers.
func (h *Handler) ReadinessProbe(c fiber.Ctx) error {
	if err := h.store.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
