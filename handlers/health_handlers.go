package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HandleRoot identifies the API.
// GET /api/
func HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Commerce Analytics API", "version": "1.0.0"})
}

// HandleHealth is the liveness probe.
// GET /api/health
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy", "timestamp": time.Now().UTC()})
}
