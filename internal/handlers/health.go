package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// Healthz reports service liveness.
func Healthz(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
