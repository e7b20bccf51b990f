package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-assessor/internal/models"
)

func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
