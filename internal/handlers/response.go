package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-assessor/internal/models"
)

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(models.ErrorResponse{
		Success: false,
		Message: message,
	})
}
