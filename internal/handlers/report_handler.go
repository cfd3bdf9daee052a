package handlers

import (
	"secret-santa-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// GetProgress serves the aggregate view the landing page polls.
func (h *Handler) GetProgress(c *fiber.Ctx) error {
	progress, err := h.reportSvc.Progress()
	if err != nil {
		return utils.Error(c, "Failed to fetch progress", fiber.StatusInternalServerError)
	}

	return utils.Success(c, progress, "Progress retrieved successfully")
}
