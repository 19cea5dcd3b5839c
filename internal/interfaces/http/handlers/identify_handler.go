package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/palacios-io/attribution-api/internal/application/usecases"
)

type IdentifyHandler struct {
	identifyUseCase usecases.IdentifyUseCase
}

func NewIdentifyHandler(identifyUseCase usecases.IdentifyUseCase) *IdentifyHandler {
	return &IdentifyHandler{identifyUseCase}
}

// Identify vincula um visitor anônimo a um email capturado
func (h *IdentifyHandler) Identify(c *fiber.Ctx) error {
	var req usecases.IdentifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	contactID, err := h.identifyUseCase.Identify(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"contact_id": contactID,
	})
}
