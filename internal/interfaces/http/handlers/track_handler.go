package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/palacios-io/attribution-api/internal/application/usecases"
	"github.com/palacios-io/attribution-api/internal/utils"
)

type TrackHandler struct {
	trackUseCase usecases.TrackUseCase
}

func NewTrackHandler(trackUseCase usecases.TrackUseCase) *TrackHandler {
	return &TrackHandler{trackUseCase}
}

// Track recebe os eventos do snippet de rastreio
func (h *TrackHandler) Track(c *fiber.Ctx) error {
	// Bots recebem 200 e nada é gravado
	if utils.IsBot(c.Get("User-Agent")) {
		return c.JSON(fiber.Map{"success": true})
	}

	var req usecases.TrackEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	result, err := h.trackUseCase.ProcessEvent(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"event_id":      result.EventID,
		"visitor_id":    result.VisitorID,
		"touchpoint_id": result.TouchpointID,
	})
}
