package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/application/usecases"
	"github.com/palacios-io/attribution-api/internal/utils"
)

type StatsHandler struct {
	statsUseCase usecases.StatsUseCase
}

func NewStatsHandler(statsUseCase usecases.StatsUseCase) *StatsHandler {
	return &StatsHandler{statsUseCase}
}

// GetChannels devolve o breakdown de receita atribuída por channel
func (h *StatsHandler) GetChannels(c *fiber.Ctx) error {
	model := c.Query("model", "last_touch")

	from, to, err := utils.DateRangeOrDefault(c.Query("from", ""), c.Query("to", ""))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format. Use YYYY-MM-DD or YYYY-MM-DDThh:mm:ssZ",
		})
	}

	stats, err := h.statsUseCase.GetChannelBreakdown(c.Context(), model, from, to)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"data": stats,
		"meta": fiber.Map{
			"model": model,
			"from":  from.Format(time.RFC3339),
			"to":    to.Format(time.RFC3339),
		},
	})
}

// GetPurchaseAttribution devolve o registro de atribuição de uma compra
func (h *StatsHandler) GetPurchaseAttribution(c *fiber.Ctx) error {
	purchaseID, err := uuid.Parse(c.Params("purchase_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid purchase_id",
		})
	}

	attribution, err := h.statsUseCase.GetPurchaseAttribution(c.Context(), purchaseID)
	if err != nil {
		return respondError(c, err)
	}
	if attribution == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "attribution not found",
		})
	}

	return c.JSON(fiber.Map{"data": attribution})
}
