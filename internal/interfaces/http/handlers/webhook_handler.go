package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/palacios-io/attribution-api/internal/application/usecases"
)

type WebhookHandler struct {
	purchaseUseCase usecases.PurchaseUseCase
}

func NewWebhookHandler(purchaseUseCase usecases.PurchaseUseCase) *WebhookHandler {
	return &WebhookHandler{purchaseUseCase}
}

// Purchase recebe a compra já normalizada pelos conectores de pagamento.
// A entrega é at-least-once; o use case absorve duplicatas.
func (h *WebhookHandler) Purchase(c *fiber.Ctx) error {
	var req usecases.PurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	purchase, attribution, err := h.purchaseUseCase.RecordPurchase(c.Context(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"purchase_id": purchase.ID,
		"attribution": attribution,
	})
}

type refundRequest struct {
	PaymentProvider string    `json:"payment_provider"`
	PaymentID       string    `json:"payment_id"`
	RefundedAt      time.Time `json:"refunded_at"`
}

// Refund marca a compra como estornada; a atribuição gravada fica intacta
func (h *WebhookHandler) Refund(c *fiber.Ctx) error {
	var req refundRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	purchase, err := h.purchaseUseCase.RefundPurchase(c.Context(), req.PaymentProvider, req.PaymentID, req.RefundedAt)
	if err != nil {
		return respondError(c, err)
	}
	if purchase == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "purchase not found",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"purchase_id": purchase.ID,
	})
}
