package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/palacios-io/attribution-api/internal/apperrors"
)

// respondError mapeia a taxonomia de erros do core para respostas HTTP.
// ValidationError é culpa do caller (400); InvariantViolation indica falha
// de atomicidade anterior e sobe como 500 sem tentativa de conserto;
// qualquer outra coisa (StoreUnavailable incluso) vira 500 opaco.
func respondError(c *fiber.Ctx, err error) error {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   validationErr.Error(),
		})
	}

	var invariantErr *apperrors.InvariantViolation
	if errors.As(err, &invariantErr) {
		log.Printf("INVARIANT VIOLATION: %v", invariantErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   invariantErr.Error(),
		})
	}

	log.Printf("Request failed: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "internal server error",
	})
}
