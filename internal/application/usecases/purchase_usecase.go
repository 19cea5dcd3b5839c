package usecases

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"github.com/palacios-io/attribution-api/internal/domain/repositories"
	"github.com/palacios-io/attribution-api/internal/utils"
)

// PurchaseRequest é a compra já normalizada pela camada de webhooks
type PurchaseRequest struct {
	ContactID       uuid.UUID `json:"contact_id"`
	ProductID       string    `json:"product_id"`
	ProductName     string    `json:"product_name"`
	ProductCategory string    `json:"product_category"`

	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	AmountNormalized float64 `json:"amount_normalized"`

	PaymentProvider string `json:"payment_provider"`
	PaymentID       string `json:"payment_id"`

	PurchasedAt time.Time `json:"purchased_at"`
}

type PurchaseUseCase interface {
	RecordPurchase(ctx context.Context, req *PurchaseRequest) (*entities.Purchase, *entities.Attribution, error)
	RefundPurchase(ctx context.Context, provider, paymentID string, refundedAt time.Time) (*entities.Purchase, error)
}

type purchaseUseCase struct {
	purchaseRepo  repositories.PurchaseRepository
	contactRepo   repositories.ContactRepository
	attributionUC AttributionUseCase
}

func NewPurchaseUseCase(purchaseRepo repositories.PurchaseRepository, contactRepo repositories.ContactRepository, attributionUC AttributionUseCase) PurchaseUseCase {
	return &purchaseUseCase{purchaseRepo, contactRepo, attributionUC}
}

// RecordPurchase grava a compra e dispara a atribuição. Webhooks entregam
// at-least-once: a entrega duplicada cai na unique de (provider, payment_id),
// reusa a compra existente e recomputa a atribuição, que é um upsert
// idempotente. O resultado final é o mesmo da primeira entrega.
func (uc *purchaseUseCase) RecordPurchase(ctx context.Context, req *PurchaseRequest) (*entities.Purchase, *entities.Attribution, error) {
	if req.ContactID == uuid.Nil {
		return nil, nil, apperrors.NewValidation("contact_id", "required")
	}
	if req.Amount <= 0 {
		return nil, nil, apperrors.NewValidation("amount", "must be positive")
	}
	if req.PurchasedAt.IsZero() {
		return nil, nil, apperrors.NewValidation("purchased_at", "required")
	}

	contact, err := uc.contactRepo.FindByID(ctx, req.ContactID)
	if err != nil {
		return nil, nil, err
	}
	if contact == nil {
		return nil, nil, apperrors.NewValidation("contact_id", "unknown contact")
	}

	purchase, created, err := uc.resolvePurchase(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	if created {
		if err := uc.contactRepo.ApplyPurchase(ctx, purchase.ContactID, purchase.AmountNormalized, purchase.PurchasedAt); err != nil {
			// Agregado denormalizado: não derruba a compra já gravada
			log.Printf("Error updating contact aggregates for %s: %v", purchase.ContactID, err)
		}
	}

	attribution, err := uc.attributionUC.Attribute(ctx, purchase)
	if err != nil {
		return purchase, nil, err
	}

	return purchase, attribution, nil
}

func (uc *purchaseUseCase) resolvePurchase(ctx context.Context, req *PurchaseRequest) (*entities.Purchase, bool, error) {
	if req.PaymentID != "" {
		existing, err := uc.purchaseRepo.FindByPayment(ctx, req.PaymentProvider, req.PaymentID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	amountNormalized := req.AmountNormalized
	if amountNormalized == 0 {
		// Conversão de moeda é responsabilidade externa; sem valor normalizado,
		// assume o valor original
		amountNormalized = req.Amount
	}

	purchase := &entities.Purchase{
		ID:               uuid.New(),
		ContactID:        req.ContactID,
		ProductID:        utils.SanitizeString(req.ProductID),
		ProductName:      utils.SanitizeString(req.ProductName),
		ProductCategory:  utils.SanitizeString(req.ProductCategory),
		Amount:           req.Amount,
		Currency:         utils.SanitizeString(req.Currency),
		AmountNormalized: amountNormalized,
		PaymentProvider:  utils.SanitizeString(req.PaymentProvider),
		PaymentID:        utils.SanitizeString(req.PaymentID),
		PaymentStatus:    entities.PaymentStatusCompleted,
		PurchasedAt:      req.PurchasedAt.UTC(),
	}

	if err := uc.purchaseRepo.Create(ctx, purchase); err != nil {
		if !apperrors.IsDuplicateKey(err) {
			return nil, false, apperrors.WrapStore("purchase create", err)
		}
		// Corrida entre entregas duplicadas do webhook: relê a vencedora
		existing, readErr := uc.purchaseRepo.FindByPayment(ctx, req.PaymentProvider, req.PaymentID)
		if readErr != nil {
			return nil, false, readErr
		}
		if existing == nil {
			return nil, false, apperrors.NewInvariant("purchase %s/%s vanished after duplicate-key conflict", req.PaymentProvider, req.PaymentID)
		}
		return existing, false, nil
	}

	return purchase, true, nil
}

func (uc *purchaseUseCase) RefundPurchase(ctx context.Context, provider, paymentID string, refundedAt time.Time) (*entities.Purchase, error) {
	if paymentID == "" {
		return nil, apperrors.NewValidation("payment_id", "required")
	}
	if refundedAt.IsZero() {
		refundedAt = time.Now().UTC()
	}
	return uc.purchaseRepo.MarkRefunded(ctx, provider, paymentID, refundedAt)
}
