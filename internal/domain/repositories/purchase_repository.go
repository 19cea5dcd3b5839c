package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entities.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Purchase, error)
	FindByPayment(ctx context.Context, provider, paymentID string) (*entities.Purchase, error)
	MarkRefunded(ctx context.Context, provider, paymentID string, refundedAt time.Time) (*entities.Purchase, error)
}

type purchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository {
	return &purchaseRepository{db}
}

// Create insere a compra; conflito em ux_purchases_payment indica entrega
// duplicada do webhook e é resolvido pelo caller relendo a linha existente.
func (r *purchaseRepository) Create(ctx context.Context, purchase *entities.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *purchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Purchase, error) {
	var purchase entities.Purchase
	err := r.db.WithContext(ctx).First(&purchase, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.WrapStore("purchase find by id", err)
	}
	return &purchase, nil
}

func (r *purchaseRepository) FindByPayment(ctx context.Context, provider, paymentID string) (*entities.Purchase, error) {
	var purchase entities.Purchase
	err := r.db.WithContext(ctx).
		First(&purchase, "payment_provider = ? AND payment_id = ?", provider, paymentID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.WrapStore("purchase find by payment", err)
	}
	return &purchase, nil
}

func (r *purchaseRepository) MarkRefunded(ctx context.Context, provider, paymentID string, refundedAt time.Time) (*entities.Purchase, error) {
	purchase, err := r.FindByPayment(ctx, provider, paymentID)
	if err != nil || purchase == nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).Model(purchase).Updates(map[string]interface{}{
		"payment_status": string(entities.PaymentStatusRefunded),
		"refunded_at":    refundedAt,
	}).Error
	if err != nil {
		return nil, apperrors.WrapStore("purchase mark refunded", err)
	}
	return purchase, nil
}
