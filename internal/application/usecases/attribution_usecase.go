package usecases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"github.com/palacios-io/attribution-api/internal/domain/repositories"
	"github.com/palacios-io/attribution-api/internal/infrastructure/metrics"
)

type AttributionUseCase interface {
	Attribute(ctx context.Context, purchase *entities.Purchase) (*entities.Attribution, error)
}

type attributionUseCase struct {
	attributionRepo repositories.AttributionRepository
}

func NewAttributionUseCase(attributionRepo repositories.AttributionRepository) AttributionUseCase {
	return &attributionUseCase{attributionRepo}
}

// Attribute calcula os cinco modelos sobre o recorte do ledger até o momento
// da compra e grava o registro denormalizado. Leitura, marcação de
// is_last_touch e upsert acontecem na mesma transação; recomputar com o
// ledger inalterado produz o mesmo registro.
func (uc *attributionUseCase) Attribute(ctx context.Context, purchase *entities.Purchase) (*entities.Attribution, error) {
	amount := purchase.AmountNormalized
	if amount == 0 {
		amount = purchase.Amount
	}

	attribution, err := uc.attributionRepo.SaveWithLedger(ctx, purchase, func(touchpoints []entities.Touchpoint) (*entities.Attribution, *uuid.UUID, error) {
		models := ComputeModels(touchpoints, amount, purchase.PurchasedAt)
		record, err := uc.assemble(purchase, models)
		if err != nil {
			return nil, nil, err
		}
		var lastTouchID *uuid.UUID
		if n := len(touchpoints); n > 0 {
			lastTouchID = &touchpoints[n-1].ID
		}
		return record, lastTouchID, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.AttributionsComputed.Inc()
	return attribution, nil
}

func (uc *attributionUseCase) assemble(purchase *entities.Purchase, models ModelResults) (*entities.Attribution, error) {
	now := time.Now().UTC()
	record := &entities.Attribution{
		ID:               uuid.New(),
		PurchaseID:       purchase.ID,
		ContactID:        purchase.ContactID,
		TouchpointCount:  models.TouchpointCount,
		DaysToConversion: models.DaysToConversion,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if models.FirstTouch != nil {
		record.FirstTouchChannel = string(models.FirstTouch.Channel)
	}
	if models.LastTouch != nil {
		record.LastTouchChannel = string(models.LastTouch.Channel)
	}

	for _, field := range []struct {
		target *json.RawMessage
		value  interface{}
	}{
		{&record.FirstTouch, models.FirstTouch},
		{&record.LastTouch, models.LastTouch},
		{&record.Linear, models.Linear},
		{&record.TimeDecay, models.TimeDecay},
		{&record.PositionBased, models.PositionBased},
	} {
		raw, err := json.Marshal(field.value)
		if err != nil {
			return nil, apperrors.WrapStore("attribution marshal", err)
		}
		*field.target = raw
	}

	return record, nil
}
