package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"github.com/palacios-io/attribution-api/internal/domain/repositories"
	"github.com/palacios-io/attribution-api/internal/infrastructure/cache"
)

const statsCacheTTL = 5 * time.Minute

// Colunas permitidas para o breakdown; a escolha nunca vem crua do request
var breakdownColumns = map[string]string{
	"first_touch": "first_touch_channel",
	"last_touch":  "last_touch_channel",
}

type StatsUseCase interface {
	GetChannelBreakdown(ctx context.Context, model string, from, to time.Time) ([]repositories.ChannelStat, error)
	GetPurchaseAttribution(ctx context.Context, purchaseID uuid.UUID) (*entities.Attribution, error)
}

type statsUseCase struct {
	attributionRepo repositories.AttributionRepository
	statsCache      *cache.Cache
}

func NewStatsUseCase(attributionRepo repositories.AttributionRepository, statsCache *cache.Cache) StatsUseCase {
	return &statsUseCase{attributionRepo, statsCache}
}

func (uc *statsUseCase) GetChannelBreakdown(ctx context.Context, model string, from, to time.Time) ([]repositories.ChannelStat, error) {
	column, ok := breakdownColumns[model]
	if !ok {
		return nil, apperrors.NewValidation("model", "must be first_touch or last_touch")
	}

	cacheKey := fmt.Sprintf("channels:%s:%d:%d", model, from.Unix(), to.Unix())
	if cached, found := uc.statsCache.Get(cacheKey); found {
		if stats, ok := cached.([]repositories.ChannelStat); ok {
			return stats, nil
		}
	}

	stats, err := uc.attributionRepo.ChannelBreakdown(ctx, column, from, to)
	if err != nil {
		return nil, err
	}

	uc.statsCache.Set(cacheKey, stats, statsCacheTTL)
	return stats, nil
}

func (uc *statsUseCase) GetPurchaseAttribution(ctx context.Context, purchaseID uuid.UUID) (*entities.Attribution, error) {
	return uc.attributionRepo.GetByPurchaseID(ctx, purchaseID)
}
