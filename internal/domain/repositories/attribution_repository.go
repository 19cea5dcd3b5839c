package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChannelStat é uma linha agregada do breakdown por channel
type ChannelStat struct {
	Channel   string  `json:"channel"`
	Purchases int64   `json:"purchases"`
	Revenue   float64 `json:"revenue"`
}

// ComputeFunc recebe o recorte ordenado do ledger e devolve o registro de
// atribuição calculado mais o id do touchpoint que vira is_last_touch
type ComputeFunc func(touchpoints []entities.Touchpoint) (*entities.Attribution, *uuid.UUID, error)

type AttributionRepository interface {
	SaveWithLedger(ctx context.Context, purchase *entities.Purchase, compute ComputeFunc) (*entities.Attribution, error)
	GetByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*entities.Attribution, error)
	ChannelBreakdown(ctx context.Context, column string, from, to time.Time) ([]ChannelStat, error)
}

type attributionRepository struct {
	db *gorm.DB
}

func NewAttributionRepository(db *gorm.DB) AttributionRepository {
	return &attributionRepository{db}
}

// SaveWithLedger executa leitura do ledger, cálculo e escrita em uma única
// transação: um touchpoint atrasado inserido no meio não consegue deixar o
// registro de atribuição inconsistente com o is_last_touch marcado. Se o
// caller cancelar no meio, a transação desfaz o clear-then-set inteiro.
func (r *attributionRepository) SaveWithLedger(ctx context.Context, purchase *entities.Purchase, compute ComputeFunc) (*entities.Attribution, error) {
	var saved *entities.Attribution

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Empate de created_at desempata por id: ids de touchpoint são UUIDv7,
		// crescentes na ordem de inserção
		var touchpoints []entities.Touchpoint
		if err := tx.
			Where("contact_id = ? AND created_at <= ?", purchase.ContactID, purchase.PurchasedAt).
			Order("created_at ASC, id ASC").
			Find(&touchpoints).Error; err != nil {
			return apperrors.WrapStore("attribution ledger read", err)
		}

		// Detecta falha de atomicidade anterior; nunca escolhe um vencedor
		// sozinho. O guard do first touch é por visitor, e um contact que
		// absorveu mais de um visitor legitimamente tem um first touch por
		// visitor absorvido. Só um MESMO visitor com dois first touches é
		// estado impossível.
		var offenders []string
		if err := tx.Model(&entities.Touchpoint{}).
			Where("contact_id = ? AND is_first_touch = true", purchase.ContactID).
			Group("visitor_id").
			Having("COUNT(*) > 1").
			Pluck("visitor_id", &offenders).Error; err != nil {
			return apperrors.WrapStore("attribution invariant check", err)
		}
		if len(offenders) > 0 {
			return apperrors.NewInvariant("visitor %s has more than one first-touch touchpoint", offenders[0])
		}

		attribution, lastTouchID, err := compute(touchpoints)
		if err != nil {
			return err
		}

		// O motor de atribuição é o único escritor de is_last_touch:
		// limpa a marca antiga e grava a nova dentro da mesma transação
		if err := tx.Model(&entities.Touchpoint{}).
			Where("contact_id = ? AND is_last_touch = true", purchase.ContactID).
			Update("is_last_touch", false).Error; err != nil {
			return apperrors.WrapStore("attribution clear last touch", err)
		}
		if lastTouchID != nil {
			if err := tx.Model(&entities.Touchpoint{}).
				Where("id = ?", *lastTouchID).
				Update("is_last_touch", true).Error; err != nil {
				return apperrors.WrapStore("attribution set last touch", err)
			}
		}

		// Upsert por purchase_id: recomputar sobrescreve no lugar
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "purchase_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"first_touch", "last_touch", "linear", "time_decay", "position_based",
				"first_touch_channel", "last_touch_channel",
				"touchpoint_count", "days_to_conversion", "updated_at",
			}),
		}).Create(attribution).Error; err != nil {
			return apperrors.WrapStore("attribution upsert", err)
		}

		// Relê a linha gravada: no caminho de conflito o id e o created_at
		// originais prevalecem sobre os do registro recém montado
		var stored entities.Attribution
		if err := tx.First(&stored, "purchase_id = ?", purchase.ID).Error; err != nil {
			return apperrors.WrapStore("attribution readback", err)
		}

		saved = &stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *attributionRepository) GetByPurchaseID(ctx context.Context, purchaseID uuid.UUID) (*entities.Attribution, error) {
	var attribution entities.Attribution
	err := r.db.WithContext(ctx).First(&attribution, "purchase_id = ?", purchaseID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.WrapStore("attribution find", err)
	}
	return &attribution, nil
}

// ChannelBreakdown agrega receita e compras por channel de first ou last
// touch no período. column é controlada pelo use case, nunca vem do request.
func (r *attributionRepository) ChannelBreakdown(ctx context.Context, column string, from, to time.Time) ([]ChannelStat, error) {
	var stats []ChannelStat
	err := r.db.WithContext(ctx).
		Table("attributions").
		Select(column+" AS channel, COUNT(*) AS purchases, COALESCE(SUM(purchases.amount_normalized), 0) AS revenue").
		Joins("JOIN purchases ON purchases.id = attributions.purchase_id").
		Where("purchases.purchased_at >= ? AND purchases.purchased_at <= ?", from.UTC(), to.UTC()).
		Where(column + " <> ''").
		Group(column).
		Order("revenue DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, apperrors.WrapStore("channel breakdown", err)
	}
	return stats, nil
}
