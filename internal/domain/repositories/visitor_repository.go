package repositories

import (
	"context"
	"time"

	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VisitorRepository interface {
	Upsert(ctx context.Context, visitor *entities.Visitor) error
	FindByID(ctx context.Context, id string) (*entities.Visitor, error)
}

type visitorRepository struct {
	db *gorm.DB
}

func NewVisitorRepository(db *gorm.DB) VisitorRepository {
	return &visitorRepository{db}
}

// Upsert cria o visitor no primeiro hit e, nos seguintes, atualiza apenas
// last_seen. O snapshot de first touch fica congelado: o ON CONFLICT não
// toca nas colunas first_*.
func (r *visitorRepository) Upsert(ctx context.Context, visitor *entities.Visitor) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_seen": time.Now().UTC(),
		}),
	}).Create(visitor).Error

	return apperrors.WrapStore("visitor upsert", err)
}

func (r *visitorRepository) FindByID(ctx context.Context, id string) (*entities.Visitor, error) {
	var visitor entities.Visitor
	err := r.db.WithContext(ctx).First(&visitor, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.WrapStore("visitor find", err)
	}
	return &visitor, nil
}
