package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"gorm.io/gorm"
)

type TouchpointRepository interface {
	Append(ctx context.Context, touchpoint *entities.Touchpoint) (*entities.Touchpoint, error)
	ReassignToContact(ctx context.Context, visitorID string, contactID uuid.UUID) (int64, error)
}

type touchpointRepository struct {
	db *gorm.DB
}

func NewTouchpointRepository(db *gorm.DB) TouchpointRepository {
	return &touchpointRepository{db}
}

// appendSQL calcula is_first_touch dentro do próprio INSERT. Duas requisições
// concorrentes do mesmo visitor podem ambas enxergar zero linhas anteriores,
// mas o índice único parcial ux_touchpoints_first_touch rejeita a segunda;
// a retentativa dela já enxerga o vencedor e insere com false.
const appendSQL = `
	INSERT INTO touchpoints
		(id, visitor_id, contact_id, channel, source, medium, campaign, content,
		 touchpoint_type, is_first_touch, is_last_touch, created_at)
	SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?,
		NOT EXISTS (SELECT 1 FROM touchpoints t WHERE t.visitor_id = ?),
		false, ?`

// appendConflict classifica o desfecho de uma tentativa de insert
type appendConflict int

const (
	appendConflictNone appendConflict = iota
	// Perdeu a corrida do first touch (ux_touchpoints_first_touch)
	appendConflictFirstTouchRace
	// Reenvio do mesmo evento (ux_touchpoints_dedup)
	appendConflictDedup
)

func classifyAppendError(err error) appendConflict {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return appendConflictNone
	}
	if pgErr.ConstraintName == "ux_touchpoints_dedup" {
		return appendConflictDedup
	}
	return appendConflictFirstTouchRace
}

func (r *touchpointRepository) Append(ctx context.Context, touchpoint *entities.Touchpoint) (*entities.Touchpoint, error) {
	for attempt := 0; attempt < 2; attempt++ {
		err := r.db.WithContext(ctx).Exec(appendSQL,
			touchpoint.ID, touchpoint.VisitorID, touchpoint.ContactID,
			touchpoint.Channel, touchpoint.Source, touchpoint.Medium,
			touchpoint.Campaign, touchpoint.Content, touchpoint.TouchpointType,
			touchpoint.VisitorID, touchpoint.CreatedAt,
		).Error

		if err == nil {
			var saved entities.Touchpoint
			if err := r.db.WithContext(ctx).First(&saved, "id = ?", touchpoint.ID).Error; err != nil {
				return nil, apperrors.WrapStore("touchpoint readback", err)
			}
			return &saved, nil
		}

		switch classifyAppendError(err) {
		case appendConflictDedup:
			// Trata o reenvio como já aplicado e devolve a linha existente
			var existing entities.Touchpoint
			readErr := r.db.WithContext(ctx).
				Where("visitor_id = ? AND created_at = ? AND touchpoint_type = ? AND channel = ?",
					touchpoint.VisitorID, touchpoint.CreatedAt, touchpoint.TouchpointType, touchpoint.Channel).
				First(&existing).Error
			if readErr != nil {
				return nil, apperrors.WrapStore("touchpoint dedup read", readErr)
			}
			return &existing, nil
		case appendConflictFirstTouchRace:
			// Repete o insert: a retentativa já enxerga o vencedor
			continue
		default:
			return nil, apperrors.WrapStore("touchpoint append", err)
		}
	}

	return nil, apperrors.NewInvariant("first-touch insert kept conflicting for visitor %s", touchpoint.VisitorID)
}

// ReassignToContact segue a mesma regra do reassign de events: só linhas
// ainda sem contact mudam de dono.
func (r *touchpointRepository) ReassignToContact(ctx context.Context, visitorID string, contactID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.Touchpoint{}).
		Where("visitor_id = ? AND contact_id IS NULL", visitorID).
		Update("contact_id", contactID)
	if result.Error != nil {
		return 0, apperrors.WrapStore("touchpoint reassign", result.Error)
	}
	return result.RowsAffected, nil
}
