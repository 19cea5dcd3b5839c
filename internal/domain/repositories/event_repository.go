package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	ReassignToContact(ctx context.Context, visitorID string, contactID uuid.UUID) (int64, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db}
}

func (r *eventRepository) Create(ctx context.Context, event *entities.Event) error {
	return apperrors.WrapStore("event create", r.db.WithContext(ctx).Create(event).Error)
}

// ReassignToContact vincula ao contact todos os events do visitor que ainda
// não pertencem a nenhum contact. O filtro contact_id IS NULL torna a
// operação idempotente e impede roubar linhas de outro contact.
func (r *eventRepository) ReassignToContact(ctx context.Context, visitorID string, contactID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.Event{}).
		Where("visitor_id = ? AND contact_id IS NULL", visitorID).
		Update("contact_id", contactID)
	if result.Error != nil {
		return 0, apperrors.WrapStore("event reassign", result.Error)
	}
	return result.RowsAffected, nil
}
