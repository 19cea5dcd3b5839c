package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/palacios-io/attribution-api/internal/apperrors"
	"github.com/palacios-io/attribution-api/internal/domain/entities"
	"gorm.io/gorm"
)

type ContactRepository interface {
	FindByEmail(ctx context.Context, email string) (*entities.Contact, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Contact, error)
	Create(ctx context.Context, contact *entities.Contact) error
	LinkVisitor(ctx context.Context, contactID uuid.UUID, visitorID string) error
	UpdateProperties(ctx context.Context, contactID uuid.UUID, firstName, lastName, phone string) error
	ApplyPurchase(ctx context.Context, contactID uuid.UUID, amount float64, purchasedAt time.Time) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db}
}

func (r *contactRepository) FindByEmail(ctx context.Context, email string) (*entities.Contact, error) {
	var contact entities.Contact
	err := r.db.WithContext(ctx).First(&contact, "email = ?", email).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.WrapStore("contact find by email", err)
	}
	return &contact, nil
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Contact, error) {
	var contact entities.Contact
	err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.WrapStore("contact find by id", err)
	}
	return &contact, nil
}

// Create insere o contact; conflito na unique de email sobe para o caller,
// que resolve relendo a linha vencedora (caminho ConflictRecovered).
func (r *contactRepository) Create(ctx context.Context, contact *entities.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// LinkVisitor só preenche o vínculo quando o contact ainda não tem visitor,
// para o link canônico não oscilar em replays de identify.
func (r *contactRepository) LinkVisitor(ctx context.Context, contactID uuid.UUID, visitorID string) error {
	err := r.db.WithContext(ctx).Model(&entities.Contact{}).
		Where("id = ? AND (visitor_id IS NULL OR visitor_id = '')", contactID).
		Update("visitor_id", visitorID).Error
	return apperrors.WrapStore("contact link visitor", err)
}

func (r *contactRepository) UpdateProperties(ctx context.Context, contactID uuid.UUID, firstName, lastName, phone string) error {
	updates := map[string]interface{}{}
	if firstName != "" {
		updates["first_name"] = firstName
	}
	if lastName != "" {
		updates["last_name"] = lastName
	}
	if phone != "" {
		updates["phone"] = phone
	}
	if len(updates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&entities.Contact{}).
		Where("id = ?", contactID).
		Updates(updates).Error
	return apperrors.WrapStore("contact update properties", err)
}

// ApplyPurchase mantém os agregados denormalizados de compra do contact
func (r *contactRepository) ApplyPurchase(ctx context.Context, contactID uuid.UUID, amount float64, purchasedAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&entities.Contact{}).
		Where("id = ?", contactID).
		Updates(map[string]interface{}{
			"total_revenue":     gorm.Expr("total_revenue + ?", amount),
			"total_purchases":   gorm.Expr("total_purchases + 1"),
			"first_purchase_at": gorm.Expr("LEAST(COALESCE(first_purchase_at, ?), ?)", purchasedAt, purchasedAt),
			"last_purchase_at":  gorm.Expr("GREATEST(COALESCE(last_purchase_at, ?), ?)", purchasedAt, purchasedAt),
			"status":            string(entities.ContactStatusCustomer),
		}).Error
	return apperrors.WrapStore("contact apply purchase", err)
}
