package entities

import (
	"time"

	"github.com/google/uuid"
)

type ContactStatus string

const (
	ContactStatusLead        ContactStatus = "lead"
	ContactStatusMQL         ContactStatus = "mql"
	ContactStatusSQL         ContactStatus = "sql"
	ContactStatusOpportunity ContactStatus = "opportunity"
	ContactStatusCustomer    ContactStatus = "customer"
)

// Contact é o indivíduo identificado, chaveado por email normalizado.
// VisitorID guarda o vínculo canônico com no máximo um visitor por vez.
type Contact struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	VisitorID string    `json:"visitor_id" gorm:"column:visitor_id;type:text"`
	Email     string    `json:"email" gorm:"column:email;type:text;uniqueIndex:ux_contacts_email"`
	Phone     string    `json:"phone" gorm:"column:phone;type:text"`
	FirstName string    `json:"first_name" gorm:"column:first_name;type:text"`
	LastName  string    `json:"last_name" gorm:"column:last_name;type:text"`

	Status       ContactStatus `json:"status" gorm:"column:status;type:text;default:lead"`
	IdentifiedAt time.Time     `json:"identified_at" gorm:"column:identified_at"`

	// Agregados denormalizados de compra
	TotalRevenue    float64    `json:"total_revenue" gorm:"column:total_revenue;default:0"`
	TotalPurchases  int        `json:"total_purchases" gorm:"column:total_purchases;default:0"`
	FirstPurchaseAt *time.Time `json:"first_purchase_at" gorm:"column:first_purchase_at"`
	LastPurchaseAt  *time.Time `json:"last_purchase_at" gorm:"column:last_purchase_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
