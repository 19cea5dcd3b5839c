package entities

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
	PaymentStatusPending   PaymentStatus = "pending"
)

// Purchase é o evento de conversão vindo dos webhooks de pagamento.
// Imutável depois de gravada, exceto refunded_at/payment_status.
type Purchase struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	ContactID uuid.UUID `json:"contact_id" gorm:"column:contact_id;type:uuid;index:idx_purchases_contact_id"`

	ProductID       string `json:"product_id" gorm:"column:product_id;type:text"`
	ProductName     string `json:"product_name" gorm:"column:product_name;type:text"`
	ProductCategory string `json:"product_category" gorm:"column:product_category;type:text"`

	Amount float64 `json:"amount" gorm:"column:amount"`
	// Moeda original e valor já normalizado pela camada externa de conversão
	Currency         string  `json:"currency" gorm:"column:currency;type:text"`
	AmountNormalized float64 `json:"amount_normalized" gorm:"column:amount_normalized"`

	PaymentProvider string        `json:"payment_provider" gorm:"column:payment_provider;type:text;uniqueIndex:ux_purchases_payment"`
	PaymentID       string        `json:"payment_id" gorm:"column:payment_id;type:text;uniqueIndex:ux_purchases_payment"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"column:payment_status;type:text;default:completed"`

	PurchasedAt time.Time  `json:"purchased_at" gorm:"column:purchased_at;index:idx_purchases_purchased_at"`
	RefundedAt  *time.Time `json:"refunded_at" gorm:"column:refunded_at"`

	CreatedAt time.Time `json:"created_at"`
}
