package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AttributionResult é o crédito de um touchpoint em um modelo de atribuição
type AttributionResult struct {
	TouchpointID     uuid.UUID `json:"touchpoint_id"`
	Channel          Channel   `json:"channel"`
	Campaign         string    `json:"campaign"`
	Weight           float64   `json:"weight"`
	AttributedAmount float64   `json:"attributed_amount"`
}

// Attribution é o resultado denormalizado da atribuição de uma compra,
// um registro por purchase_id (recomputar sobrescreve no lugar).
type Attribution struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	PurchaseID uuid.UUID `json:"purchase_id" gorm:"column:purchase_id;type:uuid;uniqueIndex:ux_attributions_purchase_id"`
	ContactID  uuid.UUID `json:"contact_id" gorm:"column:contact_id;type:uuid;index:idx_attributions_contact_id"`

	FirstTouch    json.RawMessage `json:"first_touch" gorm:"column:first_touch;type:jsonb"`
	LastTouch     json.RawMessage `json:"last_touch" gorm:"column:last_touch;type:jsonb"`
	Linear        json.RawMessage `json:"linear" gorm:"column:linear;type:jsonb"`
	TimeDecay     json.RawMessage `json:"time_decay" gorm:"column:time_decay;type:jsonb"`
	PositionBased json.RawMessage `json:"position_based" gorm:"column:position_based;type:jsonb"`

	FirstTouchChannel string  `json:"first_touch_channel" gorm:"column:first_touch_channel;type:text"`
	LastTouchChannel  string  `json:"last_touch_channel" gorm:"column:last_touch_channel;type:text"`
	TouchpointCount   int     `json:"touchpoint_count" gorm:"column:touchpoint_count"`
	DaysToConversion  float64 `json:"days_to_conversion" gorm:"column:days_to_conversion"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
