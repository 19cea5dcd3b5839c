package entities

import (
	"time"

	"github.com/google/uuid"
)

type TouchpointType string

const (
	TouchpointTypeAdClick    TouchpointType = "ad_click"
	TouchpointTypeFormSubmit TouchpointType = "form_submit"
	TouchpointTypePageVisit  TouchpointType = "page_visit"
)

// Touchpoint é uma interação relevante para marketing (ad click, form submit).
// Invariante: por identidade existe no máximo um is_first_touch = true,
// garantido pelo índice único parcial ux_touchpoints_first_touch.
// is_last_touch é transiente e só é escrito pelo motor de atribuição.
type Touchpoint struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	VisitorID string     `json:"visitor_id" gorm:"column:visitor_id;type:text;index:idx_touchpoints_visitor_id"`
	ContactID *uuid.UUID `json:"contact_id" gorm:"column:contact_id;type:uuid;index:idx_touchpoints_contact_id"`

	Channel  Channel `json:"channel" gorm:"column:channel;type:text"`
	Source   string  `json:"source" gorm:"column:source;type:text"`
	Medium   string  `json:"medium" gorm:"column:medium;type:text"`
	Campaign string  `json:"campaign" gorm:"column:campaign;type:text"`
	Content  string  `json:"content" gorm:"column:content;type:text"`

	TouchpointType TouchpointType `json:"touchpoint_type" gorm:"column:touchpoint_type;type:text"`

	IsFirstTouch bool `json:"is_first_touch" gorm:"column:is_first_touch;default:false"`
	IsLastTouch  bool `json:"is_last_touch" gorm:"column:is_last_touch;default:false"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index:idx_touchpoints_created_at"`
}
