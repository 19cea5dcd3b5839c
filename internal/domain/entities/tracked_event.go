package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventTypePageview      EventType = "pageview"
	EventTypeClick         EventType = "click"
	EventTypeFormSubmit    EventType = "form_submit"
	EventTypeVideoPlay     EventType = "video_play"
	EventTypeVideoProgress EventType = "video_progress"
	EventTypeScroll        EventType = "scroll"
	EventTypeCustom        EventType = "custom"
)

// UtmData agrupa os parâmetros UTM no formato que o snippet envia
type UtmData struct {
	Source   string `json:"source"`
	Medium   string `json:"medium"`
	Campaign string `json:"campaign"`
	Content  string `json:"content"`
	Term     string `json:"term"`
}

// ClickIDs agrupa os identificadores de clique das plataformas de ads
type ClickIDs struct {
	Fbclid  string `json:"fbclid"`
	Gclid   string `json:"gclid"`
	Ttclid  string `json:"ttclid"`
	LiFatID string `json:"li_fat_id"`
}

// Event é todo hit recebido do snippet (pageviews, clicks, etc.).
// Touchpoints são derivados daqui, mas nem todo Event vira touchpoint.
type Event struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;column:id"`
	VisitorID string     `json:"visitor_id" gorm:"column:visitor_id;type:text;index:idx_events_visitor_id"`
	ContactID *uuid.UUID `json:"contact_id" gorm:"column:contact_id;type:uuid;index:idx_events_contact_id"`

	EventType       EventType       `json:"event_type" gorm:"column:event_type;type:text"`
	EventName       string          `json:"event_name" gorm:"column:event_name;type:text"`
	EventProperties json.RawMessage `json:"event_properties" gorm:"column:event_properties;type:jsonb"`

	PageURL   string `json:"page_url" gorm:"column:page_url;type:text"`
	PageTitle string `json:"page_title" gorm:"column:page_title;type:text"`
	Referrer  string `json:"referrer" gorm:"column:referrer;type:text"`

	UtmSource   string `json:"utm_source" gorm:"column:utm_source;type:text"`
	UtmMedium   string `json:"utm_medium" gorm:"column:utm_medium;type:text"`
	UtmCampaign string `json:"utm_campaign" gorm:"column:utm_campaign;type:text"`
	UtmContent  string `json:"utm_content" gorm:"column:utm_content;type:text"`
	UtmTerm     string `json:"utm_term" gorm:"column:utm_term;type:text"`

	Fbclid  string `json:"fbclid" gorm:"column:fbclid;type:text"`
	Gclid   string `json:"gclid" gorm:"column:gclid;type:text"`
	Ttclid  string `json:"ttclid" gorm:"column:ttclid;type:text"`
	LiFatID string `json:"li_fat_id" gorm:"column:li_fat_id;type:text"`

	SessionID string `json:"session_id" gorm:"column:session_id;type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;index:idx_events_created_at"`
}
