package entities

import (
	"time"
)

// Visitor é a identidade anônima antes da identificação.
// O snapshot de first touch é congelado na criação e nunca sobrescrito.
type Visitor struct {
	ID        string    `json:"id" gorm:"primaryKey;column:id"`
	FirstSeen time.Time `json:"first_seen" gorm:"column:first_seen"`
	LastSeen  time.Time `json:"last_seen" gorm:"column:last_seen"`

	// First Touch Attribution
	FirstUtmSource   string `json:"first_utm_source" gorm:"column:first_utm_source;type:text"`
	FirstUtmMedium   string `json:"first_utm_medium" gorm:"column:first_utm_medium;type:text"`
	FirstUtmCampaign string `json:"first_utm_campaign" gorm:"column:first_utm_campaign;type:text"`
	FirstUtmContent  string `json:"first_utm_content" gorm:"column:first_utm_content;type:text"`
	FirstUtmTerm     string `json:"first_utm_term" gorm:"column:first_utm_term;type:text"`
	FirstReferrer    string `json:"first_referrer" gorm:"column:first_referrer;type:text"`
	FirstLandingPage string `json:"first_landing_page" gorm:"column:first_landing_page;type:text"`
	FirstClickID     string `json:"first_click_id" gorm:"column:first_click_id;type:text"`

	// Device & Geo
	DeviceType string `json:"device_type" gorm:"column:device_type;type:text"`
	Browser    string `json:"browser" gorm:"column:browser;type:text"`
	OS         string `json:"os" gorm:"column:os;type:text"`
	Country    string `json:"country" gorm:"column:country;type:text"`
	City       string `json:"city" gorm:"column:city;type:text"`

	CreatedAt time.Time `json:"created_at"`
}
