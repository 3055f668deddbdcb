package models

import "time"

// Click represents a single resolution of a tracking URL. Geo fields default
// to "N/A" when the visitor address is private or the lookup fails, so a row
// is always written even without geolocation.
type Click struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LinkID       uint      `gorm:"not null;index:idx_clicks_link_id" json:"link_id"`
	CampaignID   uint      `gorm:"not null;index:idx_clicks_campaign_id" json:"campaign_id"`
	CampaignName string    `gorm:"size:255;not null" json:"campaign_name"`
	TrackingURL  string    `gorm:"type:text;not null" json:"tracking_url"`
	Destination  string    `gorm:"type:text;not null" json:"destination"`
	IP           string    `gorm:"size:64;not null" json:"ip"`
	City         string    `gorm:"size:128;not null;default:'N/A'" json:"city"`
	Region       string    `gorm:"size:128;not null;default:'N/A'" json:"region"`
	Country      string    `gorm:"size:64;not null;default:'N/A'" json:"country"`
	Org          string    `gorm:"size:255;not null;default:'N/A'" json:"org"`
	MapsLink     string    `gorm:"type:text;not null;default:'N/A'" json:"maps_link"`
	UserAgent    string    `gorm:"type:text;not null" json:"user_agent"`
	Browser      string    `gorm:"size:64;not null;default:'N/A'" json:"browser"`
	Platform     string    `gorm:"size:64;not null;default:'N/A'" json:"platform"`
	Referer      string    `gorm:"type:text;not null;default:'Direct'" json:"referer"`
	Note         string    `gorm:"type:text" json:"note"`
	CreatedAt    time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_clicks_created_at" json:"created_at"`
}

// TableName returns the table name for Click
func (Click) TableName() string { return "clicks" }

// ClickFilter represents filter criteria for click queries
type ClickFilter struct {
	ID            *uint
	LinkID        *uint
	CampaignID    *uint
	IP            *string
	Country       *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
