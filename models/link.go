package models

import "time"

// Link maps a masked tracking URL back to its original destination.
// TrackingURL is the full absolute URL served to recipients and must be
// unique so resolution is unambiguous. TemplatePos and LinkPos record where
// the link sat inside the campaign (template index, link index within the
// template), both 1-based. TemplateID is nil for campaign-level links in the
// simple shape without templates; TemplatePos is 0 there too.
type Link struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CampaignID  uint      `gorm:"not null;index:idx_links_campaign_id" json:"campaign_id"`
	TemplateID  *uint     `gorm:"index:idx_links_template_id" json:"template_id,omitempty"`
	TemplatePos int       `gorm:"not null" json:"template_pos"`
	LinkPos     int       `gorm:"not null" json:"link_pos"`
	Placeholder string    `gorm:"size:32;not null" json:"placeholder"`
	Original    string    `gorm:"type:text;not null" json:"original"`
	TrackingURL string    `gorm:"type:text;not null;uniqueIndex:uk_links_tracking_url" json:"tracking_url"`
	CreatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_links_created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Link
func (Link) TableName() string { return "links" }

// LinkFilter represents filter criteria for link queries
type LinkFilter struct {
	ID            *uint
	CampaignID    *uint
	TemplatePos   *int
	LinkPos       *int
	TrackingURL   *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
