package models

import (
	"time"

	"github.com/lib/pq"
)

// Template represents one message variant of a campaign. Body holds the
// masked text where each destination URL has been replaced by its tracking
// URL. Destinations keeps the submitted URL list in order so edits can show
// the original input. Position is the 1-based order of the template inside
// the campaign and is part of the tracking slug.
type Template struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CampaignID   uint           `gorm:"not null;index:idx_templates_campaign_id" json:"campaign_id"`
	Position     int            `gorm:"not null" json:"position"`
	Subject      string         `gorm:"size:255" json:"subject"`
	Body         string         `gorm:"type:text;not null" json:"body"`
	Destinations pq.StringArray `gorm:"type:text[]" json:"destinations,omitempty"`
	CreatedAt    time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

// TableName returns the table name for Template
func (Template) TableName() string { return "templates" }

// TemplateFilter represents filter criteria for template queries
type TemplateFilter struct {
	ID         *uint
	CampaignID *uint
	Position   *int
}
