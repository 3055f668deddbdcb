// Package models contains domain entities and business models for the link tracker
package models

import "time"

// Campaign represents a marketing campaign whose message templates carry
// masked tracking links. The Trello fields tie the campaign to an external
// board and list; RecurrenceCron is informational only, nothing in this
// service schedules sends.
type Campaign struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null;index:idx_campaigns_name" json:"name"`
	CampaignType   string    `gorm:"size:64;not null" json:"campaign_type"`
	Notes          string    `gorm:"type:text" json:"notes"`
	TrelloBoardID  *string   `gorm:"size:64" json:"trello_board_id,omitempty"`
	TrelloListID   *string   `gorm:"size:64" json:"trello_list_id,omitempty"`
	RecurrenceCron *string   `gorm:"size:64" json:"recurrence_cron,omitempty"`
	CreatedAt      time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_campaigns_created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Templates []Template `gorm:"foreignKey:CampaignID;references:ID" json:"templates,omitempty"`
	Links     []Link     `gorm:"foreignKey:CampaignID;references:ID" json:"links,omitempty"`
}

// TableName returns the table name for Campaign
func (Campaign) TableName() string { return "campaigns" }

// CampaignFilter represents filter criteria for campaign queries
type CampaignFilter struct {
	ID            *uint
	Name          *string
	CampaignType  *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
