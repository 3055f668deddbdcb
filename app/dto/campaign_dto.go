package dto

import "time"

// TemplateInput is one message variant submitted with a campaign. Body may
// reference its destinations with [link1], [link2], ... placeholders. The
// array order of the submitted templates is the 1-based template position.
type TemplateInput struct {
	Subject string   `json:"subject" validate:"omitempty,max=255"`
	Body    string   `json:"body" validate:"required"`
	Links   []string `json:"links" validate:"omitempty,dive,required,url"`
}

// CreateCampaignRequest represents the campaign creation payload. Campaigns
// either carry templates or, in the simple shape, a flat list of links.
type CreateCampaignRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=255"`
	CampaignType   string          `json:"campaign_type" validate:"required,min=1,max=64"`
	Notes          string          `json:"notes" validate:"omitempty,max=10000"`
	TrelloBoardID  *string         `json:"trello_board_id" validate:"omitempty,max=64"`
	TrelloListID   *string         `json:"trello_list_id" validate:"omitempty,max=64"`
	RecurrenceCron *string         `json:"recurrence_cron" validate:"omitempty,max=64"`
	Templates      []TemplateInput `json:"templates" validate:"omitempty,dive"`
	Links          []string        `json:"links" validate:"omitempty,dive,required,url"`
}

// UpdateCampaignRequest replaces the campaign fields and its full set of
// templates and links
type UpdateCampaignRequest struct {
	Name           string          `json:"name" validate:"required,min=1,max=255"`
	CampaignType   string          `json:"campaign_type" validate:"required,min=1,max=64"`
	Notes          string          `json:"notes" validate:"omitempty,max=10000"`
	TrelloBoardID  *string         `json:"trello_board_id" validate:"omitempty,max=64"`
	TrelloListID   *string         `json:"trello_list_id" validate:"omitempty,max=64"`
	RecurrenceCron *string         `json:"recurrence_cron" validate:"omitempty,max=64"`
	Templates      []TemplateInput `json:"templates" validate:"omitempty,dive"`
	Links          []string        `json:"links" validate:"omitempty,dive,required,url"`
}

// TemplateDTO is a masked template as stored
type TemplateDTO struct {
	ID       uint   `json:"id"`
	Position int    `json:"position"`
	Subject  string `json:"subject,omitempty"`
	Body     string `json:"body"`
}

// LinkDTO is a tracked link as stored. TemplateID is empty for campaign-level
// links.
type LinkDTO struct {
	ID          uint   `json:"id"`
	TemplateID  *uint  `json:"template_id,omitempty"`
	TemplatePos int    `json:"template_pos"`
	LinkPos     int    `json:"link_pos"`
	Placeholder string `json:"placeholder"`
	Original    string `json:"original"`
	TrackingURL string `json:"tracking_url"`
}

// CampaignDTO is the full campaign view with masked templates and links
type CampaignDTO struct {
	ID             uint          `json:"id"`
	Name           string        `json:"name"`
	CampaignType   string        `json:"campaign_type"`
	Notes          string        `json:"notes,omitempty"`
	TrelloBoardID  *string       `json:"trello_board_id,omitempty"`
	TrelloListID   *string       `json:"trello_list_id,omitempty"`
	RecurrenceCron *string       `json:"recurrence_cron,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	Templates      []TemplateDTO `json:"templates"`
	Links          []LinkDTO     `json:"links"`
}

// CampaignSummaryDTO is the list view of a campaign
type CampaignSummaryDTO struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	CampaignType  string    `json:"campaign_type"`
	CreatedAt     time.Time `json:"created_at"`
	TemplateCount int       `json:"template_count"`
	LinkCount     int       `json:"link_count"`
}

// DeleteCampaignResponse confirms a cascade delete
type DeleteCampaignResponse struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}
