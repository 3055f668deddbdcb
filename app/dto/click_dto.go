package dto

import "time"

// ListClicksRequest represents click listing filters. Results are always
// ordered most recent first.
type ListClicksRequest struct {
	CampaignID *uint `json:"campaign_id" query:"campaign_id" validate:"omitempty,min=1"`
	Page       int   `json:"page" query:"page" validate:"omitempty,min=1"`
	PageSize   int   `json:"page_size" query:"page_size" validate:"omitempty,min=1,max=500"`
}

// ClickDTO is one recorded click event
type ClickDTO struct {
	ID           uint      `json:"id"`
	LinkID       uint      `json:"link_id"`
	CampaignID   uint      `json:"campaign_id"`
	CampaignName string    `json:"campaign_name"`
	TrackingURL  string    `json:"tracking_url"`
	Destination  string    `json:"destination"`
	IP           string    `json:"ip"`
	City         string    `json:"city"`
	Region       string    `json:"region"`
	Country      string    `json:"country"`
	Org          string    `json:"org"`
	MapsLink     string    `json:"maps_link"`
	UserAgent    string    `json:"user_agent"`
	Browser      string    `json:"browser"`
	Platform     string    `json:"platform"`
	Referer      string    `json:"referer"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"created_at"`
}

// ListClicksResponse is a page of clicks plus the total match count
type ListClicksResponse struct {
	Clicks   []ClickDTO `json:"clicks"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}
