// Package businessflow contains the business logic for the application.
package businessflow

import (
	"github.com/amirphl/Jorogumo/app/dto"
	"github.com/amirphl/Jorogumo/models"
)

const RequestIDKey = "X-Request-ID"

// ClientMetadata holds request-scoped client information for click recording
// and session tracking
type ClientMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	Referer   string `json:"referer,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
}

// SetReferer sets the referer header value
func (cm *ClientMetadata) SetReferer(referer string) {
	cm.Referer = referer
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// ToCampaignDTO converts a campaign model (with preloaded children) to its full DTO
func ToCampaignDTO(campaign models.Campaign) dto.CampaignDTO {
	out := dto.CampaignDTO{
		ID:             campaign.ID,
		Name:           campaign.Name,
		CampaignType:   campaign.CampaignType,
		Notes:          campaign.Notes,
		TrelloBoardID:  campaign.TrelloBoardID,
		TrelloListID:   campaign.TrelloListID,
		RecurrenceCron: campaign.RecurrenceCron,
		CreatedAt:      campaign.CreatedAt,
		UpdatedAt:      campaign.UpdatedAt,
		Templates:      make([]dto.TemplateDTO, 0, len(campaign.Templates)),
		Links:          make([]dto.LinkDTO, 0, len(campaign.Links)),
	}
	for _, tpl := range campaign.Templates {
		out.Templates = append(out.Templates, dto.TemplateDTO{
			ID:       tpl.ID,
			Position: tpl.Position,
			Subject:  tpl.Subject,
			Body:     tpl.Body,
		})
	}
	for _, link := range campaign.Links {
		out.Links = append(out.Links, dto.LinkDTO{
			ID:          link.ID,
			TemplateID:  link.TemplateID,
			TemplatePos: link.TemplatePos,
			LinkPos:     link.LinkPos,
			Placeholder: link.Placeholder,
			Original:    link.Original,
			TrackingURL: link.TrackingURL,
		})
	}
	return out
}

// ToClickDTO converts a click model to its DTO
func ToClickDTO(click models.Click) dto.ClickDTO {
	return dto.ClickDTO{
		ID:           click.ID,
		LinkID:       click.LinkID,
		CampaignID:   click.CampaignID,
		CampaignName: click.CampaignName,
		TrackingURL:  click.TrackingURL,
		Destination:  click.Destination,
		IP:           click.IP,
		City:         click.City,
		Region:       click.Region,
		Country:      click.Country,
		Org:          click.Org,
		MapsLink:     click.MapsLink,
		UserAgent:    click.UserAgent,
		Browser:      click.Browser,
		Platform:     click.Platform,
		Referer:      click.Referer,
		Note:         click.Note,
		CreatedAt:    click.CreatedAt,
	}
}
