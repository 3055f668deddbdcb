// Package services provides external service integrations and technical concerns like geolocation and link masking
package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/amirphl/Jorogumo/config"
)

// MaskedLink is one destination URL replaced by a tracking URL. TemplatePos
// is 0 for campaign-level links that belong to no template.
type MaskedLink struct {
	TemplatePos int
	LinkPos     int
	Placeholder string
	Original    string
	TrackingURL string
}

// MaskedTemplate is a template body with every placeholder substituted
type MaskedTemplate struct {
	Position int
	Body     string
	Links    []MaskedLink
}

// MaskingService builds deterministic tracking URLs for campaign links and
// substitutes them into template bodies. Placeholders are written as [link1],
// [link2], ... and refer to the destination list of the same template.
type MaskingService interface {
	Slug(campaignName string, templatePos, linkPos int) string
	SlugSimple(campaignName string, linkPos int) string
	TrackingURL(slug string) string
	MaskTemplate(campaignName string, position int, body string, destinations []string) MaskedTemplate
	MaskCampaignLinks(campaignName string, destinations []string) []MaskedLink
	WithSuffix(slug string) (string, error)
}

// MaskingServiceImpl implements MaskingService
type MaskingServiceImpl struct {
	baseDomain string
	pathPrefix string
}

// NewMaskingService creates a new masking service instance
func NewMaskingService(cfg *config.TrackingConfig) MaskingService {
	return &MaskingServiceImpl{
		baseDomain: strings.TrimRight(cfg.BaseDomain, "/"),
		pathPrefix: strings.Trim(cfg.PathPrefix, "/"),
	}
}

// Slug derives the tracking slug for a link. Spaces in the campaign name are
// replaced with underscores so the slug stays a single path segment. Both
// positions are 1-based.
func (s *MaskingServiceImpl) Slug(campaignName string, templatePos, linkPos int) string {
	name := strings.ReplaceAll(campaignName, " ", "_")
	return fmt.Sprintf("%s_T%d_L%d", name, templatePos, linkPos)
}

// SlugSimple is the one-segment slug used by campaigns that carry links
// directly without templates
func (s *MaskingServiceImpl) SlugSimple(campaignName string, linkPos int) string {
	name := strings.ReplaceAll(campaignName, " ", "_")
	return fmt.Sprintf("%s_%d", name, linkPos)
}

// TrackingURL composes the absolute URL for a slug
func (s *MaskingServiceImpl) TrackingURL(slug string) string {
	return s.baseDomain + "/" + s.pathPrefix + "/" + slug
}

// MaskTemplate replaces every [linkN] placeholder in body with the tracking
// URL of the N-th destination. Placeholders without a matching destination are
// left untouched, and destinations without a placeholder still get a tracking
// URL so their clicks resolve.
func (s *MaskingServiceImpl) MaskTemplate(campaignName string, position int, body string, destinations []string) MaskedTemplate {
	masked := MaskedTemplate{Position: position, Body: body}
	for i, dest := range destinations {
		linkPos := i + 1
		slug := s.Slug(campaignName, position, linkPos)
		trackingURL := s.TrackingURL(slug)
		placeholder := fmt.Sprintf("[link%d]", linkPos)
		masked.Body = strings.ReplaceAll(masked.Body, placeholder, trackingURL)
		masked.Links = append(masked.Links, MaskedLink{
			TemplatePos: position,
			LinkPos:     linkPos,
			Placeholder: placeholder,
			Original:    dest,
			TrackingURL: trackingURL,
		})
	}
	return masked
}

// MaskCampaignLinks masks campaign-level destinations using the one-segment
// slug form. There is no template body to substitute into.
func (s *MaskingServiceImpl) MaskCampaignLinks(campaignName string, destinations []string) []MaskedLink {
	links := make([]MaskedLink, 0, len(destinations))
	for i, dest := range destinations {
		linkPos := i + 1
		links = append(links, MaskedLink{
			TemplatePos: 0,
			LinkPos:     linkPos,
			Placeholder: fmt.Sprintf("[link%d]", linkPos),
			Original:    dest,
			TrackingURL: s.TrackingURL(s.SlugSimple(campaignName, linkPos)),
		})
	}
	return links
}

// WithSuffix appends a random 4-hex-digit suffix to a slug. Used to retry
// after a unique violation on the tracking URL.
func (s *MaskingServiceImpl) WithSuffix(slug string) (string, error) {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate slug suffix: %w", err)
	}
	return slug + "_" + hex.EncodeToString(buf[:]), nil
}
