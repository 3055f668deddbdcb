package businessflow

import (
	"context"
	"fmt"
	"log"

	"github.com/amirphl/Jorogumo/app/services"
	"github.com/amirphl/Jorogumo/models"
	"github.com/amirphl/Jorogumo/repository"
	"github.com/amirphl/Jorogumo/utils"
	"gorm.io/gorm"
)

// TrackingFlow resolves a tracking slug to its destination and records the
// click along the way
type TrackingFlow interface {
	Resolve(ctx context.Context, slug string, metadata *ClientMetadata) (string, error)
}

// TrackingFlowImpl implements the tracking resolution flow
type TrackingFlowImpl struct {
	linkRepo     repository.LinkRepository
	campaignRepo repository.CampaignRepository
	clickRepo    repository.ClickRepository
	maskingSvc   services.MaskingService
	geoSvc       services.GeoService
	linkCache    services.LinkCache
	db           *gorm.DB
}

// NewTrackingFlow creates a new tracking flow instance
func NewTrackingFlow(
	linkRepo repository.LinkRepository,
	campaignRepo repository.CampaignRepository,
	clickRepo repository.ClickRepository,
	maskingSvc services.MaskingService,
	geoSvc services.GeoService,
	linkCache services.LinkCache,
	db *gorm.DB,
) TrackingFlow {
	return &TrackingFlowImpl{
		linkRepo:     linkRepo,
		campaignRepo: campaignRepo,
		clickRepo:    clickRepo,
		maskingSvc:   maskingSvc,
		geoSvc:       geoSvc,
		linkCache:    linkCache,
		db:           db,
	}
}

// Resolve recomposes the tracking URL from the slug, finds its link, logs a
// click and returns the destination. Click recording is best effort: a
// failed insert never blocks the redirect.
func (tf *TrackingFlowImpl) Resolve(ctx context.Context, slug string, metadata *ClientMetadata) (string, error) {
	cached, err := tf.resolveLink(ctx, slug)
	if err != nil {
		return "", err
	}

	tf.recordClick(ctx, cached, metadata)

	return cached.Destination, nil
}

// resolveLink serves hot slugs from cache and falls back to the database
func (tf *TrackingFlowImpl) resolveLink(ctx context.Context, slug string) (*services.CachedLink, error) {
	if cached, err := tf.linkCache.Get(ctx, slug); err == nil && cached != nil {
		return cached, nil
	}

	trackingURL := tf.maskingSvc.TrackingURL(slug)
	link, err := tf.linkRepo.ByTrackingURL(ctx, trackingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tracking url: %w", err)
	}
	if link == nil {
		return nil, ErrLinkNotFound
	}

	campaign, err := tf.campaignRepo.ByID(ctx, link.CampaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to load campaign %d: %w", link.CampaignID, err)
	}
	if campaign == nil {
		// Link row without its campaign means a torn cascade, treat the
		// slug as gone
		return nil, ErrLinkNotFound
	}

	resolved := &services.CachedLink{
		LinkID:       link.ID,
		CampaignID:   campaign.ID,
		CampaignName: campaign.Name,
		TrackingURL:  link.TrackingURL,
		Destination:  link.Original,
	}
	if err := tf.linkCache.Set(ctx, slug, *resolved); err != nil {
		log.Printf("link cache set failed for %s: %v", slug, err)
	}
	return resolved, nil
}

// recordClick geolocates the visitor and inserts the click row
func (tf *TrackingFlowImpl) recordClick(ctx context.Context, link *services.CachedLink, metadata *ClientMetadata) {
	ip := ""
	userAgent := ""
	referer := utils.DirectReferer
	if metadata != nil {
		ip = metadata.IPAddress
		userAgent = metadata.UserAgent
		if metadata.Referer != "" {
			referer = metadata.Referer
		}
	}

	loc := tf.geoSvc.Locate(ctx, ip)
	browser, platform := utils.ParseUserAgent(userAgent)

	click := &models.Click{
		LinkID:       link.LinkID,
		CampaignID:   link.CampaignID,
		CampaignName: link.CampaignName,
		TrackingURL:  link.TrackingURL,
		Destination:  link.Destination,
		IP:           ip,
		City:         loc.City,
		Region:       loc.Region,
		Country:      loc.Country,
		Org:          loc.Org,
		MapsLink:     loc.MapsLink,
		UserAgent:    userAgent,
		Browser:      browser,
		Platform:     platform,
		Referer:      referer,
		Note:         fmt.Sprintf("Tracking %s", link.CampaignName),
		CreatedAt:    utils.UTCNow(),
	}

	if err := tf.clickRepo.Save(ctx, click); err != nil {
		log.Printf("click insert failed for link %d: %v", link.LinkID, err)
	}
}
