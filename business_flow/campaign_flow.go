package businessflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirphl/Jorogumo/app/dto"
	"github.com/amirphl/Jorogumo/app/services"
	"github.com/amirphl/Jorogumo/models"
	"github.com/amirphl/Jorogumo/repository"
	"github.com/amirphl/Jorogumo/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// slugSuffixAttempts bounds collision retries per link before the create is
// abandoned
const slugSuffixAttempts = 3

// CampaignFlow handles campaign creation, edit, cascade delete and listing
type CampaignFlow interface {
	CreateCampaign(ctx context.Context, request *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error)
	UpdateCampaign(ctx context.Context, campaignID uint, request *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error)
	DeleteCampaign(ctx context.Context, campaignID uint, metadata *ClientMetadata) error
	GetCampaign(ctx context.Context, campaignID uint) (*dto.CampaignDTO, error)
	ListCampaigns(ctx context.Context) ([]dto.CampaignSummaryDTO, error)
}

// CampaignFlowImpl implements the campaign business flow
type CampaignFlowImpl struct {
	campaignRepo repository.CampaignRepository
	templateRepo repository.TemplateRepository
	linkRepo     repository.LinkRepository
	maskingSvc   services.MaskingService
	linkCache    services.LinkCache
	db           *gorm.DB
}

// NewCampaignFlow creates a new campaign flow instance
func NewCampaignFlow(
	campaignRepo repository.CampaignRepository,
	templateRepo repository.TemplateRepository,
	linkRepo repository.LinkRepository,
	maskingSvc services.MaskingService,
	linkCache services.LinkCache,
	db *gorm.DB,
) CampaignFlow {
	return &CampaignFlowImpl{
		campaignRepo: campaignRepo,
		templateRepo: templateRepo,
		linkRepo:     linkRepo,
		maskingSvc:   maskingSvc,
		linkCache:    linkCache,
		db:           db,
	}
}

// CreateCampaign persists the campaign with its masked templates and tracked
// links in one transaction
func (cf *CampaignFlowImpl) CreateCampaign(ctx context.Context, request *dto.CreateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error) {
	if err := validateCampaignInput(request.Name, request.CampaignType, request.Templates, request.Links); err != nil {
		return nil, err
	}

	var campaignID uint
	err := repository.WithTransaction(ctx, cf.db, func(txCtx context.Context) error {
		campaign := &models.Campaign{
			Name:           request.Name,
			CampaignType:   request.CampaignType,
			Notes:          request.Notes,
			TrelloBoardID:  request.TrelloBoardID,
			TrelloListID:   request.TrelloListID,
			RecurrenceCron: request.RecurrenceCron,
			CreatedAt:      utils.UTCNow(),
			UpdatedAt:      utils.UTCNow(),
		}
		if err := cf.campaignRepo.Save(txCtx, campaign); err != nil {
			return fmt.Errorf("failed to create campaign: %w", err)
		}
		campaignID = campaign.ID

		return cf.createArtifacts(txCtx, campaign, request.Templates, request.Links)
	})
	if err != nil {
		if IsTrackingURLConflict(err) {
			return nil, err
		}
		return nil, NewBusinessError("CAMPAIGN_CREATION_FAILED", "Failed to create campaign", err)
	}

	return cf.GetCampaign(ctx, campaignID)
}

// UpdateCampaign replaces the campaign name and its full set of templates
// and links. Old links stop resolving as soon as the transaction commits.
func (cf *CampaignFlowImpl) UpdateCampaign(ctx context.Context, campaignID uint, request *dto.UpdateCampaignRequest, metadata *ClientMetadata) (*dto.CampaignDTO, error) {
	if err := validateCampaignInput(request.Name, request.CampaignType, request.Templates, request.Links); err != nil {
		return nil, err
	}

	var staleSlugs []string
	err := repository.WithTransaction(ctx, cf.db, func(txCtx context.Context) error {
		campaign, err := cf.campaignRepo.ByID(txCtx, campaignID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return ErrCampaignNotFound
		}

		oldLinks, err := cf.linkRepo.ListByCampaign(txCtx, campaignID)
		if err != nil {
			return err
		}
		for _, link := range oldLinks {
			staleSlugs = append(staleSlugs, slugOf(link.TrackingURL))
		}

		if err := cf.linkRepo.DeleteByCampaign(txCtx, campaignID); err != nil {
			return err
		}
		if err := cf.templateRepo.DeleteByCampaign(txCtx, campaignID); err != nil {
			return err
		}

		campaign.Name = request.Name
		campaign.CampaignType = request.CampaignType
		campaign.Notes = request.Notes
		campaign.TrelloBoardID = request.TrelloBoardID
		campaign.TrelloListID = request.TrelloListID
		campaign.RecurrenceCron = request.RecurrenceCron
		campaign.UpdatedAt = utils.UTCNow()
		if err := cf.campaignRepo.Update(txCtx, campaign); err != nil {
			return err
		}

		return cf.createArtifacts(txCtx, campaign, request.Templates, request.Links)
	})
	if err != nil {
		if IsCampaignNotFound(err) || IsTrackingURLConflict(err) {
			return nil, err
		}
		return nil, NewBusinessError("CAMPAIGN_UPDATE_FAILED", "Failed to update campaign", err)
	}

	// Replaced links must not be served from cache
	_ = cf.linkCache.Invalidate(ctx, staleSlugs)

	return cf.GetCampaign(ctx, campaignID)
}

// DeleteCampaign removes the campaign and everything under it: links first,
// then templates, then the campaign row
func (cf *CampaignFlowImpl) DeleteCampaign(ctx context.Context, campaignID uint, metadata *ClientMetadata) error {
	var staleSlugs []string
	err := repository.WithTransaction(ctx, cf.db, func(txCtx context.Context) error {
		campaign, err := cf.campaignRepo.ByID(txCtx, campaignID)
		if err != nil {
			return err
		}
		if campaign == nil {
			return ErrCampaignNotFound
		}

		links, err := cf.linkRepo.ListByCampaign(txCtx, campaignID)
		if err != nil {
			return err
		}
		for _, link := range links {
			staleSlugs = append(staleSlugs, slugOf(link.TrackingURL))
		}

		if err := cf.linkRepo.DeleteByCampaign(txCtx, campaignID); err != nil {
			return err
		}
		if err := cf.templateRepo.DeleteByCampaign(txCtx, campaignID); err != nil {
			return err
		}
		return cf.campaignRepo.DeleteByID(txCtx, campaignID)
	})
	if err != nil {
		if IsCampaignNotFound(err) {
			return err
		}
		return NewBusinessError("CAMPAIGN_DELETION_FAILED", "Failed to delete campaign", err)
	}

	_ = cf.linkCache.Invalidate(ctx, staleSlugs)
	return nil
}

// GetCampaign loads a campaign with its templates and links
func (cf *CampaignFlowImpl) GetCampaign(ctx context.Context, campaignID uint) (*dto.CampaignDTO, error) {
	campaign, err := cf.campaignRepo.ByIDWithChildren(ctx, campaignID)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_FETCH_FAILED", "Failed to fetch campaign", err)
	}
	if campaign == nil {
		return nil, ErrCampaignNotFound
	}
	out := ToCampaignDTO(*campaign)
	return &out, nil
}

// ListCampaigns returns every campaign with its template and link counts
func (cf *CampaignFlowImpl) ListCampaigns(ctx context.Context) ([]dto.CampaignSummaryDTO, error) {
	campaigns, err := cf.campaignRepo.ListAll(ctx)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to list campaigns", err)
	}

	summaries := make([]dto.CampaignSummaryDTO, 0, len(campaigns))
	for _, campaign := range campaigns {
		templateCount, err := cf.templateRepo.Count(ctx, models.TemplateFilter{CampaignID: &campaign.ID})
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to count templates", err)
		}
		linkCount, err := cf.linkRepo.Count(ctx, models.LinkFilter{CampaignID: &campaign.ID})
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LIST_FAILED", "Failed to count links", err)
		}
		summaries = append(summaries, dto.CampaignSummaryDTO{
			ID:            campaign.ID,
			Name:          campaign.Name,
			CampaignType:  campaign.CampaignType,
			CreatedAt:     campaign.CreatedAt,
			TemplateCount: int(templateCount),
			LinkCount:     int(linkCount),
		})
	}
	return summaries, nil
}

// createArtifacts masks every template plus any campaign-level links and
// persists them. Tracking URLs that already exist (same campaign name reused
// across campaigns) get a random slug suffix; the unique index on
// links.tracking_url is the backstop when a concurrent writer wins the race.
func (cf *CampaignFlowImpl) createArtifacts(ctx context.Context, campaign *models.Campaign, inputs []dto.TemplateInput, campaignLinks []string) error {
	templates := make([]*models.Template, 0, len(inputs))
	perTemplate := make([][]services.MaskedLink, len(inputs))

	for i, input := range inputs {
		position := i + 1
		masked := cf.maskingSvc.MaskTemplate(campaign.Name, position, input.Body, input.Links)

		maskedLinks := make([]services.MaskedLink, 0, len(masked.Links))
		for _, ml := range masked.Links {
			resolved, err := cf.ensureUniqueTrackingURL(ctx, ml)
			if err != nil {
				return err
			}
			maskedLinks = append(maskedLinks, resolved)
		}

		templates = append(templates, &models.Template{
			CampaignID:   campaign.ID,
			Position:     position,
			Subject:      input.Subject,
			Body:         substitutePlaceholders(input.Body, maskedLinks),
			Destinations: pq.StringArray(input.Links),
			CreatedAt:    utils.UTCNow(),
			UpdatedAt:    utils.UTCNow(),
		})
		perTemplate[i] = maskedLinks
	}

	// Templates go first so links can reference their row IDs
	if err := cf.templateRepo.SaveBatch(ctx, templates); err != nil {
		return fmt.Errorf("failed to save templates: %w", err)
	}

	links := make([]*models.Link, 0)
	for i, maskedLinks := range perTemplate {
		templateID := templates[i].ID
		for _, ml := range maskedLinks {
			links = append(links, &models.Link{
				CampaignID:  campaign.ID,
				TemplateID:  &templateID,
				TemplatePos: ml.TemplatePos,
				LinkPos:     ml.LinkPos,
				Placeholder: ml.Placeholder,
				Original:    ml.Original,
				TrackingURL: ml.TrackingURL,
				CreatedAt:   utils.UTCNow(),
				UpdatedAt:   utils.UTCNow(),
			})
		}
	}

	// Campaign-level links of the simple shape carry no template reference
	for _, ml := range cf.maskingSvc.MaskCampaignLinks(campaign.Name, campaignLinks) {
		resolved, err := cf.ensureUniqueTrackingURL(ctx, ml)
		if err != nil {
			return err
		}
		links = append(links, &models.Link{
			CampaignID:  campaign.ID,
			TemplatePos: resolved.TemplatePos,
			LinkPos:     resolved.LinkPos,
			Placeholder: resolved.Placeholder,
			Original:    resolved.Original,
			TrackingURL: resolved.TrackingURL,
			CreatedAt:   utils.UTCNow(),
			UpdatedAt:   utils.UTCNow(),
		})
	}

	if err := cf.linkRepo.SaveBatch(ctx, links); err != nil {
		if isUniqueViolation(err) {
			return ErrTrackingURLConflict
		}
		return fmt.Errorf("failed to save links: %w", err)
	}
	return nil
}

// ensureUniqueTrackingURL re-derives the link slug with a random suffix while
// the tracking URL is already taken
func (cf *CampaignFlowImpl) ensureUniqueTrackingURL(ctx context.Context, ml services.MaskedLink) (services.MaskedLink, error) {
	taken, err := cf.linkRepo.Exists(ctx, models.LinkFilter{TrackingURL: &ml.TrackingURL})
	if err != nil {
		return ml, err
	}
	if !taken {
		return ml, nil
	}

	slug := slugOf(ml.TrackingURL)
	for attempt := 0; attempt < slugSuffixAttempts; attempt++ {
		suffixed, err := cf.maskingSvc.WithSuffix(slug)
		if err != nil {
			return ml, err
		}
		candidate := cf.maskingSvc.TrackingURL(suffixed)
		taken, err := cf.linkRepo.Exists(ctx, models.LinkFilter{TrackingURL: &candidate})
		if err != nil {
			return ml, err
		}
		if !taken {
			ml.TrackingURL = candidate
			return ml, nil
		}
	}
	return ml, ErrTrackingURLConflict
}

// validateCampaignInput enforces the required fields and that the campaign
// carries at least one template or one campaign-level link
func validateCampaignInput(name, campaignType string, templates []dto.TemplateInput, links []string) error {
	if strings.TrimSpace(name) == "" {
		return ErrCampaignNameRequired
	}
	if strings.TrimSpace(campaignType) == "" {
		return ErrCampaignTypeRequired
	}
	if len(templates) == 0 && len(links) == 0 {
		return ErrTemplateRequired
	}
	return nil
}

// substitutePlaceholders rewrites the raw body once every tracking URL is
// final. Tracking URLs can be string prefixes of one another (L1 of L10), so
// patching a suffixed URL into an already substituted body would corrupt
// sibling links; placeholders never prefix each other.
func substitutePlaceholders(body string, links []services.MaskedLink) string {
	for _, ml := range links {
		body = strings.ReplaceAll(body, ml.Placeholder, ml.TrackingURL)
	}
	return body
}

// slugOf extracts the final path segment of a tracking URL
func slugOf(trackingURL string) string {
	if i := strings.LastIndex(trackingURL, "/"); i >= 0 {
		return trackingURL[i+1:]
	}
	return trackingURL
}

// isUniqueViolation reports whether the error is a postgres unique constraint
// violation, either translated by gorm or raw from the driver
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key value")
}
