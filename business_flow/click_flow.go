package businessflow

import (
	"context"

	"github.com/amirphl/Jorogumo/app/dto"
	"github.com/amirphl/Jorogumo/app/services"
	"github.com/amirphl/Jorogumo/models"
	"github.com/amirphl/Jorogumo/repository"
	"gorm.io/gorm"
)

const (
	defaultClickPageSize = 50
	maxClickPageSize     = 500
)

// ClickFlow lists and exports recorded clicks
type ClickFlow interface {
	ListClicks(ctx context.Context, request *dto.ListClicksRequest) (*dto.ListClicksResponse, error)
	ExportClicks(ctx context.Context, request *dto.ListClicksRequest) ([]byte, string, error)
}

// ClickFlowImpl implements the click reporting flow
type ClickFlowImpl struct {
	clickRepo repository.ClickRepository
	exportSvc services.ClickExportService
	db        *gorm.DB
}

// NewClickFlow creates a new click flow instance
func NewClickFlow(clickRepo repository.ClickRepository, exportSvc services.ClickExportService, db *gorm.DB) ClickFlow {
	return &ClickFlowImpl{
		clickRepo: clickRepo,
		exportSvc: exportSvc,
		db:        db,
	}
}

func normalizePage(request *dto.ListClicksRequest) (page, pageSize int, err error) {
	page = request.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return 0, 0, ErrInvalidPage
	}
	pageSize = request.PageSize
	if pageSize == 0 {
		pageSize = defaultClickPageSize
	}
	if pageSize < 1 || pageSize > maxClickPageSize {
		return 0, 0, ErrInvalidPageSize
	}
	return page, pageSize, nil
}

// ListClicks returns a page of clicks, most recent first
func (cf *ClickFlowImpl) ListClicks(ctx context.Context, request *dto.ListClicksRequest) (*dto.ListClicksResponse, error) {
	page, pageSize, err := normalizePage(request)
	if err != nil {
		return nil, err
	}

	filter := models.ClickFilter{CampaignID: request.CampaignID}

	total, err := cf.clickRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CLICK_LIST_FAILED", "Failed to count clicks", err)
	}

	clicks, err := cf.clickRepo.ListRecent(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("CLICK_LIST_FAILED", "Failed to list clicks", err)
	}

	out := &dto.ListClicksResponse{
		Clicks:   make([]dto.ClickDTO, 0, len(clicks)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, click := range clicks {
		out.Clicks = append(out.Clicks, ToClickDTO(*click))
	}
	return out, nil
}

// ExportClicks renders the matching clicks as an XLSX workbook. The export
// ignores pagination and writes every matching row.
func (cf *ClickFlowImpl) ExportClicks(ctx context.Context, request *dto.ListClicksRequest) ([]byte, string, error) {
	filter := models.ClickFilter{CampaignID: request.CampaignID}

	clicks, err := cf.clickRepo.ListRecent(ctx, filter, 0, 0)
	if err != nil {
		return nil, "", NewBusinessError("CLICK_EXPORT_FAILED", "Failed to load clicks", err)
	}

	data, filename, err := cf.exportSvc.Export(clicks)
	if err != nil {
		return nil, "", NewBusinessError("CLICK_EXPORT_FAILED", "Failed to render export", err)
	}
	return data, filename, nil
}
