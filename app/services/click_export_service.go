package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/amirphl/Jorogumo/models"
	"github.com/xuri/excelize/v2"
)

// ClickExportService renders click events as an XLSX workbook
type ClickExportService interface {
	Export(clicks []*models.Click) ([]byte, string, error)
}

// ClickExportServiceImpl implements ClickExportService using excelize
type ClickExportServiceImpl struct{}

// NewClickExportService creates a new click export service instance
func NewClickExportService() ClickExportService {
	return &ClickExportServiceImpl{}
}

var clickExportHeader = []string{
	"ID", "Campaign", "Tracking URL", "Destination", "IP",
	"City", "Region", "Country", "Org", "Maps Link",
	"User Agent", "Browser", "Platform", "Referer", "Clicked At",
}

// Export writes one row per click, most recent ordering preserved from the
// caller, and returns the workbook bytes plus a timestamped filename.
func (s *ClickExportServiceImpl) Export(clicks []*models.Click) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Clicks"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for col, title := range clickExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, "", err
		}
	}

	for i, click := range clicks {
		row := []any{
			click.ID,
			click.CampaignName,
			click.TrackingURL,
			click.Destination,
			click.IP,
			click.City,
			click.Region,
			click.Country,
			click.Org,
			click.MapsLink,
			click.UserAgent,
			click.Browser,
			click.Platform,
			click.Referer,
			click.CreatedAt.UTC().Format(time.RFC3339),
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, "", err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, "", err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to serialize workbook: %w", err)
	}

	filename := fmt.Sprintf("clicks_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}
