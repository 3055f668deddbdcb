package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Jorogumo/models"
	"gorm.io/gorm"
)

// LinkRepositoryImpl implements LinkRepository
type LinkRepositoryImpl struct {
	*BaseRepository[models.Link, models.LinkFilter]
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &LinkRepositoryImpl{BaseRepository: NewBaseRepository[models.Link, models.LinkFilter](db)}
}

// ByTrackingURL resolves a tracking URL to its link row. The tracking_url
// column carries a unique index so at most one row can match.
func (r *LinkRepositoryImpl) ByTrackingURL(ctx context.Context, trackingURL string) (*models.Link, error) {
	filter := models.LinkFilter{TrackingURL: &trackingURL}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *LinkRepositoryImpl) ListByCampaign(ctx context.Context, campaignID uint) ([]*models.Link, error) {
	filter := models.LinkFilter{CampaignID: &campaignID}
	return r.ByFilter(ctx, filter, "template_pos ASC, link_pos ASC", 0, 0)
}

func (r *LinkRepositoryImpl) DeleteByCampaign(ctx context.Context, campaignID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Where("campaign_id = ?", campaignID).Delete(&models.Link{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete links of campaign %d: %w", campaignID, err)
	}
	return nil
}

func (r *LinkRepositoryImpl) applyFilter(db *gorm.DB, f models.LinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CampaignID != nil {
		db = db.Where("campaign_id = ?", *f.CampaignID)
	}
	if f.TemplatePos != nil {
		db = db.Where("template_pos = ?", *f.TemplatePos)
	}
	if f.LinkPos != nil {
		db = db.Where("link_pos = ?", *f.LinkPos)
	}
	if f.TrackingURL != nil {
		db = db.Where("tracking_url = ?", *f.TrackingURL)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *LinkRepositoryImpl) ByFilter(ctx context.Context, filter models.LinkFilter, orderBy string, limit, offset int) ([]*models.Link, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Link{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Link
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LinkRepositoryImpl) Count(ctx context.Context, filter models.LinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Link{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LinkRepositoryImpl) Exists(ctx context.Context, filter models.LinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
