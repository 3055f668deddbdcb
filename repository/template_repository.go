package repository

import (
	"context"
	"fmt"

	"github.com/amirphl/Jorogumo/models"
	"gorm.io/gorm"
)

// TemplateRepositoryImpl implements TemplateRepository
type TemplateRepositoryImpl struct {
	*BaseRepository[models.Template, models.TemplateFilter]
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &TemplateRepositoryImpl{BaseRepository: NewBaseRepository[models.Template, models.TemplateFilter](db)}
}

func (r *TemplateRepositoryImpl) ListByCampaign(ctx context.Context, campaignID uint) ([]*models.Template, error) {
	filter := models.TemplateFilter{CampaignID: &campaignID}
	return r.ByFilter(ctx, filter, "position ASC", 0, 0)
}

func (r *TemplateRepositoryImpl) DeleteByCampaign(ctx context.Context, campaignID uint) error {
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

	err = db.Where("campaign_id = ?", campaignID).Delete(&models.Template{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete templates of campaign %d: %w", campaignID, err)
	}
	return nil
}

func (r *TemplateRepositoryImpl) applyFilter(db *gorm.DB, f models.TemplateFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.CampaignID != nil {
		db = db.Where("campaign_id = ?", *f.CampaignID)
	}
	if f.Position != nil {
		db = db.Where("position = ?", *f.Position)
	}
	return db
}

func (r *TemplateRepositoryImpl) ByFilter(ctx context.Context, filter models.TemplateFilter, orderBy string, limit, offset int) ([]*models.Template, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Template{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Template
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *TemplateRepositoryImpl) Count(ctx context.Context, filter models.TemplateFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Template{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TemplateRepositoryImpl) Exists(ctx context.Context, filter models.TemplateFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
