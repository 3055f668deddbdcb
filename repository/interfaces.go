// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/amirphl/Jorogumo/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByIDWithChildren(ctx context.Context, id uint) (*models.Campaign, error)
	ListAll(ctx context.Context) ([]*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
	DeleteByID(ctx context.Context, id uint) error
}

// TemplateRepository defines operations for campaign templates
type TemplateRepository interface {
	Repository[models.Template, models.TemplateFilter]
	ListByCampaign(ctx context.Context, campaignID uint) ([]*models.Template, error)
	DeleteByCampaign(ctx context.Context, campaignID uint) error
}

// LinkRepository defines operations for tracked links
type LinkRepository interface {
	Repository[models.Link, models.LinkFilter]
	ByTrackingURL(ctx context.Context, trackingURL string) (*models.Link, error)
	ListByCampaign(ctx context.Context, campaignID uint) ([]*models.Link, error)
	DeleteByCampaign(ctx context.Context, campaignID uint) error
}

// ClickRepository defines operations for click events
type ClickRepository interface {
	Repository[models.Click, models.ClickFilter]
	ListRecent(ctx context.Context, filter models.ClickFilter, limit, offset int) ([]*models.Click, error)
}

// OperatorSessionRepository defines operations for operator sessions
type OperatorSessionRepository interface {
	Repository[models.OperatorSession, models.OperatorSessionFilter]
	BySessionToken(ctx context.Context, token string) (*models.OperatorSession, error)
	UpdateLastAccessed(ctx context.Context, sessionID uint) error
	DeactivateByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
