package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amirphl/Jorogumo/config"
	"github.com/redis/go-redis/v9"
)

// CachedLink is the resolution payload kept in the cache so hot tracking URLs
// skip the database lookup
type CachedLink struct {
	LinkID       uint   `json:"link_id"`
	CampaignID   uint   `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	TrackingURL  string `json:"tracking_url"`
	Destination  string `json:"destination"`
}

// LinkCache caches tracking URL resolutions. A miss returns (nil, nil).
type LinkCache interface {
	Get(ctx context.Context, slug string) (*CachedLink, error)
	Set(ctx context.Context, slug string, link CachedLink) error
	Invalidate(ctx context.Context, slugs []string) error
	Ping(ctx context.Context) error
}

// RedisLinkCache implements LinkCache on redis
type RedisLinkCache struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

// NewRedisLinkCache creates a redis-backed link cache from the cache config
func NewRedisLinkCache(cfg *config.CacheConfig) (*RedisLinkCache, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opts.DB = cfg.RedisDB
	return &RedisLinkCache{
		client: redis.NewClient(opts),
		cfg:    cfg,
	}, nil
}

func (c *RedisLinkCache) key(slug string) string {
	return c.cfg.RedisPrefix + "link:" + slug
}

func (c *RedisLinkCache) Get(ctx context.Context, slug string) (*CachedLink, error) {
	raw, err := c.client.Get(ctx, c.key(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var link CachedLink
	if err := json.Unmarshal(raw, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func (c *RedisLinkCache) Set(ctx context.Context, slug string, link CachedLink) error {
	raw, err := json.Marshal(link)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(slug), raw, c.cfg.DefaultTTL).Err()
}

// Invalidate drops cached resolutions, used when a campaign is edited or
// deleted so stale destinations never get served
func (c *RedisLinkCache) Invalidate(ctx context.Context, slugs []string) error {
	if len(slugs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		keys = append(keys, c.key(slug))
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *RedisLinkCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying redis connection pool
func (c *RedisLinkCache) Close() error {
	return c.client.Close()
}

// NoopLinkCache implements LinkCache when caching is disabled. Every Get is
// a miss and writes are dropped.
type NoopLinkCache struct{}

func NewNoopLinkCache() LinkCache { return &NoopLinkCache{} }

func (NoopLinkCache) Get(ctx context.Context, slug string) (*CachedLink, error) { return nil, nil }
func (NoopLinkCache) Set(ctx context.Context, slug string, link CachedLink) error {
	return nil
}
func (NoopLinkCache) Invalidate(ctx context.Context, slugs []string) error { return nil }
func (NoopLinkCache) Ping(ctx context.Context) error                       { return nil }
