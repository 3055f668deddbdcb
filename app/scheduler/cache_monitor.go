package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Jorogumo/app/services"
)

// CacheMonitor pings the link cache on an interval so connectivity problems
// show up in the logs before they show up as slow redirects
type CacheMonitor struct {
	cache    services.LinkCache
	interval time.Duration
	timeout  time.Duration
}

func NewCacheMonitor(cache services.LinkCache, interval time.Duration) *CacheMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &CacheMonitor{
		cache:    cache,
		interval: interval,
		timeout:  3 * time.Second,
	}
}

// Start launches the healthcheck loop and returns a cancel function that stops it
func (m *CacheMonitor) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.checkOnce(ctx)
			}
		}
	}()

	return cancel
}

func (m *CacheMonitor) checkOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, m.timeout)
	defer cancel()

	if err := m.cache.Ping(ctx); err != nil {
		log.Printf("janitor: cache healthcheck failed: %v", err)
	}
}
