// Package scheduler
package scheduler

import (
	"context"
	"log"
	"time"

	businessflow "github.com/amirphl/Jorogumo/business_flow"
)

// SessionJanitor periodically removes expired operator sessions so the
// sessions table does not grow without bound
type SessionJanitor struct {
	authFlow businessflow.AuthFlow
	interval time.Duration
	timeout  time.Duration
}

func NewSessionJanitor(authFlow businessflow.AuthFlow, interval time.Duration) *SessionJanitor {
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	return &SessionJanitor{
		authFlow: authFlow,
		interval: interval,
		timeout:  10 * time.Second,
	}
}

// Start launches the cleanup loop and returns a cancel function that stops it
func (j *SessionJanitor) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		j.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (j *SessionJanitor) runOnce(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, j.timeout)
	defer cancel()

	removed, err := j.authFlow.CleanupExpiredSessions(ctx)
	if err != nil {
		log.Printf("janitor: session cleanup failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("janitor: removed %d expired sessions", removed)
	}
}
