package models

import (
	"time"

	"github.com/amirphl/Jorogumo/utils"
)

// OperatorSession is a server-side session for the single operator account.
// The token is opaque and never serialized.
type OperatorSession struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SessionToken   string    `gorm:"size:255;not null;uniqueIndex:uk_operator_sessions_token" json:"-"`
	Username       string    `gorm:"size:255;not null;index:idx_operator_sessions_username" json:"username"`
	IPAddress      *string   `gorm:"type:inet" json:"ip_address,omitempty"`
	UserAgent      *string   `gorm:"type:text" json:"user_agent,omitempty"`
	IsActive       *bool     `gorm:"default:true;index:idx_operator_sessions_is_active" json:"is_active"`
	CreatedAt      time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	LastAccessedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"last_accessed_at"`
	ExpiresAt      time.Time `gorm:"not null;index:idx_operator_sessions_expires_at" json:"expires_at"`
}

func (OperatorSession) TableName() string {
	return "operator_sessions"
}

// OperatorSessionFilter represents filter criteria for session queries
type OperatorSessionFilter struct {
	ID            *uint
	SessionToken  *string
	Username      *string
	IsActive      *bool
	ExpiresAfter  *time.Time
	ExpiresBefore *time.Time
	IsExpired     *bool // Helper to filter expired sessions
}

func (s *OperatorSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *OperatorSession) IsValid() bool {
	return utils.IsTrue(s.IsActive) && !s.IsExpired()
}
