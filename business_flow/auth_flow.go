package businessflow

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/amirphl/Jorogumo/app/dto"
	"github.com/amirphl/Jorogumo/config"
	"github.com/amirphl/Jorogumo/models"
	"github.com/amirphl/Jorogumo/repository"
	"github.com/amirphl/Jorogumo/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthFlow handles operator authentication and session lifecycle
type AuthFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	ValidateSession(ctx context.Context, token string) (*models.OperatorSession, error)
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

// AuthFlowImpl implements the operator auth business flow
type AuthFlowImpl struct {
	sessionRepo repository.OperatorSessionRepository
	adminCfg    *config.AdminConfig
	securityCfg *config.SecurityConfig
	db          *gorm.DB
}

// NewAuthFlow creates a new auth flow instance
func NewAuthFlow(
	sessionRepo repository.OperatorSessionRepository,
	adminCfg *config.AdminConfig,
	securityCfg *config.SecurityConfig,
	db *gorm.DB,
) AuthFlow {
	return &AuthFlowImpl{
		sessionRepo: sessionRepo,
		adminCfg:    adminCfg,
		securityCfg: securityCfg,
		db:          db,
	}
}

// Login verifies the operator credential and issues an opaque session token
// valid for the configured TTL
func (af *AuthFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if subtle.ConstantTimeCompare([]byte(request.Username), []byte(af.adminCfg.Username)) != 1 {
		// Burn a bcrypt comparison so unknown usernames cost the same as
		// wrong passwords
		_ = bcrypt.CompareHashAndPassword([]byte(af.adminCfg.PasswordHash), []byte(request.Password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(af.adminCfg.PasswordHash), []byte(request.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	ttl := af.securityCfg.SessionTTL
	if ttl <= 0 {
		ttl = utils.OperatorSessionTTL
	}

	session := &models.OperatorSession{
		SessionToken:   uuid.New().String() + uuid.New().String(),
		Username:       af.adminCfg.Username,
		IsActive:       utils.ToPtr(true),
		CreatedAt:      utils.UTCNow(),
		LastAccessedAt: utils.UTCNow(),
		ExpiresAt:      utils.UTCNowAdd(ttl),
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			session.IPAddress = utils.ToPtr(metadata.IPAddress)
		}
		if metadata.UserAgent != "" {
			session.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
	}

	if err := af.sessionRepo.Save(ctx, session); err != nil {
		return nil, NewBusinessError("SESSION_CREATION_FAILED", "Failed to create session", err)
	}

	return &dto.LoginResponse{
		Username:  session.Username,
		Token:     session.SessionToken,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout deactivates the session carrying the token. Unknown tokens are not
// an error so logout stays idempotent.
func (af *AuthFlowImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := af.sessionRepo.DeactivateByToken(ctx, token); err != nil {
		return NewBusinessError("SESSION_LOGOUT_FAILED", "Failed to terminate session", err)
	}
	return nil
}

// ValidateSession resolves a token to its active session and refreshes the
// last access timestamp
func (af *AuthFlowImpl) ValidateSession(ctx context.Context, token string) (*models.OperatorSession, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := af.sessionRepo.BySessionToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if !utils.IsTrue(session.IsActive) {
		return nil, ErrSessionNotFound
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	if err := af.sessionRepo.UpdateLastAccessed(ctx, session.ID); err != nil {
		// Stale last_accessed_at does not invalidate the session
		return session, nil
	}
	return session, nil
}

// CleanupExpiredSessions removes expired session rows and reports how many
// were dropped
func (af *AuthFlowImpl) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	return af.sessionRepo.DeleteExpired(ctx)
}
