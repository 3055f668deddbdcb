package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/amirphl/Jorogumo/app/dto"
	"github.com/amirphl/Jorogumo/config"
	"github.com/amirphl/Jorogumo/models"
	"github.com/amirphl/Jorogumo/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthFlow(t *testing.T, repo *fakeSessionRepo) AuthFlow {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthFlow(
		repo,
		&config.AdminConfig{Username: "operator", PasswordHash: string(hash)},
		&config.SecurityConfig{SessionTTL: time.Hour},
		nil,
	)
}

func TestAuthFlow_Login_Success(t *testing.T) {
	repo := newFakeSessionRepo()
	flow := newTestAuthFlow(t, repo)

	meta := NewClientMetadata("203.0.113.9", "curl/8.0")
	resp, err := flow.Login(context.Background(), &dto.LoginRequest{Username: "operator", Password: "s3cret"}, meta)
	require.NoError(t, err)

	assert.Equal(t, "operator", resp.Username)
	assert.NotEmpty(t, resp.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), resp.ExpiresAt, 5*time.Second)

	stored := repo.sessions[resp.Token]
	require.NotNil(t, stored)
	assert.Equal(t, "203.0.113.9", *stored.IPAddress)
	assert.True(t, utils.IsTrue(stored.IsActive))
}

func TestAuthFlow_Login_InvalidCredentials(t *testing.T) {
	repo := newFakeSessionRepo()
	flow := newTestAuthFlow(t, repo)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "operator", "nope"},
		{"unknown username", "admin", "s3cret"},
		{"both wrong", "admin", "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := flow.Login(context.Background(), &dto.LoginRequest{Username: tt.username, Password: tt.password}, nil)
			assert.True(t, IsInvalidCredentials(err))
		})
	}

	assert.Empty(t, repo.sessions)
}

func TestAuthFlow_ValidateSession(t *testing.T) {
	repo := newFakeSessionRepo()
	flow := newTestAuthFlow(t, repo)

	resp, err := flow.Login(context.Background(), &dto.LoginRequest{Username: "operator", Password: "s3cret"}, nil)
	require.NoError(t, err)

	session, err := flow.ValidateSession(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "operator", session.Username)
	assert.Equal(t, session.ID, repo.lastTouched)
}

func TestAuthFlow_ValidateSession_Rejections(t *testing.T) {
	repo := newFakeSessionRepo()
	flow := newTestAuthFlow(t, repo)

	_, err := flow.ValidateSession(context.Background(), "")
	assert.True(t, IsSessionNotFound(err))

	_, err = flow.ValidateSession(context.Background(), "unknown-token")
	assert.True(t, IsSessionNotFound(err))

	// Expired session
	expired := &models.OperatorSession{
		SessionToken: "expired-token",
		Username:     "operator",
		IsActive:     utils.ToPtr(true),
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Save(context.Background(), expired))
	_, err = flow.ValidateSession(context.Background(), "expired-token")
	assert.True(t, IsSessionExpired(err))

	// Logged-out session
	resp, err := flow.Login(context.Background(), &dto.LoginRequest{Username: "operator", Password: "s3cret"}, nil)
	require.NoError(t, err)
	require.NoError(t, flow.Logout(context.Background(), resp.Token))
	_, err = flow.ValidateSession(context.Background(), resp.Token)
	assert.True(t, IsSessionNotFound(err))
}

func TestAuthFlow_Logout_Idempotent(t *testing.T) {
	repo := newFakeSessionRepo()
	flow := newTestAuthFlow(t, repo)

	assert.NoError(t, flow.Logout(context.Background(), ""))
	assert.NoError(t, flow.Logout(context.Background(), "never-issued"))
}

func TestAuthFlow_CleanupExpiredSessions(t *testing.T) {
	repo := newFakeSessionRepo()
	flow := newTestAuthFlow(t, repo)

	require.NoError(t, repo.Save(context.Background(), &models.OperatorSession{
		SessionToken: "old",
		Username:     "operator",
		IsActive:     utils.ToPtr(true),
		ExpiresAt:    time.Now().Add(-time.Hour),
	}))
	require.NoError(t, repo.Save(context.Background(), &models.OperatorSession{
		SessionToken: "fresh",
		Username:     "operator",
		IsActive:     utils.ToPtr(true),
		ExpiresAt:    time.Now().Add(time.Hour),
	}))

	removed, err := flow.CleanupExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
	assert.Contains(t, repo.sessions, "fresh")
	assert.NotContains(t, repo.sessions, "old")
}
