// Package testing provides test utilities and database setup for testing the tracking system
package testing

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	mrand "math/rand"
	"time"

	"github.com/amirphl/Jorogumo/models"
	"github.com/amirphl/Jorogumo/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestCampaign creates a campaign with one template and its masked links
func (tf *TestFixtures) CreateTestCampaign(name string, destinations []string) (*models.Campaign, error) {
	if name == "" {
		name = fmt.Sprintf("Campaign %d", mrand.Intn(100000))
	}

	campaign := &models.Campaign{Name: name, CampaignType: "email"}
	if err := tf.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}

	body := "Hello"
	for i := range destinations {
		body += fmt.Sprintf(" [link%d]", i+1)
	}

	template := &models.Template{
		CampaignID:   campaign.ID,
		Position:     1,
		Body:         body,
		Destinations: pq.StringArray(destinations),
	}
	if err := tf.DB.DB.Create(template).Error; err != nil {
		return nil, fmt.Errorf("failed to create test template: %w", err)
	}

	for i, dest := range destinations {
		link := &models.Link{
			CampaignID:  campaign.ID,
			TemplateID:  &template.ID,
			TemplatePos: 1,
			LinkPos:     i + 1,
			Placeholder: fmt.Sprintf("[link%d]", i+1),
			Original:    dest,
			TrackingURL: fmt.Sprintf("https://track.example.com/r/%s_T1_L%d", name, i+1),
		}
		if err := tf.DB.DB.Create(link).Error; err != nil {
			return nil, fmt.Errorf("failed to create test link: %w", err)
		}
	}

	return campaign, nil
}

// CreateTestClick records a click against the given link
func (tf *TestFixtures) CreateTestClick(link *models.Link, campaignName string) (*models.Click, error) {
	click := &models.Click{
		LinkID:       link.ID,
		CampaignID:   link.CampaignID,
		CampaignName: campaignName,
		TrackingURL:  link.TrackingURL,
		Destination:  link.Original,
		IP:           "203.0.113.10",
		City:         "Berlin",
		Region:       "Berlin",
		Country:      "DE",
		Org:          "Example ISP",
		UserAgent:    "Test User Agent",
		Referer:      utils.DirectReferer,
		Note:         fmt.Sprintf("Tracking %s", campaignName),
	}

	if err := tf.DB.DB.Create(click).Error; err != nil {
		return nil, fmt.Errorf("failed to create test click: %w", err)
	}

	return click, nil
}

func GenerateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// CreateTestSession creates an active operator session
func (tf *TestFixtures) CreateTestSession(username string) (*models.OperatorSession, error) {
	sessionToken, err := GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate secure session token: %w", err)
	}

	ipAddress := "127.0.0.1"

	session := &models.OperatorSession{
		SessionToken:   sessionToken,
		Username:       username,
		IPAddress:      &ipAddress,
		UserAgent:      utils.ToPtr("Test User Agent"),
		IsActive:       utils.ToPtr(true),
		LastAccessedAt: utils.UTCNow(),
		ExpiresAt:      utils.UTCNow().Add(time.Hour),
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create test session: %w", err)
	}

	return session, nil
}

// CreateExpiredSession creates a session whose expiry is already in the past
func (tf *TestFixtures) CreateExpiredSession(username string) (*models.OperatorSession, error) {
	ipAddress := "127.0.0.1"

	session := &models.OperatorSession{
		SessionToken:   uuid.New().String() + uuid.New().String(),
		Username:       username,
		IPAddress:      &ipAddress,
		UserAgent:      utils.ToPtr("Test User Agent"),
		IsActive:       utils.ToPtr(true),
		LastAccessedAt: utils.UTCNow().Add(-2 * time.Hour),
		ExpiresAt:      utils.UTCNow().Add(-time.Hour),
	}

	if err := tf.DB.DB.Create(session).Error; err != nil {
		return nil, fmt.Errorf("failed to create expired session: %w", err)
	}

	return session, nil
}
