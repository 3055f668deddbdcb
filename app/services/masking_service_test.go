package services

import (
	"strings"
	"testing"

	"github.com/amirphl/Jorogumo/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMaskingService() MaskingService {
	return NewMaskingService(&config.TrackingConfig{
		BaseDomain: "https://links.example.com",
		PathPrefix: "r",
	})
}

func TestMaskingService_Slug(t *testing.T) {
	svc := newTestMaskingService()

	tests := []struct {
		name         string
		campaignName string
		templatePos  int
		linkPos      int
		expected     string
	}{
		{
			name:         "simple name",
			campaignName: "Launch",
			templatePos:  1,
			linkPos:      1,
			expected:     "Launch_T1_L1",
		},
		{
			name:         "spaces become underscores",
			campaignName: "Summer Sale 2026",
			templatePos:  2,
			linkPos:      3,
			expected:     "Summer_Sale_2026_T2_L3",
		},
		{
			name:         "double digit positions",
			campaignName: "Promo",
			templatePos:  10,
			linkPos:      12,
			expected:     "Promo_T10_L12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.Slug(tt.campaignName, tt.templatePos, tt.linkPos))
		})
	}
}

func TestMaskingService_Slug_SpaceUnderscoreCollision(t *testing.T) {
	svc := newTestMaskingService()

	// Sanitizing is space replacement only, so names differing in spaces vs
	// underscores collide on the same slug
	assert.Equal(t, svc.Slug("Summer_Sale", 1, 1), svc.Slug("Summer Sale", 1, 1))
	assert.Equal(t, svc.SlugSimple("Summer_Sale", 2), svc.SlugSimple("Summer Sale", 2))
}

func TestMaskingService_TrackingURL(t *testing.T) {
	svc := newTestMaskingService()

	url := svc.TrackingURL("Launch_T1_L1")
	assert.Equal(t, "https://links.example.com/r/Launch_T1_L1", url)
}

func TestMaskingService_TrackingURL_TrimsSlashes(t *testing.T) {
	svc := NewMaskingService(&config.TrackingConfig{
		BaseDomain: "https://links.example.com/",
		PathPrefix: "/go/",
	})

	url := svc.TrackingURL("Launch_T1_L1")
	assert.Equal(t, "https://links.example.com/go/Launch_T1_L1", url)
}

func TestMaskingService_MaskTemplate(t *testing.T) {
	svc := newTestMaskingService()

	body := "Hi! Check [link1] and also [link2]. Again: [link1]"
	masked := svc.MaskTemplate("Summer Sale", 1, body, []string{
		"https://shop.example.com/sale",
		"https://shop.example.com/faq",
	})

	require.Len(t, masked.Links, 2)
	assert.Equal(t, 1, masked.Position)

	first := masked.Links[0]
	assert.Equal(t, 1, first.TemplatePos)
	assert.Equal(t, 1, first.LinkPos)
	assert.Equal(t, "[link1]", first.Placeholder)
	assert.Equal(t, "https://shop.example.com/sale", first.Original)
	assert.Equal(t, "https://links.example.com/r/Summer_Sale_T1_L1", first.TrackingURL)

	second := masked.Links[1]
	assert.Equal(t, 2, second.LinkPos)
	assert.Equal(t, "[link2]", second.Placeholder)
	assert.Equal(t, "https://links.example.com/r/Summer_Sale_T1_L2", second.TrackingURL)

	// Every occurrence of a placeholder is substituted
	assert.NotContains(t, masked.Body, "[link1]")
	assert.NotContains(t, masked.Body, "[link2]")
	assert.Equal(t, 2, strings.Count(masked.Body, first.TrackingURL))
	assert.Equal(t, 1, strings.Count(masked.Body, second.TrackingURL))
}

func TestMaskingService_MaskTemplate_NoPlaceholder(t *testing.T) {
	svc := newTestMaskingService()

	masked := svc.MaskTemplate("Promo", 2, "No links here", []string{"https://example.com"})

	// Destination still gets a tracking URL even without a placeholder
	require.Len(t, masked.Links, 1)
	assert.Equal(t, "No links here", masked.Body)
	assert.Equal(t, "https://links.example.com/r/Promo_T2_L1", masked.Links[0].TrackingURL)
}

func TestMaskingService_MaskTemplate_UnmatchedPlaceholder(t *testing.T) {
	svc := newTestMaskingService()

	masked := svc.MaskTemplate("Promo", 1, "See [link1] and [link9]", []string{"https://example.com"})

	assert.NotContains(t, masked.Body, "[link1]")
	assert.Contains(t, masked.Body, "[link9]")
}

func TestMaskingService_SlugSimple(t *testing.T) {
	svc := newTestMaskingService()

	assert.Equal(t, "Launch_1", svc.SlugSimple("Launch", 1))
	assert.Equal(t, "Summer_Sale_3", svc.SlugSimple("Summer Sale", 3))
}

func TestMaskingService_MaskCampaignLinks(t *testing.T) {
	svc := newTestMaskingService()

	masked := svc.MaskCampaignLinks("Promo", []string{
		"https://shop.example.com/a",
		"https://shop.example.com/b",
	})

	require.Len(t, masked, 2)
	assert.Equal(t, 0, masked[0].TemplatePos)
	assert.Equal(t, 1, masked[0].LinkPos)
	assert.Equal(t, "https://shop.example.com/a", masked[0].Original)
	assert.Equal(t, "https://links.example.com/r/Promo_1", masked[0].TrackingURL)
	assert.Equal(t, "https://links.example.com/r/Promo_2", masked[1].TrackingURL)
}

func TestMaskingService_WithSuffix(t *testing.T) {
	svc := newTestMaskingService()

	slug := "Launch_T1_L1"
	suffixed, err := svc.WithSuffix(slug)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(suffixed, slug+"_"))
	suffix := strings.TrimPrefix(suffixed, slug+"_")
	assert.Len(t, suffix, 4)

	// Two draws should practically never collide
	other, err := svc.WithSuffix(slug)
	require.NoError(t, err)
	assert.NotEqual(t, suffixed, other)
}
