package tests

import (
	"fmt"
	"strings"
	"testing"

	"github.com/amirphl/Jorogumo/app/dto"
	"github.com/amirphl/Jorogumo/app/services"
	businessflow "github.com/amirphl/Jorogumo/business_flow"
	"github.com/amirphl/Jorogumo/config"
	"github.com/amirphl/Jorogumo/models"
	"github.com/amirphl/Jorogumo/repository"
	testingutil "github.com/amirphl/Jorogumo/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCampaignFlow(testDB *testingutil.TestDB) businessflow.CampaignFlow {
	masking := services.NewMaskingService(&config.TrackingConfig{
		BaseDomain: "https://track.example.com",
		PathPrefix: "r",
	})

	return businessflow.NewCampaignFlow(
		repository.NewCampaignRepository(testDB.DB),
		repository.NewTemplateRepository(testDB.DB),
		repository.NewLinkRepository(testDB.DB),
		masking,
		services.NewNoopLinkCache(),
		testDB.DB,
	)
}

func testMetadata() *businessflow.ClientMetadata {
	return &businessflow.ClientMetadata{
		IPAddress: "127.0.0.1",
		UserAgent: "go-test",
	}
}

func TestCampaignFlow_CreateCampaign(t *testing.T) {
	testDB, _ := withTestDB(t)
	flow := newCampaignFlow(testDB)
	ctx := testingutil.CreateTestContext()

	t.Run("MasksPlaceholdersAndStoresLinks", func(t *testing.T) {
		result, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name:         "Summer Sale",
			CampaignType: "email",
			Templates: []dto.TemplateInput{
				{
					Subject: "Summer savings",
					Body:    "Big discount [link1] and more [link2]",
					Links:   []string{"https://shop.example.com/a", "https://shop.example.com/b"},
				},
			},
		}, testMetadata())
		require.NoError(t, err)

		require.Len(t, result.Templates, 1)
		body := result.Templates[0].Body
		assert.NotContains(t, body, "[link1]")
		assert.NotContains(t, body, "[link2]")
		assert.Contains(t, body, "https://track.example.com/r/Summer_Sale_T1_L1")
		assert.Contains(t, body, "https://track.example.com/r/Summer_Sale_T1_L2")

		require.Len(t, result.Links, 2)
		assert.Equal(t, "https://shop.example.com/a", result.Links[0].Original)
		assert.Equal(t, "https://track.example.com/r/Summer_Sale_T1_L1", result.Links[0].TrackingURL)
		assert.Equal(t, "[link1]", result.Links[0].Placeholder)
		require.NotNil(t, result.Links[0].TemplateID)
		assert.Equal(t, result.Templates[0].ID, *result.Links[0].TemplateID)
	})

	t.Run("CampaignLevelLinksWithoutTemplates", func(t *testing.T) {
		result, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name:         "Bare",
			CampaignType: "sms",
			Links:        []string{"https://shop.example.com/bare"},
		}, testMetadata())
		require.NoError(t, err)

		assert.Empty(t, result.Templates)
		require.Len(t, result.Links, 1)
		assert.Equal(t, "https://track.example.com/r/Bare_1", result.Links[0].TrackingURL)
		assert.Nil(t, result.Links[0].TemplateID)
		assert.Zero(t, result.Links[0].TemplatePos)
	})

	t.Run("WithoutTemplatesOrLinksRejected", func(t *testing.T) {
		_, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name:         "Empty",
			CampaignType: "email",
			Templates:    nil,
		}, testMetadata())
		assert.True(t, businessflow.IsTemplateRequired(err))
	})

	t.Run("WithoutTypeRejected", func(t *testing.T) {
		_, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
			Name: "Typeless",
			Templates: []dto.TemplateInput{
				{Body: "Hi [link1]", Links: []string{"https://shop.example.com/t"}},
			},
		}, testMetadata())
		assert.True(t, businessflow.IsCampaignTypeRequired(err))
	})

	t.Run("ReusedNameGetsSuffixedSlug", func(t *testing.T) {
		request := &dto.CreateCampaignRequest{
			Name:         "Promo",
			CampaignType: "email",
			Templates: []dto.TemplateInput{
				{Body: "Go [link1]", Links: []string{"https://shop.example.com/p"}},
			},
		}

		first, err := flow.CreateCampaign(ctx, request, testMetadata())
		require.NoError(t, err)
		require.Len(t, first.Links, 1)
		assert.Equal(t, "https://track.example.com/r/Promo_T1_L1", first.Links[0].TrackingURL)

		second, err := flow.CreateCampaign(ctx, request, testMetadata())
		require.NoError(t, err)
		require.Len(t, second.Links, 1)
		assert.NotEqual(t, first.Links[0].TrackingURL, second.Links[0].TrackingURL)
		assert.True(t, strings.HasPrefix(second.Links[0].TrackingURL, "https://track.example.com/r/Promo_T1_L1_"))
		assert.Contains(t, second.Templates[0].Body, second.Links[0].TrackingURL)
	})

	t.Run("SuffixedReuseKeepsEveryBodyURLResolvable", func(t *testing.T) {
		// Ten links make link 1's tracking URL a string prefix of link 10's,
		// so a collision suffix on link 1 must not bleed into link 10's URL
		// inside the body
		destinations := make([]string, 10)
		var sb strings.Builder
		for i := range destinations {
			destinations[i] = fmt.Sprintf("https://shop.example.com/w%d", i+1)
			fmt.Fprintf(&sb, "Go [link%d] ", i+1)
		}
		request := &dto.CreateCampaignRequest{
			Name:         "Wide",
			CampaignType: "email",
			Templates: []dto.TemplateInput{
				{Body: sb.String(), Links: destinations},
			},
		}

		_, err := flow.CreateCampaign(ctx, request, testMetadata())
		require.NoError(t, err)

		second, err := flow.CreateCampaign(ctx, request, testMetadata())
		require.NoError(t, err)
		require.Len(t, second.Links, 10)

		body := second.Templates[0].Body
		for _, link := range second.Links {
			assert.Contains(t, body, link.TrackingURL+" ")
		}
		assert.NotContains(t, body, "[link")
	})
}

func TestCampaignFlow_UpdateCampaign(t *testing.T) {
	testDB, _ := withTestDB(t)
	flow := newCampaignFlow(testDB)
	linkRepo := repository.NewLinkRepository(testDB.DB)
	ctx := testingutil.CreateTestContext()

	created, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
		Name:         "Before",
		CampaignType: "email",
		Templates: []dto.TemplateInput{
			{Body: "Old [link1]", Links: []string{"https://shop.example.com/old"}},
		},
	}, testMetadata())
	require.NoError(t, err)

	t.Run("ReplacesTemplatesAndLinks", func(t *testing.T) {
		oldTrackingURL := created.Links[0].TrackingURL

		updated, err := flow.UpdateCampaign(ctx, created.ID, &dto.UpdateCampaignRequest{
			Name:         "After",
			CampaignType: "newsletter",
			Notes:        "second wave",
			Templates: []dto.TemplateInput{
				{Body: "First [link1]", Links: []string{"https://shop.example.com/n1"}},
				{Body: "Second [link1] [link2]", Links: []string{"https://shop.example.com/n2", "https://shop.example.com/n3"}},
			},
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, "After", updated.Name)
		assert.Equal(t, "newsletter", updated.CampaignType)
		assert.Equal(t, "second wave", updated.Notes)
		assert.Len(t, updated.Templates, 2)
		assert.Len(t, updated.Links, 3)

		// Links from before the edit stop resolving
		stale, err := linkRepo.ByTrackingURL(ctx, oldTrackingURL)
		require.NoError(t, err)
		assert.Nil(t, stale)
	})

	t.Run("UnknownCampaign", func(t *testing.T) {
		_, err := flow.UpdateCampaign(ctx, 99999, &dto.UpdateCampaignRequest{
			Name:         "Ghost",
			CampaignType: "email",
			Templates: []dto.TemplateInput{
				{Body: "x", Links: nil},
			},
		}, testMetadata())
		assert.True(t, businessflow.IsCampaignNotFound(err))
	})
}

func TestCampaignFlow_DeleteCampaign(t *testing.T) {
	testDB, _ := withTestDB(t)
	flow := newCampaignFlow(testDB)
	ctx := testingutil.CreateTestContext()

	created, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
		Name:         "Doomed",
		CampaignType: "email",
		Templates: []dto.TemplateInput{
			{Body: "Bye [link1]", Links: []string{"https://shop.example.com/d"}},
		},
	}, testMetadata())
	require.NoError(t, err)

	t.Run("CascadesToTemplatesAndLinks", func(t *testing.T) {
		require.NoError(t, flow.DeleteCampaign(ctx, created.ID, testMetadata()))

		var linkCount, templateCount, campaignCount int64
		require.NoError(t, testDB.DB.Model(&models.Link{}).Where("campaign_id = ?", created.ID).Count(&linkCount).Error)
		require.NoError(t, testDB.DB.Model(&models.Template{}).Where("campaign_id = ?", created.ID).Count(&templateCount).Error)
		require.NoError(t, testDB.DB.Model(&models.Campaign{}).Where("id = ?", created.ID).Count(&campaignCount).Error)
		assert.Zero(t, linkCount)
		assert.Zero(t, templateCount)
		assert.Zero(t, campaignCount)
	})

	t.Run("SecondDeleteReportsNotFound", func(t *testing.T) {
		err := flow.DeleteCampaign(ctx, created.ID, testMetadata())
		assert.True(t, businessflow.IsCampaignNotFound(err))
	})
}

func TestCampaignFlow_ListCampaigns(t *testing.T) {
	testDB, _ := withTestDB(t)
	flow := newCampaignFlow(testDB)
	ctx := testingutil.CreateTestContext()

	_, err := flow.CreateCampaign(ctx, &dto.CreateCampaignRequest{
		Name:         "Counted",
		CampaignType: "email",
		Templates: []dto.TemplateInput{
			{Body: "One [link1]", Links: []string{"https://shop.example.com/1"}},
			{Body: "Two [link1] [link2]", Links: []string{"https://shop.example.com/2", "https://shop.example.com/3"}},
		},
	}, testMetadata())
	require.NoError(t, err)

	summaries, err := flow.ListCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Counted", summaries[0].Name)
	assert.Equal(t, 2, summaries[0].TemplateCount)
	assert.Equal(t, 3, summaries[0].LinkCount)
}
