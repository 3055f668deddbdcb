package tests

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/amirphl/Jorogumo/models"
	"github.com/amirphl/Jorogumo/repository"
	testingutil "github.com/amirphl/Jorogumo/testing"
	"github.com/amirphl/Jorogumo/utils"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCampaignRepository(t *testing.T) {
	testDB, fixtures := withTestDB(t)
	repo := repository.NewCampaignRepository(testDB.DB)
	ctx := testingutil.CreateTestContext()

	t.Run("SaveAndByID", func(t *testing.T) {
		campaign := &models.Campaign{Name: "Spring Launch", CampaignType: "email", Notes: "first wave"}
		require.NoError(t, repo.Save(ctx, campaign))
		assert.NotZero(t, campaign.ID)

		loaded, err := repo.ByID(ctx, campaign.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, "Spring Launch", loaded.Name)
		assert.Equal(t, "email", loaded.CampaignType)
		assert.Equal(t, "first wave", loaded.Notes)
	})

	t.Run("ByIDNotFound", func(t *testing.T) {
		loaded, err := repo.ByID(ctx, 99999)
		assert.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("ByIDWithChildrenOrdersByPosition", func(t *testing.T) {
		campaign := &models.Campaign{Name: "Ordered", CampaignType: "email"}
		require.NoError(t, repo.Save(ctx, campaign))

		// Insert templates and links out of order
		for _, pos := range []int{2, 1} {
			require.NoError(t, testDB.DB.Create(&models.Template{
				CampaignID:   campaign.ID,
				Position:     pos,
				Body:         "body",
				Destinations: pq.StringArray{"https://example.com"},
			}).Error)
			require.NoError(t, testDB.DB.Create(&models.Link{
				CampaignID:  campaign.ID,
				TemplatePos: pos,
				LinkPos:     1,
				Original:    "https://example.com",
				TrackingURL: uniqueTrackingURL("Ordered", pos),
			}).Error)
		}

		loaded, err := repo.ByIDWithChildren(ctx, campaign.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		require.Len(t, loaded.Templates, 2)
		assert.Equal(t, 1, loaded.Templates[0].Position)
		assert.Equal(t, 2, loaded.Templates[1].Position)
		require.Len(t, loaded.Links, 2)
		assert.Equal(t, 1, loaded.Links[0].TemplatePos)
		assert.Equal(t, 2, loaded.Links[1].TemplatePos)
	})

	t.Run("UpdateRenames", func(t *testing.T) {
		campaign := &models.Campaign{Name: "Old Name", CampaignType: "email"}
		require.NoError(t, repo.Save(ctx, campaign))

		campaign.Name = "New Name"
		campaign.CampaignType = "sms"
		campaign.UpdatedAt = utils.UTCNow()
		require.NoError(t, repo.Update(ctx, campaign))

		loaded, err := repo.ByID(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, "New Name", loaded.Name)
		assert.Equal(t, "sms", loaded.CampaignType)
	})

	t.Run("ListAllAndDelete", func(t *testing.T) {
		before, err := repo.ListAll(ctx)
		require.NoError(t, err)

		campaign, err := fixtures.CreateTestCampaign("Listable", []string{"https://example.com/a"})
		require.NoError(t, err)

		after, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before)+1)

		require.NoError(t, testDB.DB.Where("campaign_id = ?", campaign.ID).Delete(&models.Link{}).Error)
		require.NoError(t, testDB.DB.Where("campaign_id = ?", campaign.ID).Delete(&models.Template{}).Error)
		require.NoError(t, repo.DeleteByID(ctx, campaign.ID))

		loaded, err := repo.ByID(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})
}

func TestTemplateRepository(t *testing.T) {
	testDB, fixtures := withTestDB(t)
	repo := repository.NewTemplateRepository(testDB.DB)
	ctx := testingutil.CreateTestContext()

	campaign, err := fixtures.CreateTestCampaign("Templated", []string{"https://example.com/x", "https://example.com/y"})
	require.NoError(t, err)

	t.Run("ListByCampaign", func(t *testing.T) {
		templates, err := repo.ListByCampaign(ctx, campaign.ID)
		require.NoError(t, err)
		require.Len(t, templates, 1)
		assert.Equal(t, 1, templates[0].Position)
		assert.Len(t, []string(templates[0].Destinations), 2)
	})

	t.Run("DeleteByCampaign", func(t *testing.T) {
		require.NoError(t, repo.DeleteByCampaign(ctx, campaign.ID))

		templates, err := repo.ListByCampaign(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Empty(t, templates)
	})
}

func TestLinkRepository(t *testing.T) {
	testDB, fixtures := withTestDB(t)
	repo := repository.NewLinkRepository(testDB.DB)
	ctx := testingutil.CreateTestContext()

	campaign, err := fixtures.CreateTestCampaign("Linked", []string{"https://example.com/1", "https://example.com/2"})
	require.NoError(t, err)

	t.Run("ListByCampaign", func(t *testing.T) {
		links, err := repo.ListByCampaign(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Len(t, links, 2)
	})

	t.Run("ByTrackingURL", func(t *testing.T) {
		links, err := repo.ListByCampaign(ctx, campaign.ID)
		require.NoError(t, err)
		require.NotEmpty(t, links)

		link, err := repo.ByTrackingURL(ctx, links[0].TrackingURL)
		require.NoError(t, err)
		require.NotNil(t, link)
		assert.Equal(t, links[0].ID, link.ID)

		missing, err := repo.ByTrackingURL(ctx, "https://track.example.com/r/nope")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("DuplicateTrackingURLRejected", func(t *testing.T) {
		links, err := repo.ListByCampaign(ctx, campaign.ID)
		require.NoError(t, err)
		require.NotEmpty(t, links)

		dup := &models.Link{
			CampaignID:  campaign.ID,
			TemplatePos: 9,
			LinkPos:     9,
			Original:    "https://example.com/dup",
			TrackingURL: links[0].TrackingURL,
		}
		err = repo.Save(ctx, dup)
		require.Error(t, err)
		assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
	})

	t.Run("DeleteByCampaign", func(t *testing.T) {
		require.NoError(t, repo.DeleteByCampaign(ctx, campaign.ID))

		links, err := repo.ListByCampaign(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Empty(t, links)
	})
}

func TestClickRepository(t *testing.T) {
	testDB, fixtures := withTestDB(t)
	repo := repository.NewClickRepository(testDB.DB)
	linkRepo := repository.NewLinkRepository(testDB.DB)
	ctx := testingutil.CreateTestContext()

	campaign, err := fixtures.CreateTestCampaign("Clicky", []string{"https://example.com/c"})
	require.NoError(t, err)

	links, err := linkRepo.ListByCampaign(ctx, campaign.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)

	first, err := fixtures.CreateTestClick(links[0], campaign.Name)
	require.NoError(t, err)
	// Ensure distinct created_at ordering
	require.NoError(t, testDB.DB.Model(first).Update("created_at", utils.UTCNow().Add(-time.Minute)).Error)

	second, err := fixtures.CreateTestClick(links[0], campaign.Name)
	require.NoError(t, err)

	t.Run("ListRecentNewestFirst", func(t *testing.T) {
		clicks, err := repo.ListRecent(ctx, models.ClickFilter{}, 0, 0)
		require.NoError(t, err)
		require.Len(t, clicks, 2)
		assert.Equal(t, second.ID, clicks[0].ID)
		assert.Equal(t, first.ID, clicks[1].ID)
	})

	t.Run("FilterByCampaign", func(t *testing.T) {
		clicks, err := repo.ListRecent(ctx, models.ClickFilter{CampaignID: &campaign.ID}, 0, 0)
		require.NoError(t, err)
		assert.Len(t, clicks, 2)

		other := uint(99999)
		clicks, err = repo.ListRecent(ctx, models.ClickFilter{CampaignID: &other}, 0, 0)
		require.NoError(t, err)
		assert.Empty(t, clicks)
	})

	t.Run("Pagination", func(t *testing.T) {
		clicks, err := repo.ListRecent(ctx, models.ClickFilter{}, 1, 1)
		require.NoError(t, err)
		require.Len(t, clicks, 1)
		assert.Equal(t, first.ID, clicks[0].ID)
	})

	t.Run("Count", func(t *testing.T) {
		count, err := repo.Count(ctx, models.ClickFilter{CampaignID: &campaign.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}

func TestOperatorSessionRepository(t *testing.T) {
	testDB, fixtures := withTestDB(t)
	repo := repository.NewOperatorSessionRepository(testDB.DB)
	ctx := testingutil.CreateTestContext()

	t.Run("BySessionToken", func(t *testing.T) {
		session, err := fixtures.CreateTestSession("admin")
		require.NoError(t, err)

		loaded, err := repo.BySessionToken(ctx, session.SessionToken)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, session.ID, loaded.ID)
		assert.Equal(t, "admin", loaded.Username)

		missing, err := repo.BySessionToken(ctx, "unknown-token")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("UpdateLastAccessed", func(t *testing.T) {
		session, err := fixtures.CreateTestSession("admin")
		require.NoError(t, err)

		require.NoError(t, repo.UpdateLastAccessed(ctx, session.ID))

		loaded, err := repo.ByID(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, loaded.LastAccessedAt.After(session.LastAccessedAt) ||
			loaded.LastAccessedAt.Equal(session.LastAccessedAt))
	})

	t.Run("DeactivateByToken", func(t *testing.T) {
		session, err := fixtures.CreateTestSession("admin")
		require.NoError(t, err)

		require.NoError(t, repo.DeactivateByToken(ctx, session.SessionToken))

		loaded, err := repo.BySessionToken(ctx, session.SessionToken)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.False(t, loaded.IsValid())
	})

	t.Run("DeleteExpired", func(t *testing.T) {
		expired, err := fixtures.CreateExpiredSession("admin")
		require.NoError(t, err)
		active, err := fixtures.CreateTestSession("admin")
		require.NoError(t, err)

		removed, err := repo.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, removed, int64(1))

		gone, err := repo.BySessionToken(ctx, expired.SessionToken)
		require.NoError(t, err)
		assert.Nil(t, gone)

		kept, err := repo.BySessionToken(ctx, active.SessionToken)
		require.NoError(t, err)
		assert.NotNil(t, kept)
	})
}

func uniqueTrackingURL(name string, pos int) string {
	return fmt.Sprintf("https://track.example.com/r/%s_T%d_L1", name, pos)
}
