package businessflow

import (
	"context"
	"errors"

	"github.com/amirphl/Jorogumo/models"
)

// In-memory repository fakes for flow unit tests. Only the methods a flow
// actually calls carry behavior; the rest return zero values.

type fakeSessionRepo struct {
	sessions    map[string]*models.OperatorSession
	saveErr     error
	lastTouched uint
	nextID      uint
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.OperatorSession)}
}

func (f *fakeSessionRepo) ByID(ctx context.Context, id uint) (*models.OperatorSession, error) {
	for _, s := range f.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (f *fakeSessionRepo) ByFilter(ctx context.Context, filter models.OperatorSessionFilter, orderBy string, limit, offset int) ([]*models.OperatorSession, error) {
	var out []*models.OperatorSession
	for _, s := range f.sessions {
		if filter.SessionToken != nil && s.SessionToken != *filter.SessionToken {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSessionRepo) Save(ctx context.Context, entity *models.OperatorSession) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.nextID++
	entity.ID = f.nextID
	f.sessions[entity.SessionToken] = entity
	return nil
}

func (f *fakeSessionRepo) SaveBatch(ctx context.Context, entities []*models.OperatorSession) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSessionRepo) Count(ctx context.Context, filter models.OperatorSessionFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (f *fakeSessionRepo) Exists(ctx context.Context, filter models.OperatorSessionFilter) (bool, error) {
	c, _ := f.Count(ctx, filter)
	return c > 0, nil
}

func (f *fakeSessionRepo) BySessionToken(ctx context.Context, token string) (*models.OperatorSession, error) {
	return f.sessions[token], nil
}

func (f *fakeSessionRepo) UpdateLastAccessed(ctx context.Context, sessionID uint) error {
	f.lastTouched = sessionID
	return nil
}

func (f *fakeSessionRepo) DeactivateByToken(ctx context.Context, token string) error {
	if s, ok := f.sessions[token]; ok {
		inactive := false
		s.IsActive = &inactive
	}
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	var n int64
	for token, s := range f.sessions {
		if s.IsExpired() {
			delete(f.sessions, token)
			n++
		}
	}
	return n, nil
}

type fakeLinkRepo struct {
	byTrackingURL map[string]*models.Link
	lookupErr     error
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{byTrackingURL: make(map[string]*models.Link)}
}

func (f *fakeLinkRepo) ByID(ctx context.Context, id uint) (*models.Link, error) { return nil, nil }

func (f *fakeLinkRepo) ByFilter(ctx context.Context, filter models.LinkFilter, orderBy string, limit, offset int) ([]*models.Link, error) {
	return nil, nil
}

func (f *fakeLinkRepo) Save(ctx context.Context, entity *models.Link) error {
	f.byTrackingURL[entity.TrackingURL] = entity
	return nil
}

func (f *fakeLinkRepo) SaveBatch(ctx context.Context, entities []*models.Link) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeLinkRepo) Count(ctx context.Context, filter models.LinkFilter) (int64, error) {
	return 0, nil
}

func (f *fakeLinkRepo) Exists(ctx context.Context, filter models.LinkFilter) (bool, error) {
	if filter.TrackingURL != nil {
		_, ok := f.byTrackingURL[*filter.TrackingURL]
		return ok, nil
	}
	return false, nil
}

func (f *fakeLinkRepo) ByTrackingURL(ctx context.Context, trackingURL string) (*models.Link, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.byTrackingURL[trackingURL], nil
}

func (f *fakeLinkRepo) ListByCampaign(ctx context.Context, campaignID uint) ([]*models.Link, error) {
	var out []*models.Link
	for _, l := range f.byTrackingURL {
		if l.CampaignID == campaignID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLinkRepo) DeleteByCampaign(ctx context.Context, campaignID uint) error {
	for url, l := range f.byTrackingURL {
		if l.CampaignID == campaignID {
			delete(f.byTrackingURL, url)
		}
	}
	return nil
}

type fakeCampaignRepo struct {
	campaigns map[uint]*models.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: make(map[uint]*models.Campaign)}
}

func (f *fakeCampaignRepo) ByID(ctx context.Context, id uint) (*models.Campaign, error) {
	return f.campaigns[id], nil
}

func (f *fakeCampaignRepo) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	var out []*models.Campaign
	for _, c := range f.campaigns {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCampaignRepo) Save(ctx context.Context, entity *models.Campaign) error {
	if entity.ID == 0 {
		entity.ID = uint(len(f.campaigns) + 1)
	}
	f.campaigns[entity.ID] = entity
	return nil
}

func (f *fakeCampaignRepo) SaveBatch(ctx context.Context, entities []*models.Campaign) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeCampaignRepo) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	return int64(len(f.campaigns)), nil
}

func (f *fakeCampaignRepo) Exists(ctx context.Context, filter models.CampaignFilter) (bool, error) {
	return len(f.campaigns) > 0, nil
}

func (f *fakeCampaignRepo) ByIDWithChildren(ctx context.Context, id uint) (*models.Campaign, error) {
	return f.campaigns[id], nil
}

func (f *fakeCampaignRepo) ListAll(ctx context.Context) ([]*models.Campaign, error) {
	return f.ByFilter(ctx, models.CampaignFilter{}, "", 0, 0)
}

func (f *fakeCampaignRepo) Update(ctx context.Context, campaign *models.Campaign) error {
	if _, ok := f.campaigns[campaign.ID]; !ok {
		return errors.New("campaign not found")
	}
	f.campaigns[campaign.ID] = campaign
	return nil
}

func (f *fakeCampaignRepo) DeleteByID(ctx context.Context, id uint) error {
	delete(f.campaigns, id)
	return nil
}

type fakeClickRepo struct {
	clicks  []*models.Click
	saveErr error
}

func newFakeClickRepo() *fakeClickRepo { return &fakeClickRepo{} }

func (f *fakeClickRepo) ByID(ctx context.Context, id uint) (*models.Click, error) { return nil, nil }

func (f *fakeClickRepo) ByFilter(ctx context.Context, filter models.ClickFilter, orderBy string, limit, offset int) ([]*models.Click, error) {
	var out []*models.Click
	for _, c := range f.clicks {
		if filter.CampaignID != nil && c.CampaignID != *filter.CampaignID {
			continue
		}
		out = append(out, c)
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeClickRepo) Save(ctx context.Context, entity *models.Click) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	entity.ID = uint(len(f.clicks) + 1)
	f.clicks = append(f.clicks, entity)
	return nil
}

func (f *fakeClickRepo) SaveBatch(ctx context.Context, entities []*models.Click) error {
	for _, e := range entities {
		if err := f.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeClickRepo) Count(ctx context.Context, filter models.ClickFilter) (int64, error) {
	rows, _ := f.ByFilter(ctx, filter, "", 0, 0)
	return int64(len(rows)), nil
}

func (f *fakeClickRepo) Exists(ctx context.Context, filter models.ClickFilter) (bool, error) {
	c, _ := f.Count(ctx, filter)
	return c > 0, nil
}

func (f *fakeClickRepo) ListRecent(ctx context.Context, filter models.ClickFilter, limit, offset int) ([]*models.Click, error) {
	return f.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}
