package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amirphl/Jorogumo/config"
	"github.com/amirphl/Jorogumo/utils"
)

// GeoLocation is the resolved location of a visitor address. Fields fall back
// to "N/A" instead of being empty so click rows never carry partial data.
type GeoLocation struct {
	City     string `json:"city"`
	Region   string `json:"region"`
	Country  string `json:"country"`
	Org      string `json:"org"`
	MapsLink string `json:"maps_link"`
}

// GeoService resolves an IP address to a coarse location. Locate never
// returns an error: lookups that fail for any reason yield the N/A location
// so click recording is never blocked on the upstream provider.
type GeoService interface {
	Locate(ctx context.Context, ip string) GeoLocation
}

// GeoServiceImpl implements GeoService against ipinfo.io
type GeoServiceImpl struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// privatePrefixes short-circuit the lookup: these addresses can never
// resolve to a public location
var privatePrefixes = []string{"127.0.0.1", "localhost", "192.168.", "10.", "172.16."}

// NewGeoService creates a new geolocation service instance
func NewGeoService(cfg *config.GeoConfig) GeoService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GeoServiceImpl{
		BaseURL:    "https://ipinfo.io",
		Token:      cfg.IPInfoToken,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// UnknownLocation returns the N/A fallback location
func UnknownLocation() GeoLocation {
	return GeoLocation{
		City:     utils.GeoUnknown,
		Region:   utils.GeoUnknown,
		Country:  utils.GeoUnknown,
		Org:      utils.GeoUnknown,
		MapsLink: utils.GeoUnknown,
	}
}

type ipinfoResponse struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Org     string `json:"org"`
	Loc     string `json:"loc"`
}

func (s *GeoServiceImpl) Locate(ctx context.Context, ip string) GeoLocation {
	loc := UnknownLocation()

	if isPrivateAddress(ip) {
		return loc
	}

	endpoint := strings.TrimRight(s.BaseURL, "/") + "/" + url.PathEscape(ip) + "/json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return loc
	}
	if s.Token != "" {
		q := req.URL.Query()
		q.Set("token", s.Token)
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return loc
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return loc
	}

	var out ipinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return loc
	}

	if out.City != "" {
		loc.City = out.City
	}
	if out.Region != "" {
		loc.Region = out.Region
	}
	if out.Country != "" {
		loc.Country = out.Country
	}
	if out.Org != "" {
		loc.Org = out.Org
	}
	if out.Loc != "" {
		loc.MapsLink = "https://www.google.com/maps?q=" + url.QueryEscape(out.Loc)
	}
	return loc
}

func isPrivateAddress(ip string) bool {
	for _, prefix := range privatePrefixes {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}
	return false
}

// MockGeoService implements GeoService for testing
type MockGeoService struct {
	Locations map[string]GeoLocation
	Lookups   []string
}

// NewMockGeoService creates a new mock geolocation service
func NewMockGeoService() *MockGeoService {
	return &MockGeoService{Locations: make(map[string]GeoLocation)}
}

func (m *MockGeoService) Locate(ctx context.Context, ip string) GeoLocation {
	m.Lookups = append(m.Lookups, ip)
	if loc, ok := m.Locations[ip]; ok {
		return loc
	}
	return UnknownLocation()
}
