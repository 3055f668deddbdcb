package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amirphl/Jorogumo/config"
)

// TrelloBoard is the subset of the Trello board payload the dashboard shows
type TrelloBoard struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Desc string `json:"desc,omitempty"`
}

// TrelloList is a list (column) on a Trello board
type TrelloList struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

// TrelloService reads the boards the operator follows campaign work on
type TrelloService interface {
	GetBoard(ctx context.Context, boardID string) (*TrelloBoard, error)
	GetBoardLists(ctx context.Context, boardID string) ([]TrelloList, error)
	ListBoards(ctx context.Context) ([]TrelloBoard, error)
}

// TrelloServiceImpl implements TrelloService against the Trello REST API
type TrelloServiceImpl struct {
	BaseURL    string
	APIKey     string
	Token      string
	BoardIDs   []string
	HTTPClient *http.Client
}

// NewTrelloService creates a new Trello service instance
func NewTrelloService(cfg *config.TrelloConfig) TrelloService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TrelloServiceImpl{
		BaseURL:    "https://api.trello.com/1",
		APIKey:     cfg.APIKey,
		Token:      cfg.Token,
		BoardIDs:   cfg.BoardIDs,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (s *TrelloServiceImpl) get(ctx context.Context, path string, out any) error {
	endpoint := strings.TrimRight(s.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	q := req.URL.Query()
	q.Set("key", s.APIKey)
	q.Set("token", s.Token)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("trello request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trello returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode trello response: %w", err)
	}
	return nil
}

func (s *TrelloServiceImpl) GetBoard(ctx context.Context, boardID string) (*TrelloBoard, error) {
	var board TrelloBoard
	if err := s.get(ctx, "/boards/"+url.PathEscape(boardID), &board); err != nil {
		return nil, err
	}
	return &board, nil
}

func (s *TrelloServiceImpl) GetBoardLists(ctx context.Context, boardID string) ([]TrelloList, error) {
	var lists []TrelloList
	if err := s.get(ctx, "/boards/"+url.PathEscape(boardID)+"/lists", &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

// ListBoards fetches every configured board
func (s *TrelloServiceImpl) ListBoards(ctx context.Context) ([]TrelloBoard, error) {
	boards := make([]TrelloBoard, 0, len(s.BoardIDs))
	for _, id := range s.BoardIDs {
		board, err := s.GetBoard(ctx, id)
		if err != nil {
			return nil, err
		}
		boards = append(boards, *board)
	}
	return boards, nil
}

// MockTrelloService implements TrelloService for testing
type MockTrelloService struct {
	Boards map[string]*TrelloBoard
	Lists  map[string][]TrelloList
	Err    error
}

// NewMockTrelloService creates a new mock Trello service
func NewMockTrelloService() *MockTrelloService {
	return &MockTrelloService{
		Boards: make(map[string]*TrelloBoard),
		Lists:  make(map[string][]TrelloList),
	}
}

func (m *MockTrelloService) GetBoard(ctx context.Context, boardID string) (*TrelloBoard, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	board, ok := m.Boards[boardID]
	if !ok {
		return nil, fmt.Errorf("trello returned status 404 for /boards/%s", boardID)
	}
	return board, nil
}

func (m *MockTrelloService) GetBoardLists(ctx context.Context, boardID string) ([]TrelloList, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Lists[boardID], nil
}

func (m *MockTrelloService) ListBoards(ctx context.Context) ([]TrelloBoard, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	boards := make([]TrelloBoard, 0, len(m.Boards))
	for _, b := range m.Boards {
		boards = append(boards, *b)
	}
	return boards, nil
}
