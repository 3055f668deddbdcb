package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirphl/Jorogumo/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTrelloService(baseURL string, boardIDs ...string) *TrelloServiceImpl {
	return &TrelloServiceImpl{
		BaseURL:    baseURL,
		APIKey:     "k",
		Token:      "t",
		BoardIDs:   boardIDs,
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func TestTrelloService_GetBoard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/boards/abc123", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		assert.Equal(t, "t", r.URL.Query().Get("token"))
		_ = json.NewEncoder(w).Encode(TrelloBoard{ID: "abc123", Name: "Campaigns", URL: "https://trello.com/b/abc123"})
	}))
	defer server.Close()

	svc := newTestTrelloService(server.URL)
	board, err := svc.GetBoard(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Campaigns", board.Name)
}

func TestTrelloService_GetBoard_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := newTestTrelloService(server.URL)
	_, err := svc.GetBoard(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestTrelloService_GetBoardLists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/boards/abc123/lists", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]TrelloList{
			{ID: "l1", Name: "Backlog"},
			{ID: "l2", Name: "Running", Closed: false},
		})
	}))
	defer server.Close()

	svc := newTestTrelloService(server.URL)
	lists, err := svc.GetBoardLists(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "Backlog", lists[0].Name)
}

func TestTrelloService_ListBoards(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/boards/"):]
		_ = json.NewEncoder(w).Encode(TrelloBoard{ID: id, Name: "Board " + id})
	}))
	defer server.Close()

	svc := newTestTrelloService(server.URL, "b1", "b2")
	boards, err := svc.ListBoards(context.Background())
	require.NoError(t, err)
	require.Len(t, boards, 2)
	assert.Equal(t, "b1", boards[0].ID)
	assert.Equal(t, "b2", boards[1].ID)
}

func TestNewTrelloService_Defaults(t *testing.T) {
	svc := NewTrelloService(&config.TrelloConfig{APIKey: "k", Token: "t"})
	impl, ok := svc.(*TrelloServiceImpl)
	require.True(t, ok)
	assert.Equal(t, "https://api.trello.com/1", impl.BaseURL)
	assert.Equal(t, 10*time.Second, impl.HTTPClient.Timeout)
}
