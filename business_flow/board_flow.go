package businessflow

import (
	"context"

	"github.com/amirphl/Jorogumo/app/dto"
	"github.com/amirphl/Jorogumo/app/services"
	"github.com/amirphl/Jorogumo/config"
)

// BoardFlow exposes the Trello boards tied to campaign operations
type BoardFlow interface {
	ListBoards(ctx context.Context) ([]dto.TrelloBoardDTO, error)
	GetBoard(ctx context.Context, boardID string) (*dto.TrelloBoardDetailDTO, error)
	BoardLists(ctx context.Context, boardID string) ([]dto.TrelloListDTO, error)
}

// BoardFlowImpl implements the board flow
type BoardFlowImpl struct {
	trelloSvc services.TrelloService
	cfg       *config.TrelloConfig
}

// NewBoardFlow creates a new board flow instance
func NewBoardFlow(trelloSvc services.TrelloService, cfg *config.TrelloConfig) BoardFlow {
	return &BoardFlowImpl{
		trelloSvc: trelloSvc,
		cfg:       cfg,
	}
}

func (bf *BoardFlowImpl) configured() bool {
	return bf.cfg.APIKey != "" && bf.cfg.Token != ""
}

func (bf *BoardFlowImpl) allowed(boardID string) bool {
	for _, id := range bf.cfg.BoardIDs {
		if id == boardID {
			return true
		}
	}
	return false
}

// ListBoards fetches every configured board
func (bf *BoardFlowImpl) ListBoards(ctx context.Context) ([]dto.TrelloBoardDTO, error) {
	if !bf.configured() {
		return nil, ErrTrelloNotConfigured
	}

	boards, err := bf.trelloSvc.ListBoards(ctx)
	if err != nil {
		return nil, NewBusinessError("TRELLO_FETCH_FAILED", "Failed to fetch boards", err)
	}

	out := make([]dto.TrelloBoardDTO, 0, len(boards))
	for _, board := range boards {
		out = append(out, dto.TrelloBoardDTO{
			ID:   board.ID,
			Name: board.Name,
			URL:  board.URL,
			Desc: board.Desc,
		})
	}
	return out, nil
}

// GetBoard fetches one configured board together with its lists
func (bf *BoardFlowImpl) GetBoard(ctx context.Context, boardID string) (*dto.TrelloBoardDetailDTO, error) {
	if !bf.configured() {
		return nil, ErrTrelloNotConfigured
	}
	if !bf.allowed(boardID) {
		return nil, ErrBoardNotAllowed
	}

	board, err := bf.trelloSvc.GetBoard(ctx, boardID)
	if err != nil {
		return nil, NewBusinessError("TRELLO_FETCH_FAILED", "Failed to fetch board", err)
	}
	lists, err := bf.trelloSvc.GetBoardLists(ctx, boardID)
	if err != nil {
		return nil, NewBusinessError("TRELLO_FETCH_FAILED", "Failed to fetch board lists", err)
	}

	detail := &dto.TrelloBoardDetailDTO{
		Board: dto.TrelloBoardDTO{
			ID:   board.ID,
			Name: board.Name,
			URL:  board.URL,
			Desc: board.Desc,
		},
		Lists: make([]dto.TrelloListDTO, 0, len(lists)),
	}
	for _, list := range lists {
		detail.Lists = append(detail.Lists, dto.TrelloListDTO{
			ID:     list.ID,
			Name:   list.Name,
			Closed: list.Closed,
		})
	}
	return detail, nil
}

// BoardLists fetches just the lists of one configured board. A Trello API
// failure degrades to an empty slice so campaign forms stay usable offline.
func (bf *BoardFlowImpl) BoardLists(ctx context.Context, boardID string) ([]dto.TrelloListDTO, error) {
	if !bf.configured() {
		return nil, ErrTrelloNotConfigured
	}
	if !bf.allowed(boardID) {
		return nil, ErrBoardNotAllowed
	}

	lists, err := bf.trelloSvc.GetBoardLists(ctx, boardID)
	if err != nil {
		return []dto.TrelloListDTO{}, nil
	}

	out := make([]dto.TrelloListDTO, 0, len(lists))
	for _, list := range lists {
		out = append(out, dto.TrelloListDTO{
			ID:     list.ID,
			Name:   list.Name,
			Closed: list.Closed,
		})
	}
	return out, nil
}
