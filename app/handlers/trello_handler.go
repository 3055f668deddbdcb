package handlers

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Jorogumo/app/dto"
	businessflow "github.com/amirphl/Jorogumo/business_flow"
	"github.com/gofiber/fiber/v3"
)

// TrelloHandlerInterface defines the contract for Trello board handlers
type TrelloHandlerInterface interface {
	ListBoards(c fiber.Ctx) error
	GetBoard(c fiber.Ctx) error
	ListBoardLists(c fiber.Ctx) error
}

// TrelloHandler handles Trello board HTTP requests
type TrelloHandler struct {
	boardFlow businessflow.BoardFlow
}

// NewTrelloHandler creates a new Trello handler
func NewTrelloHandler(boardFlow businessflow.BoardFlow) *TrelloHandler {
	return &TrelloHandler{boardFlow: boardFlow}
}

func (h *TrelloHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TrelloHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListBoards returns every configured Trello board
// @Summary List Trello Boards
// @Description List the Trello boards configured for campaign operations
// @Tags Trello
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.TrelloBoardDTO} "Boards listed successfully"
// @Failure 503 {object} dto.APIResponse "Trello not configured"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/trello/boards [get]
func (h *TrelloHandler) ListBoards(c fiber.Ctx) error {
	result, err := h.boardFlow.ListBoards(h.createRequestContext(c, "/api/v1/trello/boards"))
	if err != nil {
		if businessflow.IsTrelloNotConfigured(err) {
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Trello is not configured", "TRELLO_NOT_CONFIGURED", nil)
		}

		log.Println("Trello board listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Board listing failed", "TRELLO_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Boards listed successfully", result)
}

// GetBoard returns one configured board with its lists
// @Summary Get Trello Board
// @Description Fetch a configured Trello board together with its lists
// @Tags Trello
// @Produce json
// @Param id path string true "Board ID"
// @Success 200 {object} dto.APIResponse{data=dto.TrelloBoardDetailDTO} "Board fetched successfully"
// @Failure 403 {object} dto.APIResponse "Board not in the configured list"
// @Failure 503 {object} dto.APIResponse "Trello not configured"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/trello/boards/{id} [get]
func (h *TrelloHandler) GetBoard(c fiber.Ctx) error {
	boardID := c.Params("id")
	if boardID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid board ID", "INVALID_BOARD_ID", nil)
	}

	result, err := h.boardFlow.GetBoard(h.createRequestContext(c, "/api/v1/trello/boards/:id"), boardID)
	if err != nil {
		if businessflow.IsTrelloNotConfigured(err) {
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Trello is not configured", "TRELLO_NOT_CONFIGURED", nil)
		}
		if businessflow.IsBoardNotAllowed(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Board is not configured", "BOARD_NOT_ALLOWED", nil)
		}

		log.Println("Trello board fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Board fetch failed", "TRELLO_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Board fetched successfully", result)
}

// ListBoardLists returns the lists of one configured board
// @Summary List Trello Board Lists
// @Description Fetch the lists of a configured Trello board. Returns an empty array when the Trello API is unreachable.
// @Tags Trello
// @Produce json
// @Param id path string true "Board ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.TrelloListDTO} "Lists fetched successfully"
// @Failure 403 {object} dto.APIResponse "Board not in the configured list"
// @Failure 503 {object} dto.APIResponse "Trello not configured"
// @Router /api/v1/trello/boards/{id}/lists [get]
func (h *TrelloHandler) ListBoardLists(c fiber.Ctx) error {
	boardID := c.Params("id")
	if boardID == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid board ID", "INVALID_BOARD_ID", nil)
	}

	result, err := h.boardFlow.BoardLists(h.createRequestContext(c, "/api/v1/trello/boards/:id/lists"), boardID)
	if err != nil {
		if businessflow.IsTrelloNotConfigured(err) {
			return h.ErrorResponse(c, fiber.StatusServiceUnavailable, "Trello is not configured", "TRELLO_NOT_CONFIGURED", nil)
		}
		if businessflow.IsBoardNotAllowed(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "Board is not configured", "BOARD_NOT_ALLOWED", nil)
		}

		log.Println("Trello list fetch failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List fetch failed", "TRELLO_FETCH_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Lists fetched successfully", result)
}

func (h *TrelloHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 15*time.Second)
}
