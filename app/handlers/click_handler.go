package handlers

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Jorogumo/app/dto"
	businessflow "github.com/amirphl/Jorogumo/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ClickHandlerInterface defines the contract for click reporting handlers
type ClickHandlerInterface interface {
	ListClicks(c fiber.Ctx) error
	ExportClicks(c fiber.Ctx) error
}

// ClickHandler handles click reporting HTTP requests
type ClickHandler struct {
	clickFlow businessflow.ClickFlow
	validator *validator.Validate
}

// NewClickHandler creates a new click handler
func NewClickHandler(clickFlow businessflow.ClickFlow) *ClickHandler {
	return &ClickHandler{
		clickFlow: clickFlow,
		validator: validator.New(),
	}
}

func (h *ClickHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ClickHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListClicks returns recorded clicks, most recent first
// @Summary List Clicks
// @Description List recorded clicks with optional campaign filter, most recent first
// @Tags Clicks
// @Produce json
// @Param campaign_id query int false "Filter by campaign ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListClicksResponse} "Clicks listed successfully"
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/clicks [get]
func (h *ClickHandler) ListClicks(c fiber.Ctx) error {
	var req dto.ListClicksRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.clickFlow.ListClicks(h.createRequestContext(c, "/api/v1/clicks"), &req)
	if err != nil {
		if businessflow.IsInvalidPage(err) || businessflow.IsInvalidPageSize(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid paging parameters", "INVALID_PAGING", nil)
		}

		log.Println("Click listing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Click listing failed", "CLICK_LIST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Clicks listed successfully", result)
}

// ExportClicks streams the matching clicks as an XLSX workbook
// @Summary Export Clicks
// @Description Export recorded clicks as an XLSX workbook
// @Tags Clicks
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param campaign_id query int false "Filter by campaign ID"
// @Success 200 {file} file "XLSX workbook"
// @Failure 400 {object} dto.APIResponse "Invalid query parameters"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/clicks/export [get]
func (h *ClickHandler) ExportClicks(c fiber.Ctx) error {
	var req dto.ListClicksRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	data, filename, err := h.clickFlow.ExportClicks(h.createRequestContext(c, "/api/v1/clicks/export"), &req)
	if err != nil {
		log.Println("Click export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Click export failed", "CLICK_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func (h *ClickHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}
