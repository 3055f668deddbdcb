package handlers

import (
	"context"
	"log"
	"time"

	businessflow "github.com/amirphl/Jorogumo/business_flow"
	"github.com/gofiber/fiber/v3"
)

// TrackingHandlerInterface defines the contract for the public tracking redirect
type TrackingHandlerInterface interface {
	Resolve(c fiber.Ctx) error
}

// TrackingHandler serves the public tracking endpoint
type TrackingHandler struct {
	trackingFlow businessflow.TrackingFlow
	pathPrefix   string
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(trackingFlow businessflow.TrackingFlow, pathPrefix string) TrackingHandlerInterface {
	return &TrackingHandler{
		trackingFlow: trackingFlow,
		pathPrefix:   pathPrefix,
	}
}

// Resolve logs the click and redirects to the destination
// @Summary Resolve Tracking Link
// @Tags Tracking
// @Produce json
// @Param slug path string true "Tracking slug"
// @Success 302 {string} string "Redirect"
// @Failure 404 {object} any
// @Failure 500 {object} any
// @Router /r/{slug} [get]
func (h *TrackingHandler) Resolve(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return c.Status(fiber.StatusBadRequest).SendString("invalid tracking link")
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	metadata.SetReferer(c.Get("Referer"))
	metadata.SetRequestID(c.Get("X-Request-ID"))

	destination, err := h.trackingFlow.Resolve(h.createRequestContext(c, "/"+h.pathPrefix+"/"+slug), slug, metadata)
	if err != nil {
		if businessflow.IsLinkNotFound(err) {
			return c.Status(fiber.StatusNotFound).SendString("not found")
		}
		log.Println("Tracking resolution failed", err)
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}

	return c.Redirect().Status(fiber.StatusFound).To(destination)
}

func (h *TrackingHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}
