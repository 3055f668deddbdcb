// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"context"
	"time"

	"github.com/amirphl/Jorogumo/app/dto"
	businessflow "github.com/amirphl/Jorogumo/business_flow"
	"github.com/amirphl/Jorogumo/utils"
	"github.com/gofiber/fiber/v3"
)

// SessionMiddleware guards protected endpoints with the operator session.
// Routes are either public or protected; the route table in the router is the
// single place that decides which, so adding an endpoint forces the choice.
type SessionMiddleware struct {
	authFlow businessflow.AuthFlow
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(authFlow businessflow.AuthFlow) *SessionMiddleware {
	return &SessionMiddleware{authFlow: authFlow}
}

// RequireSession validates the session token from the cookie or header and
// rejects the request when it is missing, unknown or expired
func (m *SessionMiddleware) RequireSession() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := c.Cookies(utils.SessionCookieName)
		if token == "" {
			token = c.Get(utils.SessionHeaderName)
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: "Session token is required",
				Error:   dto.ErrorDetail{Code: "MISSING_SESSION_TOKEN"},
			})
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		session, err := m.authFlow.ValidateSession(ctx, token)
		if err != nil {
			var errorCode string
			var message string

			switch {
			case businessflow.IsSessionExpired(err):
				errorCode = "SESSION_EXPIRED"
				message = "Session has expired"
			case businessflow.IsSessionNotFound(err):
				errorCode = "SESSION_INVALID"
				message = "Invalid session token"
			default:
				errorCode = "SESSION_VALIDATION_FAILED"
				message = "Session validation failed"
			}

			return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
				Success: false,
				Message: message,
				Error:   dto.ErrorDetail{Code: errorCode},
			})
		}

		// Store session information in context for downstream handlers
		c.Locals("session_id", session.ID)
		c.Locals("operator_username", session.Username)

		if requestID := c.Get("X-Request-ID"); requestID != "" {
			c.Locals("request_id", requestID)
		}

		return c.Next()
	}
}
