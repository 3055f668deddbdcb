package handlers

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/Jorogumo/app/dto"
	businessflow "github.com/amirphl/Jorogumo/business_flow"
	"github.com/amirphl/Jorogumo/config"
	"github.com/amirphl/Jorogumo/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AuthHandlerInterface defines the contract for operator auth handlers
type AuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
}

// AuthHandler handles operator authentication HTTP requests
type AuthHandler struct {
	authFlow    businessflow.AuthFlow
	securityCfg *config.SecurityConfig
	validator   *validator.Validate
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authFlow businessflow.AuthFlow, securityCfg *config.SecurityConfig) *AuthHandler {
	return &AuthHandler{
		authFlow:    authFlow,
		securityCfg: securityCfg,
		validator:   validator.New(),
	}
}

func (h *AuthHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AuthHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Login handles the operator login process
// @Summary Operator Login
// @Description Authenticate the operator and issue a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.APIResponse "Validation error or invalid request"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	// Validate request
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.authFlow.Login(h.createRequestContext(c, "/api/v1/auth/login"), &req, metadata)
	if err != nil {
		if businessflow.IsInvalidCredentials(err) {
			return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS", nil)
		}

		log.Println("Login failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", "LOGIN_FAILED", nil)
	}

	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookieName,
		Value:    result.Token,
		Expires:  result.ExpiresAt,
		Secure:   h.securityCfg.SessionCookieSecure,
		HTTPOnly: h.securityCfg.SessionCookieHTTPOnly,
		SameSite: h.securityCfg.SessionCookieSameSite,
		Path:     "/",
	})

	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", result)
}

// Logout handles session termination
// @Summary Operator Logout
// @Description Terminate the current operator session
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.LogoutResponse} "Logout successful"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	token := sessionToken(c)

	if err := h.authFlow.Logout(h.createRequestContext(c, "/api/v1/auth/logout"), token); err != nil {
		log.Println("Logout failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Logout failed", "LOGOUT_FAILED", nil)
	}

	// Expire the cookie
	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		Secure:   h.securityCfg.SessionCookieSecure,
		HTTPOnly: h.securityCfg.SessionCookieHTTPOnly,
		SameSite: h.securityCfg.SessionCookieSameSite,
		Path:     "/",
	})

	return h.SuccessResponse(c, fiber.StatusOK, "Logout successful", dto.LogoutResponse{Message: "Session terminated"})
}

// sessionToken extracts the session token from the cookie or header
func sessionToken(c fiber.Ctx) string {
	if token := c.Cookies(utils.SessionCookieName); token != "" {
		return token
	}
	return c.Get(utils.SessionHeaderName)
}

func (h *AuthHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}

func createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
