// Package businessflow contains the core business logic and use cases for campaign tracking workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Auth-related errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")

	// Campaign-related errors
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrCampaignNameTaken    = errors.New("campaign name already in use")
	ErrCampaignNameRequired = errors.New("campaign name is required")
	ErrCampaignTypeRequired = errors.New("campaign type is required")
	ErrTemplateRequired     = errors.New("at least one template or link is required")
	ErrTrackingURLConflict  = errors.New("tracking url conflict could not be resolved")

	// Tracking-related errors
	ErrLinkNotFound = errors.New("link not found")

	// Trello-related errors
	ErrTrelloNotConfigured = errors.New("trello credentials are not configured")
	ErrBoardNotAllowed     = errors.New("board is not in the configured board list")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 500")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsInvalidCredentials(err error) bool {
	return errors.Is(err, ErrInvalidCredentials)
}

func IsSessionNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}

func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignNameTaken(err error) bool {
	return errors.Is(err, ErrCampaignNameTaken)
}

func IsCampaignNameRequired(err error) bool {
	return errors.Is(err, ErrCampaignNameRequired)
}

func IsCampaignTypeRequired(err error) bool {
	return errors.Is(err, ErrCampaignTypeRequired)
}

func IsTemplateRequired(err error) bool {
	return errors.Is(err, ErrTemplateRequired)
}

func IsTrackingURLConflict(err error) bool {
	return errors.Is(err, ErrTrackingURLConflict)
}

func IsLinkNotFound(err error) bool {
	return errors.Is(err, ErrLinkNotFound)
}

func IsTrelloNotConfigured(err error) bool {
	return errors.Is(err, ErrTrelloNotConfigured)
}

func IsBoardNotAllowed(err error) bool {
	return errors.Is(err, ErrBoardNotAllowed)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}
