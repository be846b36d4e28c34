package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Envelope is the wire shape shared by every endpoint: on success
// {success: true, data: ...}, on failure {success: false, message: ...}.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// RespondData writes the success envelope.
func RespondData(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

// RespondMessage writes a success envelope with a message instead of data.
func RespondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: true, Message: message})
}

// RespondError translates a service error into the error envelope. Business
// failures map to their status codes; anything else is logged and surfaced
// as a generic 500 so storage detail never leaks to the client.
func RespondError(c echo.Context, err error) error {
	var quotaErr *QuotaError
	var validationErr *ValidationError

	switch {
	case errors.As(err, &quotaErr):
		return respondFailure(c, http.StatusForbidden,
			fmt.Sprintf("Plan limit reached (%d %s). Upgrade your plan to add more.", quotaErr.Limit, quotaErr.Resource))
	case errors.As(err, &validationErr):
		return respondFailure(c, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, ErrNotFound):
		return respondFailure(c, http.StatusNotFound, "Not found")
	case errors.Is(err, ErrTenantNotFound):
		return respondFailure(c, http.StatusNotFound, "Tenant not found")
	case errors.Is(err, ErrInvalidCredentials):
		return respondFailure(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrForbidden):
		return respondFailure(c, http.StatusForbidden, "Forbidden")
	case errors.Is(err, ErrSubdomainTaken):
		return respondFailure(c, http.StatusConflict, "Subdomain already exists")
	case errors.Is(err, ErrEmailTaken):
		return respondFailure(c, http.StatusConflict, "User already exists in this workspace")
	case errors.Is(err, ErrAlreadyOnPlan):
		return respondFailure(c, http.StatusBadRequest, "You are already on this plan")
	case errors.Is(err, ErrNoPendingRequest):
		return respondFailure(c, http.StatusBadRequest, "No pending upgrade request for this tenant")
	case errors.Is(err, ErrCannotSelfDelete):
		return respondFailure(c, http.StatusBadRequest, "You cannot remove yourself")
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled service error")
		return respondFailure(c, http.StatusInternalServerError, "Server error")
	}
}

func respondFailure(c echo.Context, status int, message string) error {
	return c.JSON(status, Envelope{Success: false, Message: message})
}

// HTTPErrorHandler keeps framework-raised errors (bad routes, failed binds,
// echo.NewHTTPError from middleware) inside the envelope convention.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Server error"

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(status)
		}
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	if writeErr := respondFailure(c, status, message); writeErr != nil {
		log.Error().Err(writeErr).Msg("failed to write error response")
	}
}
