package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/opskpi/tattrack/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
// Store-origin errors that carry no sentinel fall through to 500 and are
// logged, never swallowed.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Transaction errors
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound, "TRANSACTION_NOT_FOUND", message
	case errors.Is(err, domain.ErrAlreadyEnded):
		return http.StatusConflict, "ALREADY_ENDED", message

	// Roster errors
	case errors.Is(err, domain.ErrAgentNotFound):
		return http.StatusNotFound, "AGENT_NOT_FOUND", message
	case errors.Is(err, domain.ErrDocTypeNotFound):
		return http.StatusNotFound, "DOC_TYPE_NOT_FOUND", message
	case errors.Is(err, domain.ErrDuplicateName):
		return http.StatusConflict, "DUPLICATE_NAME", message

	// Validation errors
	case errors.Is(err, domain.ErrMissingField):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidClockTime):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message

	// Scoping errors
	case errors.Is(err, domain.ErrWorkspaceRequired):
		return http.StatusBadRequest, "WORKSPACE_REQUIRED", message

	// Default: internal server error
	default:
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
