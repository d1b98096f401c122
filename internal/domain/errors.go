package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyEnded        = errors.New("transaction already ended")
	ErrMissingField        = errors.New("required field missing")
	ErrInvalidStatus       = errors.New("invalid transaction status")
	ErrInvalidClockTime    = errors.New("invalid clock time, expected HH:MM")

	// Roster errors
	ErrAgentNotFound   = errors.New("agent not found")
	ErrDocTypeNotFound = errors.New("doc type not found")
	ErrDuplicateName   = errors.New("name already exists in this workspace")

	// Scoping errors
	ErrWorkspaceRequired = errors.New("workspace email required")
)
