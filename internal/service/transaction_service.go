package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/opskpi/tattrack/internal/domain"
	"github.com/opskpi/tattrack/internal/tat"
)

// TransactionService coordinates the transaction lifecycle:
// start (open) -> end (closed), with in-place correction on either state.
type TransactionService struct {
	store TransactionStore
	clock Clock
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(store TransactionStore, clock Clock) *TransactionService {
	return &TransactionService{
		store: store,
		clock: clock,
	}
}

// StartParams holds the input for starting a transaction.
type StartParams struct {
	WorkspaceEmail string
	AgentName      string
	TxID           string
	DocType        string
	StartTime      string
	Status         domain.TxStatus // optional, defaults to Pending
	Notes          string
	Date           string // optional, defaults to today
}

// EndParams holds the input for ending a transaction.
type EndParams struct {
	EndTime string
	Status  domain.TxStatus // optional, empty keeps the current status
	Notes   *string         // optional, nil keeps the current notes
}

// UpdateParams holds the partial fields for correcting a transaction.
// Nil pointers leave the corresponding field untouched.
type UpdateParams struct {
	Status    *domain.TxStatus
	Notes     *string
	DocType   *string
	TxID      *string
	StartTime *string
	EndTime   *string
}

// requireField returns ErrMissingField naming the blank field, or nil.
func requireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", domain.ErrMissingField, name)
	}
	return nil
}

// Start opens a new transaction. The date defaults to the current calendar
// date and the month is derived from it; status defaults to Pending.
// There is no uniqueness guarantee on the external tx reference: starting
// the same TxID twice creates two records.
func (s *TransactionService) Start(ctx context.Context, params StartParams) (*domain.Transaction, error) {
	required := []struct{ name, value string }{
		{"workspaceEmail", params.WorkspaceEmail},
		{"agentName", params.AgentName},
		{"txId", params.TxID},
		{"typeOfDoc", params.DocType},
		{"startTime", params.StartTime},
	}
	for _, f := range required {
		if err := requireField(f.name, f.value); err != nil {
			return nil, err
		}
	}

	status := params.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	date := params.Date
	if date == "" {
		date = s.clock.Now().Format("2006-01-02")
	}

	tx := &domain.Transaction{
		WorkspaceEmail: strings.ToLower(strings.TrimSpace(params.WorkspaceEmail)),
		AgentName:      strings.TrimSpace(params.AgentName),
		Month:          tat.MonthName(date),
		Date:           date,
		TxID:           strings.TrimSpace(params.TxID),
		DocType:        strings.TrimSpace(params.DocType),
		StartTime:      params.StartTime,
		EndTime:        nil,
		Status:         status,
		Notes:          params.Notes,
	}

	if err := s.store.Create(ctx, tx); err != nil {
		return nil, err
	}

	slog.Info("transaction started",
		"transaction_id", tx.ID,
		"tx_id", tx.TxID,
		"agent_name", tx.AgentName,
		"workspace", tx.WorkspaceEmail,
	)

	return tx, nil
}

// End closes an open transaction: sets the end time, computes all TAT
// fields, and optionally overrides status and notes. Ending an already
// closed transaction fails with ErrAlreadyEnded regardless of the end time
// supplied.
func (s *TransactionService) End(ctx context.Context, id string, params EndParams) (*domain.Transaction, error) {
	if err := requireField("endTime", params.EndTime); err != nil {
		return nil, err
	}
	if params.Status != "" && !params.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, params.Status)
	}

	tx, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tx.IsOpen() {
		return nil, fmt.Errorf("%w: transaction %s", domain.ErrAlreadyEnded, id)
	}

	mins, err := tat.DurationMinutes(tx.StartTime, params.EndTime)
	if err != nil {
		return nil, err
	}

	endTime := params.EndTime
	tx.EndTime = &endTime
	tx.TATMinutes = mins
	tx.TATDecimal = tat.DecimalHours(mins)
	tx.TATFormatted = tat.FormatDuration(mins)
	if params.Status != "" {
		tx.Status = params.Status
	}
	if params.Notes != nil {
		tx.Notes = *params.Notes
	}

	if err := s.store.Close(ctx, tx); err != nil {
		return nil, err
	}

	slog.Info("transaction ended",
		"transaction_id", tx.ID,
		"tx_id", tx.TxID,
		"tat_minutes", tx.TATMinutes,
	)

	return tx, nil
}

// Update applies a partial correction to a transaction. If both a start and
// an end time resolve after applying the changes, all TAT fields are
// recomputed from the new values; this is the only path that changes a
// closed transaction's duration after the fact. Updates that touch neither
// time never alter the TAT fields.
func (s *TransactionService) Update(ctx context.Context, id string, params UpdateParams) (*domain.Transaction, error) {
	tx, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Status != nil {
		if !params.Status.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *params.Status)
		}
		tx.Status = *params.Status
	}
	if params.Notes != nil {
		tx.Notes = *params.Notes
	}
	if params.DocType != nil {
		tx.DocType = *params.DocType
	}
	if params.TxID != nil {
		tx.TxID = *params.TxID
	}

	newStart := tx.StartTime
	if params.StartTime != nil {
		newStart = *params.StartTime
	}
	var newEnd string
	if params.EndTime != nil {
		newEnd = *params.EndTime
	} else if tx.EndTime != nil {
		newEnd = *tx.EndTime
	}

	if newStart != "" && newEnd != "" {
		mins, err := tat.DurationMinutes(newStart, newEnd)
		if err != nil {
			return nil, err
		}
		tx.StartTime = newStart
		tx.EndTime = &newEnd
		tx.TATMinutes = mins
		tx.TATDecimal = tat.DecimalHours(mins)
		tx.TATFormatted = tat.FormatDuration(mins)
	}

	if err := s.store.Save(ctx, tx); err != nil {
		return nil, err
	}

	slog.Info("transaction updated",
		"transaction_id", tx.ID,
		"tx_id", tx.TxID,
	)

	return tx, nil
}

// Delete removes a transaction unconditionally.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	slog.Info("transaction deleted", "transaction_id", id)

	return nil
}
