package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/opskpi/tattrack/internal/domain"
)

// TxListFilters holds all supported filters for transaction listing.
// WorkspaceEmail is mandatory; every query is workspace-scoped.
type TxListFilters struct {
	WorkspaceEmail string
	AgentName      string // Optional: exact name, case-insensitive
	Date           string // Optional: single calendar date
	DateFrom       string // Optional: inclusive range start
	DateTo         string // Optional: inclusive range end
	Month          string // Optional: month name, e.g. "January"
}

// applyTxFilters adds the filter conditions shared by the list and count
// queries.
func applyTxFilters(qb sq.SelectBuilder, filters TxListFilters) sq.SelectBuilder {
	qb = qb.Where(sq.Eq{"workspace_email": filters.WorkspaceEmail})

	if filters.AgentName != "" {
		qb = qb.Where("LOWER(agent_name) = LOWER(?)", filters.AgentName)
	}
	if filters.Date != "" {
		qb = qb.Where(sq.Eq{"date": filters.Date})
	}
	if filters.Month != "" {
		qb = qb.Where(sq.Eq{"month": filters.Month})
	}
	if filters.DateFrom != "" {
		qb = qb.Where(sq.GtOrEq{"date": filters.DateFrom})
	}
	if filters.DateTo != "" {
		qb = qb.Where(sq.LtOrEq{"date": filters.DateTo})
	}

	return qb
}

// List retrieves transactions with filters and pagination, newest first
// (date descending, then start time descending). Returns the page of
// records and the total count across all pages.
func (r *TransactionRepository) List(
	ctx context.Context,
	filters TxListFilters,
	page, limit int,
) ([]domain.Transaction, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	qb := applyTxFilters(psql.Select(txColumns...).From("transactions"), filters).
		OrderBy("date DESC", "start_time DESC").
		Limit(uint64(limit)).
		Offset(uint64((page - 1) * limit))

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query transactions: %w", err)
	}

	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := applyTxFilters(
		psql.Select("COUNT(*)").From("transactions"), filters).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	return txs, total, nil
}
