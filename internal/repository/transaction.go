package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opskpi/tattrack/internal/domain"
)

// txColumns is the shared list of columns for transaction queries.
var txColumns = []string{
	"id", "workspace_email", "agent_name", "month", "date", "tx_id",
	"doc_type", "start_time", "end_time", "tat_minutes", "tat_decimal",
	"tat_formatted", "status", "notes", "created_at", "updated_at",
}

// TransactionRepository handles database operations for transactions.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// scanTransaction scans a single row into a Transaction struct.
func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	err := row.Scan(
		&tx.ID,
		&tx.WorkspaceEmail,
		&tx.AgentName,
		&tx.Month,
		&tx.Date,
		&tx.TxID,
		&tx.DocType,
		&tx.StartTime,
		&tx.EndTime,
		&tx.TATMinutes,
		&tx.TATDecimal,
		&tx.TATFormatted,
		&tx.Status,
		&tx.Notes,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return &tx, nil
}

// scanTransactions scans multiple rows into a slice of Transaction structs.
func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return txs, nil
}

// Create inserts a new transaction. ID, CreatedAt and UpdatedAt are
// populated from the database. There is deliberately no uniqueness check on
// tx_id: the external reference may repeat.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	query, args, err := psql.
		Insert("transactions").
		Columns(
			"workspace_email", "agent_name", "month", "date", "tx_id",
			"doc_type", "start_time", "end_time", "tat_minutes", "tat_decimal",
			"tat_formatted", "status", "notes",
		).
		Values(
			tx.WorkspaceEmail,
			tx.AgentName,
			tx.Month,
			tx.Date,
			tx.TxID,
			tx.DocType,
			tx.StartTime,
			tx.EndTime,
			tx.TATMinutes,
			tx.TATDecimal,
			tx.TATFormatted,
			tx.Status,
			tx.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for transaction: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query, args, err := psql.
		Select(txColumns...).
		From("transactions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for transaction: %w", err)
	}

	return scanTransaction(r.pool.QueryRow(ctx, query, args...))
}

// Close persists the end of a transaction. The update is conditional on the
// record still being open, so concurrent closes of the same transaction are
// serialized by the database: the loser sees zero rows and gets
// ErrAlreadyEnded.
func (r *TransactionRepository) Close(ctx context.Context, tx *domain.Transaction) error {
	query, args, err := psql.
		Update("transactions").
		Set("end_time", tx.EndTime).
		Set("tat_minutes", tx.TATMinutes).
		Set("tat_decimal", tx.TATDecimal).
		Set("tat_formatted", tx.TATFormatted).
		Set("status", tx.Status).
		Set("notes", tx.Notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": tx.ID}).
		Where("end_time IS NULL").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Close query for transaction %s: %w", tx.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("close transaction: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyEnded
	}

	return nil
}

// Save persists all mutable fields of a transaction.
func (r *TransactionRepository) Save(ctx context.Context, tx *domain.Transaction) error {
	query, args, err := psql.
		Update("transactions").
		Set("agent_name", tx.AgentName).
		Set("month", tx.Month).
		Set("date", tx.Date).
		Set("tx_id", tx.TxID).
		Set("doc_type", tx.DocType).
		Set("start_time", tx.StartTime).
		Set("end_time", tx.EndTime).
		Set("tat_minutes", tx.TATMinutes).
		Set("tat_decimal", tx.TATDecimal).
		Set("tat_formatted", tx.TATFormatted).
		Set("status", tx.Status).
		Set("notes", tx.Notes).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": tx.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Save query for transaction %s: %w", tx.ID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save transaction: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

// Delete removes a transaction by ID. Unconditional and irreversible.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.
		Delete("transactions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for transaction %s: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}
