package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opskpi/tattrack/internal/domain"
)

// DocTypeRepository handles database operations for the document-type catalog.
type DocTypeRepository struct {
	pool *pgxpool.Pool
}

// NewDocTypeRepository creates a new DocTypeRepository.
func NewDocTypeRepository(pool *pgxpool.Pool) *DocTypeRepository {
	return &DocTypeRepository{pool: pool}
}

// ListByWorkspace retrieves all doc types for a workspace, oldest first.
func (r *DocTypeRepository) ListByWorkspace(ctx context.Context, workspaceEmail string) ([]domain.DocType, error) {
	query, args, err := psql.
		Select("id", "workspace_email", "name", "created_at").
		From("doc_types").
		Where(sq.Eq{"workspace_email": workspaceEmail}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByWorkspace query for doc types: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query doc types: %w", err)
	}
	defer rows.Close()

	var docTypes []domain.DocType
	for rows.Next() {
		var dt domain.DocType
		if err := rows.Scan(&dt.ID, &dt.WorkspaceEmail, &dt.Name, &dt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan doc type: %w", err)
		}
		docTypes = append(docTypes, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doc type rows: %w", err)
	}

	return docTypes, nil
}

// Create inserts a new doc type. Returns ErrDuplicateName if the name is
// already taken in the workspace.
func (r *DocTypeRepository) Create(ctx context.Context, dt *domain.DocType) error {
	query, args, err := psql.
		Insert("doc_types").
		Columns("workspace_email", "name").
		Values(dt.WorkspaceEmail, dt.Name).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for doc type: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&dt.ID, &dt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: doc type %q", domain.ErrDuplicateName, dt.Name)
		}
		return fmt.Errorf("create doc type: %w", err)
	}

	return nil
}

// Delete removes a doc type by ID. Transactions referencing the name stay
// valid; the catalog and transaction history are decoupled.
func (r *DocTypeRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.
		Delete("doc_types").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for doc type %s: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete doc type: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrDocTypeNotFound
	}

	return nil
}
