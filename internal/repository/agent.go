package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opskpi/tattrack/internal/domain"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// isUniqueViolation reports whether the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// AgentRepository handles database operations for the agent roster.
type AgentRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRepository creates a new AgentRepository.
func NewAgentRepository(pool *pgxpool.Pool) *AgentRepository {
	return &AgentRepository{pool: pool}
}

// ListByWorkspace retrieves all agents for a workspace, oldest first.
func (r *AgentRepository) ListByWorkspace(ctx context.Context, workspaceEmail string) ([]domain.Agent, error) {
	query, args, err := psql.
		Select("id", "workspace_email", "name", "created_at").
		From("agents").
		Where(sq.Eq{"workspace_email": workspaceEmail}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByWorkspace query for agents: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query agents: %w", err)
	}
	defer rows.Close()

	var agents []domain.Agent
	for rows.Next() {
		var agent domain.Agent
		if err := rows.Scan(&agent.ID, &agent.WorkspaceEmail, &agent.Name, &agent.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, agent)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate agent rows: %w", err)
	}

	return agents, nil
}

// Create inserts a new agent. Returns ErrDuplicateName if the name is
// already taken in the workspace.
func (r *AgentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	query, args, err := psql.
		Insert("agents").
		Columns("workspace_email", "name").
		Values(agent.WorkspaceEmail, agent.Name).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for agent: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&agent.ID, &agent.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: agent %q", domain.ErrDuplicateName, agent.Name)
		}
		return fmt.Errorf("create agent: %w", err)
	}

	return nil
}

// Delete removes an agent by ID. Historical transactions keep the agent
// name as a denormalized label and are not touched.
func (r *AgentRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.
		Delete("agents").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for agent %s: %w", id, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrAgentNotFound
	}

	return nil
}
