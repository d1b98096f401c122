package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/opskpi/tattrack/docs" // Import generated docs
	"github.com/opskpi/tattrack/internal/handler/dto"
	"github.com/opskpi/tattrack/internal/middleware"
	"github.com/opskpi/tattrack/internal/repository"
	"github.com/opskpi/tattrack/internal/service"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pool        *pgxpool.Pool
	txService   *service.TransactionService
	txRepo      *repository.TransactionRepository
	agentRepo   *repository.AgentRepository
	docTypeRepo *repository.DocTypeRepository
	workspace   *middleware.WorkspaceScope
}

// New creates a new Handler instance with all dependencies.
func New(pool *pgxpool.Pool) *Handler {
	txRepo := repository.NewTransactionRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	docTypeRepo := repository.NewDocTypeRepository(pool)

	txService := service.NewTransactionService(txRepo, service.SystemClock{})

	return &Handler{
		pool:        pool,
		txService:   txService,
		txRepo:      txRepo,
		agentRepo:   agentRepo,
		docTypeRepo: docTypeRepo,
		workspace:   middleware.NewWorkspaceScope(),
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("GET /healthz", h.handleHealthz)

	// Swagger UI
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler())

	// API v1 routes, workspace-scoped
	scoped := func(fn http.HandlerFunc) http.Handler {
		return h.workspace.Require(fn)
	}

	mux.Handle("GET /api/v1/agents", scoped(h.handleListAgents))
	mux.Handle("POST /api/v1/agents", scoped(h.handleCreateAgent))
	mux.Handle("DELETE /api/v1/agents/{id}", scoped(h.handleDeleteAgent))

	mux.Handle("GET /api/v1/doctypes", scoped(h.handleListDocTypes))
	mux.Handle("POST /api/v1/doctypes", scoped(h.handleCreateDocType))
	mux.Handle("DELETE /api/v1/doctypes/{id}", scoped(h.handleDeleteDocType))

	mux.Handle("GET /api/v1/transactions", scoped(h.handleListTransactions))
	mux.Handle("POST /api/v1/transactions", scoped(h.handleStartTransaction))
	mux.Handle("POST /api/v1/transactions/{id}/end", scoped(h.handleEndTransaction))
	mux.Handle("PATCH /api/v1/transactions/{id}", scoped(h.handleUpdateTransaction))
	mux.Handle("DELETE /api/v1/transactions/{id}", scoped(h.handleDeleteTransaction))

	mux.Handle("GET /api/v1/analytics", scoped(h.handleGetAnalytics))
	mux.Handle("GET /api/v1/analytics/report", scoped(h.handleGetReport))
}

// handleHealthz returns 200 OK if the database is reachable.
func (h *Handler) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.pool.Ping(ctx); err != nil {
		slog.Error("database health check failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Ping checks if the database is reachable (used for testing).
func (h *Handler) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondError writes a standard error response.
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, dto.NewErrorResponse(code, message))
}

// extractID extracts and validates a UUID path parameter.
// Returns (id, true) if valid, ("", false) if invalid (error already sent to client).
func extractID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id is required")
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "id must be a valid UUID")
		return "", false
	}

	return id, true
}
