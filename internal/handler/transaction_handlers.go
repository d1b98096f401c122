package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/opskpi/tattrack/internal/config"
	"github.com/opskpi/tattrack/internal/domain"
	"github.com/opskpi/tattrack/internal/handler/dto"
	"github.com/opskpi/tattrack/internal/middleware"
	"github.com/opskpi/tattrack/internal/repository"
	"github.com/opskpi/tattrack/internal/service"
)

// handleListTransactions lists workspace transactions with filters.
// @Summary List transactions
// @Description Lists workspace transactions, newest first, with optional filters and pagination
// @Tags transactions
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Param name query string false "Agent name (exact, case-insensitive)"
// @Param date query string false "Calendar date (YYYY-MM-DD)"
// @Param from query string false "Range start (YYYY-MM-DD, inclusive)"
// @Param to query string false "Range end (YYYY-MM-DD, inclusive)"
// @Param month query string false "Month name, e.g. January"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 200)"
// @Success 200 {object} dto.TransactionsListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /transactions [get]
func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspace, err := middleware.GetWorkspaceFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusBadRequest, "WORKSPACE_REQUIRED", "workspace email required")
		return
	}

	q := r.URL.Query()
	filters := repository.TxListFilters{
		WorkspaceEmail: workspace,
		AgentName:      q.Get("name"),
		Date:           q.Get("date"),
		DateFrom:       q.Get("from"),
		DateTo:         q.Get("to"),
		Month:          q.Get("month"),
	}

	page := 1
	if v := q.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 1 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "page must be a positive integer")
			return
		}
	}
	limit := config.DefaultPageLimit
	if v := q.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 1 {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return
		}
	}

	records, total, err := h.txRepo.List(ctx, filters, page, limit)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	resp := dto.TransactionsListResponse{
		Records:    make([]dto.TransactionResponse, len(records)),
		Total:      total,
		Page:       page,
		TotalPages: (total + limit - 1) / limit,
		Limit:      limit,
	}
	for i := range records {
		resp.Records[i] = dto.ToTransactionResponse(&records[i])
	}

	respondJSON(w, http.StatusOK, resp)
}

// handleStartTransaction starts a new timed transaction.
// @Summary Start a transaction
// @Description Opens a new timed transaction; the date defaults to today and status to Pending
// @Tags transactions
// @Accept json
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Param request body dto.StartTransactionRequest true "Start request"
// @Success 201 {object} dto.TransactionResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /transactions [post]
func (h *Handler) handleStartTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspace, err := middleware.GetWorkspaceFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusBadRequest, "WORKSPACE_REQUIRED", "workspace email required")
		return
	}

	var req dto.StartTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	tx, err := h.txService.Start(ctx, service.StartParams{
		WorkspaceEmail: workspace,
		AgentName:      req.AgentName,
		TxID:           req.TxID,
		DocType:        req.DocType,
		StartTime:      req.StartTime,
		Status:         domain.TxStatus(req.Status),
		Notes:          req.Notes,
		Date:           req.Date,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTransactionResponse(tx))
}

// handleEndTransaction ends an open transaction.
// @Summary End a transaction
// @Description Closes an open transaction and computes the TAT fields; fails if already ended
// @Tags transactions
// @Accept json
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Param id path string true "Transaction ID"
// @Param request body dto.EndTransactionRequest true "End request"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /transactions/{id}/end [post]
func (h *Handler) handleEndTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.EndTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	tx, err := h.txService.End(ctx, id, service.EndParams{
		EndTime: req.EndTime,
		Status:  domain.TxStatus(req.Status),
		Notes:   req.Notes,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTransactionResponse(tx))
}

// handleUpdateTransaction applies a partial correction to a transaction.
// @Summary Update a transaction
// @Description Applies a partial correction; supplying both start and end time recomputes TAT
// @Tags transactions
// @Accept json
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Param id path string true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Update request"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /transactions/{id} [patch]
func (h *Handler) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := extractID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	var newStatus *domain.TxStatus
	if req.Status != nil {
		s := domain.TxStatus(*req.Status)
		newStatus = &s
	}

	tx, err := h.txService.Update(ctx, id, service.UpdateParams{
		Status:    newStatus,
		Notes:     req.Notes,
		DocType:   req.DocType,
		TxID:      req.TxID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTransactionResponse(tx))
}

// handleDeleteTransaction deletes a transaction.
// @Summary Delete a transaction
// @Description Deletes a transaction unconditionally and irreversibly
// @Tags transactions
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /transactions/{id} [delete]
func (h *Handler) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := extractID(w, r)
	if !ok {
		return
	}

	if err := h.txService.Delete(ctx, id); err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
