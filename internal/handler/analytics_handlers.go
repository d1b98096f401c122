package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/opskpi/tattrack/internal/analytics"
	"github.com/opskpi/tattrack/internal/domain"
	"github.com/opskpi/tattrack/internal/handler/dto"
	"github.com/opskpi/tattrack/internal/middleware"
	"github.com/opskpi/tattrack/internal/report"
	"github.com/opskpi/tattrack/internal/repository"
)

// analyticsFetchLimit caps how many transactions a single report covers.
const analyticsFetchLimit = 5000

// resolveRange applies the default reporting window (the last 30 days) when
// the caller supplies no bounds.
func resolveRange(from, to string) (string, string) {
	now := time.Now()
	if to == "" {
		to = now.Format("2006-01-02")
	}
	if from == "" {
		from = now.AddDate(0, 0, -30).Format("2006-01-02")
	}
	return from, to
}

// fetchForAnalytics loads the roster and the date-range transactions the
// aggregation engine consumes.
func (h *Handler) fetchForAnalytics(ctx context.Context, workspace, from, to string) ([]domain.Agent, []domain.Transaction, error) {
	agents, err := h.agentRepo.ListByWorkspace(ctx, workspace)
	if err != nil {
		return nil, nil, err
	}

	txs, _, err := h.txRepo.List(ctx, repository.TxListFilters{
		WorkspaceEmail: workspace,
		DateFrom:       from,
		DateTo:         to,
	}, 1, analyticsFetchLimit)
	if err != nil {
		return nil, nil, err
	}

	return agents, txs, nil
}

// handleGetAnalytics returns the aggregated KPI views for a date range.
// @Summary Get analytics
// @Description Aggregates workspace transactions into per-agent, daily, doc-type and total KPIs
// @Tags analytics
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Param from query string false "Range start (YYYY-MM-DD, default 30 days ago)"
// @Param to query string false "Range end (YYYY-MM-DD, default today)"
// @Success 200 {object} dto.AnalyticsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /analytics [get]
func (h *Handler) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspace, err := middleware.GetWorkspaceFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusBadRequest, "WORKSPACE_REQUIRED", "workspace email required")
		return
	}

	from, to := resolveRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))

	agents, txs, err := h.fetchForAnalytics(ctx, workspace, from, to)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	rep := analytics.Aggregate(agents, txs)

	respondJSON(w, http.StatusOK, dto.ToAnalyticsResponse(rep, from, to))
}

// handleGetReport returns the assembled export tables for a date range.
// @Summary Get export report
// @Description Packages the aggregated KPIs into named tables for export renderers
// @Tags analytics
// @Produce json
// @Param X-Workspace-Email header string true "Workspace email"
// @Param from query string false "Range start (YYYY-MM-DD, default 30 days ago)"
// @Param to query string false "Range end (YYYY-MM-DD, default today)"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /analytics/report [get]
func (h *Handler) handleGetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	workspace, err := middleware.GetWorkspaceFromContext(ctx)
	if err != nil {
		respondError(w, http.StatusBadRequest, "WORKSPACE_REQUIRED", "workspace email required")
		return
	}

	from, to := resolveRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))

	agents, txs, err := h.fetchForAnalytics(ctx, workspace, from, to)
	if err != nil {
		status, code, message := dto.MapDomainError(err)
		respondError(w, status, code, message)
		return
	}

	rep := analytics.Aggregate(agents, txs)
	period := report.Period{From: from, To: to, WorkspaceEmail: workspace}
	tables := report.Assemble(rep, period, time.Now())

	respondJSON(w, http.StatusOK, dto.ToReportResponse(tables, period.Label()))
}
