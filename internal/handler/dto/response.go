package dto

import (
	"time"

	"github.com/opskpi/tattrack/internal/analytics"
	"github.com/opskpi/tattrack/internal/domain"
	"github.com/opskpi/tattrack/internal/report"
)

// AgentResponse represents a roster agent.
type AgentResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	WorkspaceEmail string    `json:"workspaceEmail"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AgentsListResponse represents the response for GET /agents.
type AgentsListResponse struct {
	Agents []AgentResponse `json:"agents"`
}

// DocTypeResponse represents a catalog doc type.
type DocTypeResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	WorkspaceEmail string    `json:"workspaceEmail"`
	CreatedAt      time.Time `json:"createdAt"`
}

// DocTypesListResponse represents the response for GET /doctypes.
type DocTypesListResponse struct {
	DocTypes []DocTypeResponse `json:"docTypes"`
}

// TransactionResponse represents a single transaction.
type TransactionResponse struct {
	ID             string    `json:"id"`
	WorkspaceEmail string    `json:"workspaceEmail"`
	AgentName      string    `json:"agentName"`
	Month          string    `json:"month"`
	Date           string    `json:"date"`
	TxID           string    `json:"txId"`
	DocType        string    `json:"typeOfDoc"`
	StartTime      string    `json:"startTime"`
	EndTime        *string   `json:"endTime"`
	TATMinutes     int       `json:"tatMinutes"`
	TATDecimal     float64   `json:"tatDecimal"`
	TATFormatted   string    `json:"tatFormatted"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// TransactionsListResponse represents the response for GET /transactions.
type TransactionsListResponse struct {
	Records    []TransactionResponse `json:"records"`
	Total      int                   `json:"total"`
	Page       int                   `json:"page"`
	TotalPages int                   `json:"totalPages"`
	Limit      int                   `json:"limit"`
}

// AgentStatsResponse represents per-agent statistics.
type AgentStatsResponse struct {
	Name           string  `json:"name"`
	TotalTx        int     `json:"totalTx"`
	Done           int     `json:"done"`
	Pending        int     `json:"pending"`
	NoDoc          int     `json:"noDoc"`
	TotalMinutes   int     `json:"totalMinutes"`
	AHTMinutes     float64 `json:"ahtMinutes"`
	CompletionRate float64 `json:"completionRate"`
}

// DailyTrendResponse represents per-date statistics.
type DailyTrendResponse struct {
	Date    string  `json:"date"`
	Total   int     `json:"total"`
	Done    int     `json:"done"`
	Pending int     `json:"pending"`
	NoDoc   int     `json:"noDoc"`
	AvgAHT  float64 `json:"avgAht"`
}

// DocTypeStatsResponse represents per-document-type statistics.
type DocTypeStatsResponse struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	AvgTAT float64 `json:"avgTat"`
}

// TotalsResponse represents workspace-wide statistics.
type TotalsResponse struct {
	TotalTx        int     `json:"totalTx"`
	Done           int     `json:"done"`
	Pending        int     `json:"pending"`
	NoDoc          int     `json:"noDoc"`
	OverallAHT     float64 `json:"overallAht"`
	CompletionRate float64 `json:"completionRate"`
}

// AnalyticsResponse represents the response for GET /analytics.
type AnalyticsResponse struct {
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Agents   []AgentStatsResponse   `json:"agents"`
	Daily    []DailyTrendResponse   `json:"daily"`
	DocTypes []DocTypeStatsResponse `json:"docTypes"`
	Totals   TotalsResponse         `json:"totals"`
}

// TableResponse represents one named export table.
type TableResponse struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// ReportResponse represents the response for GET /analytics/report.
type ReportResponse struct {
	Period string          `json:"period"`
	Tables []TableResponse `json:"tables"`
}

// ToAgentResponse converts domain.Agent to AgentResponse.
func ToAgentResponse(agent *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:             agent.ID,
		Name:           agent.Name,
		WorkspaceEmail: agent.WorkspaceEmail,
		CreatedAt:      agent.CreatedAt,
	}
}

// ToDocTypeResponse converts domain.DocType to DocTypeResponse.
func ToDocTypeResponse(dt *domain.DocType) DocTypeResponse {
	return DocTypeResponse{
		ID:             dt.ID,
		Name:           dt.Name,
		WorkspaceEmail: dt.WorkspaceEmail,
		CreatedAt:      dt.CreatedAt,
	}
}

// ToTransactionResponse converts domain.Transaction to TransactionResponse.
func ToTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:             tx.ID,
		WorkspaceEmail: tx.WorkspaceEmail,
		AgentName:      tx.AgentName,
		Month:          tx.Month,
		Date:           tx.Date,
		TxID:           tx.TxID,
		DocType:        tx.DocType,
		StartTime:      tx.StartTime,
		EndTime:        tx.EndTime,
		TATMinutes:     tx.TATMinutes,
		TATDecimal:     tx.TATDecimal,
		TATFormatted:   tx.TATFormatted,
		Status:         string(tx.Status),
		Notes:          tx.Notes,
		CreatedAt:      tx.CreatedAt,
		UpdatedAt:      tx.UpdatedAt,
	}
}

// ToAnalyticsResponse converts an analytics.Report to AnalyticsResponse.
func ToAnalyticsResponse(rep analytics.Report, from, to string) AnalyticsResponse {
	resp := AnalyticsResponse{
		From:     from,
		To:       to,
		Agents:   make([]AgentStatsResponse, len(rep.PerAgent)),
		Daily:    make([]DailyTrendResponse, len(rep.Daily)),
		DocTypes: make([]DocTypeStatsResponse, len(rep.PerDocType)),
		Totals: TotalsResponse{
			TotalTx:        rep.Totals.TotalTx,
			Done:           rep.Totals.Done,
			Pending:        rep.Totals.Pending,
			NoDoc:          rep.Totals.NoDoc,
			OverallAHT:     rep.Totals.OverallAHT,
			CompletionRate: rep.Totals.CompletionRate,
		},
	}
	for i, a := range rep.PerAgent {
		resp.Agents[i] = AgentStatsResponse{
			Name:           a.Name,
			TotalTx:        a.TotalTx,
			Done:           a.Done,
			Pending:        a.Pending,
			NoDoc:          a.NoDoc,
			TotalMinutes:   a.TotalMinutes,
			AHTMinutes:     a.AHTMinutes,
			CompletionRate: a.CompletionRate,
		}
	}
	for i, d := range rep.Daily {
		resp.Daily[i] = DailyTrendResponse{
			Date:    d.Date,
			Total:   d.Total,
			Done:    d.Done,
			Pending: d.Pending,
			NoDoc:   d.NoDoc,
			AvgAHT:  d.AvgAHT,
		}
	}
	for i, dt := range rep.PerDocType {
		resp.DocTypes[i] = DocTypeStatsResponse{
			Name:   dt.Name,
			Count:  dt.Count,
			AvgTAT: dt.AvgTAT,
		}
	}
	return resp
}

// ToReportResponse converts assembled tables to ReportResponse.
func ToReportResponse(tables []report.Table, label string) ReportResponse {
	resp := ReportResponse{
		Period: label,
		Tables: make([]TableResponse, len(tables)),
	}
	for i, t := range tables {
		resp.Tables[i] = TableResponse{Name: t.Name, Rows: t.Rows}
	}
	return resp
}
