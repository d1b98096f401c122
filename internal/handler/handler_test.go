package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"github.com/opskpi/tattrack/internal/database"
	"github.com/opskpi/tattrack/internal/handler"
	"github.com/opskpi/tattrack/internal/handler/dto"
	"github.com/opskpi/tattrack/internal/middleware"
)

const testWorkspace = "ops@example.com"

// HandlerTestSuite exercises the full HTTP surface against a real database.
// Set TEST_DATABASE_URL to run it; without one the suite is skipped.
type HandlerTestSuite struct {
	suite.Suite
	pool *pgxpool.Pool
	mux  *http.ServeMux
}

func (s *HandlerTestSuite) SetupSuite() {
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		s.T().Skip("TEST_DATABASE_URL not set, skipping handler integration tests")
	}

	ctx := context.Background()
	db, err := database.New(ctx, databaseURL)
	s.Require().NoError(err)
	s.pool = db.Pool()

	err = database.RunMigrations(ctx, s.pool)
	s.Require().NoError(err)

	h := handler.New(s.pool)
	s.mux = http.NewServeMux()
	h.RegisterRoutes(s.mux)
}

func (s *HandlerTestSuite) SetupTest() {
	ctx := context.Background()

	_, err := s.pool.Exec(ctx, "TRUNCATE agents, doc_types, transactions CASCADE")
	s.Require().NoError(err)
}

func (s *HandlerTestSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// do performs a workspace-scoped request and decodes the JSON response into out.
func (s *HandlerTestSuite) do(method, path string, body any, out any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.WorkspaceHeader, testWorkspace)

	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec
}

func (s *HandlerTestSuite) startTransaction(agentName, txID, docType, startTime string) dto.TransactionResponse {
	var tx dto.TransactionResponse
	rec := s.do(http.MethodPost, "/api/v1/transactions", dto.StartTransactionRequest{
		AgentName: agentName,
		TxID:      txID,
		DocType:   docType,
		StartTime: startTime,
	}, &tx)
	s.Require().Equal(http.StatusCreated, rec.Code)
	return tx
}

func (s *HandlerTestSuite) TestWorkspaceScopeRequired() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/agents", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestAgentRosterLifecycle() {
	var created dto.AgentResponse
	rec := s.do(http.MethodPost, "/api/v1/agents", dto.CreateAgentRequest{Name: "Alice"}, &created)
	s.Require().Equal(http.StatusCreated, rec.Code)
	s.Equal("Alice", created.Name)
	s.Equal(testWorkspace, created.WorkspaceEmail)

	// Duplicate names conflict within the workspace.
	rec = s.do(http.MethodPost, "/api/v1/agents", dto.CreateAgentRequest{Name: "Alice"}, nil)
	s.Equal(http.StatusConflict, rec.Code)

	var list dto.AgentsListResponse
	rec = s.do(http.MethodGet, "/api/v1/agents", nil, &list)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(list.Agents, 1)

	rec = s.do(http.MethodDelete, "/api/v1/agents/"+created.ID, nil, nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/agents/"+created.ID, nil, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerTestSuite) TestDocTypeCatalogLifecycle() {
	var created dto.DocTypeResponse
	rec := s.do(http.MethodPost, "/api/v1/doctypes", dto.CreateDocTypeRequest{Name: "Invoice"}, &created)
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/doctypes", dto.CreateDocTypeRequest{Name: "Invoice"}, nil)
	s.Equal(http.StatusConflict, rec.Code)

	var list dto.DocTypesListResponse
	rec = s.do(http.MethodGet, "/api/v1/doctypes", nil, &list)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(list.DocTypes, 1)

	rec = s.do(http.MethodDelete, "/api/v1/doctypes/"+created.ID, nil, nil)
	s.Equal(http.StatusNoContent, rec.Code)
}

func (s *HandlerTestSuite) TestTransactionLifecycle() {
	tx := s.startTransaction("Alice", "REF-1001", "Invoice", "09:00")
	s.Equal("Pending", tx.Status)
	s.Nil(tx.EndTime)

	var ended dto.TransactionResponse
	rec := s.do(http.MethodPost, "/api/v1/transactions/"+tx.ID+"/end", dto.EndTransactionRequest{
		EndTime: "10:30",
		Status:  "Done",
	}, &ended)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(90, ended.TATMinutes)
	s.Equal(1.5, ended.TATDecimal)
	s.Equal("01:30:00", ended.TATFormatted)
	s.Equal("Done", ended.Status)

	// Second close conflicts.
	rec = s.do(http.MethodPost, "/api/v1/transactions/"+tx.ID+"/end", dto.EndTransactionRequest{
		EndTime: "11:00",
	}, nil)
	s.Equal(http.StatusConflict, rec.Code)

	newEnd := "11:30"
	var updated dto.TransactionResponse
	rec = s.do(http.MethodPatch, "/api/v1/transactions/"+tx.ID, dto.UpdateTransactionRequest{
		EndTime: &newEnd,
	}, &updated)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(150, updated.TATMinutes)

	rec = s.do(http.MethodDelete, "/api/v1/transactions/"+tx.ID, nil, nil)
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/transactions/"+tx.ID, nil, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerTestSuite) TestStartTransactionValidation() {
	rec := s.do(http.MethodPost, "/api/v1/transactions", dto.StartTransactionRequest{
		AgentName: "Alice",
		TxID:      "REF-1001",
		StartTime: "09:00",
	}, nil)
	s.Equal(http.StatusUnprocessableEntity, rec.Code)
}

func (s *HandlerTestSuite) TestListTransactionsPagination() {
	for _, ref := range []string{"REF-1", "REF-2", "REF-3"} {
		s.startTransaction("Alice", ref, "Invoice", "09:00")
	}

	var list dto.TransactionsListResponse
	rec := s.do(http.MethodGet, "/api/v1/transactions?page=1&limit=2", nil, &list)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(list.Records, 2)
	s.Equal(3, list.Total)
	s.Equal(2, list.TotalPages)
}

func (s *HandlerTestSuite) TestListTransactionsAgentFilter() {
	s.startTransaction("Alice", "REF-1", "Invoice", "09:00")
	s.startTransaction("Bob", "REF-2", "Invoice", "09:00")

	var list dto.TransactionsListResponse
	rec := s.do(http.MethodGet, "/api/v1/transactions?name=alice", nil, &list)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().Len(list.Records, 1)
	s.Equal("Alice", list.Records[0].AgentName)
}

func (s *HandlerTestSuite) TestWorkspaceIsolation() {
	s.startTransaction("Alice", "REF-1", "Invoice", "09:00")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
	req.Header.Set(middleware.WorkspaceHeader, "other@example.com")
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	var list dto.TransactionsListResponse
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &list))
	s.Empty(list.Records)
}

func (s *HandlerTestSuite) TestAnalytics() {
	s.do(http.MethodPost, "/api/v1/agents", dto.CreateAgentRequest{Name: "Alice"}, nil)

	tx := s.startTransaction("Alice", "REF-1", "Invoice", "09:00")
	_ = s.do(http.MethodPost, "/api/v1/transactions/"+tx.ID+"/end", dto.EndTransactionRequest{
		EndTime: "10:00",
		Status:  "Done",
	}, nil)
	s.startTransaction("Alice", "REF-2", "Contract", "11:00")

	var analytics dto.AnalyticsResponse
	rec := s.do(http.MethodGet, "/api/v1/analytics", nil, &analytics)
	s.Require().Equal(http.StatusOK, rec.Code)

	s.Equal(2, analytics.Totals.TotalTx)
	s.Equal(1, analytics.Totals.Done)
	s.Equal(1, analytics.Totals.Pending)
	s.Require().Len(analytics.Agents, 1)
	s.Equal("Alice", analytics.Agents[0].Name)
	s.Equal(float64(60), analytics.Agents[0].AHTMinutes)

	var report dto.ReportResponse
	rec = s.do(http.MethodGet, "/api/v1/analytics/report", nil, &report)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(report.Tables, 4)
}

func (s *HandlerTestSuite) TestInvalidIDRejected() {
	rec := s.do(http.MethodDelete, "/api/v1/transactions/not-a-uuid", nil, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestHealthz() {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
