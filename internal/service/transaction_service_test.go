package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/opskpi/tattrack/internal/domain"
	"github.com/opskpi/tattrack/internal/service"
	"github.com/stretchr/testify/suite"
)

// fakeStore is an in-memory TransactionStore. Close mirrors the conditional
// update of the Postgres implementation: it only persists when the stored
// record is still open.
type fakeStore struct {
	nextID int
	txs    map[string]domain.Transaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{txs: make(map[string]domain.Transaction)}
}

func (f *fakeStore) Create(_ context.Context, tx *domain.Transaction) error {
	f.nextID++
	tx.ID = fmt.Sprintf("tx-%d", f.nextID)
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	f.txs[tx.ID] = *tx
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	tx, ok := f.txs[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	copied := tx
	return &copied, nil
}

func (f *fakeStore) Close(_ context.Context, tx *domain.Transaction) error {
	stored, ok := f.txs[tx.ID]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	if stored.EndTime != nil {
		return domain.ErrAlreadyEnded
	}
	tx.UpdatedAt = time.Now()
	f.txs[tx.ID] = *tx
	return nil
}

func (f *fakeStore) Save(_ context.Context, tx *domain.Transaction) error {
	if _, ok := f.txs[tx.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	tx.UpdatedAt = time.Now()
	f.txs[tx.ID] = *tx
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.txs[id]; !ok {
		return domain.ErrTransactionNotFound
	}
	delete(f.txs, id)
	return nil
}

// fixedClock always reports the same instant.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// TransactionServiceTestSuite is the test suite for TransactionService.
type TransactionServiceTestSuite struct {
	suite.Suite
	store *fakeStore
	svc   *service.TransactionService
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.store = newFakeStore()
	clock := fixedClock{now: time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)}
	s.svc = service.NewTransactionService(s.store, clock)
}

func (s *TransactionServiceTestSuite) startParams() service.StartParams {
	return service.StartParams{
		WorkspaceEmail: "Team@Example.com",
		AgentName:      "Alice",
		TxID:           "REF-1001",
		DocType:        "Invoice",
		StartTime:      "09:00",
	}
}

func (s *TransactionServiceTestSuite) TestStartDefaults() {
	ctx := context.Background()

	tx, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)

	s.Equal("team@example.com", tx.WorkspaceEmail)
	s.Equal("2026-03-15", tx.Date)
	s.Equal("March", tx.Month)
	s.Equal(domain.StatusPending, tx.Status)
	s.Nil(tx.EndTime)
	s.True(tx.IsOpen())
	s.Zero(tx.TATMinutes)
	s.NotEmpty(tx.ID)
}

func (s *TransactionServiceTestSuite) TestStartExplicitDateAndStatus() {
	ctx := context.Background()

	params := s.startParams()
	params.Date = "2026-01-31"
	params.Status = domain.StatusNoDoc

	tx, err := s.svc.Start(ctx, params)
	s.Require().NoError(err)

	s.Equal("2026-01-31", tx.Date)
	s.Equal("January", tx.Month)
	s.Equal(domain.StatusNoDoc, tx.Status)
}

func (s *TransactionServiceTestSuite) TestStartMissingFields() {
	ctx := context.Background()

	cases := []struct {
		field  string
		mutate func(*service.StartParams)
	}{
		{"workspaceEmail", func(p *service.StartParams) { p.WorkspaceEmail = "" }},
		{"agentName", func(p *service.StartParams) { p.AgentName = "  " }},
		{"txId", func(p *service.StartParams) { p.TxID = "" }},
		{"typeOfDoc", func(p *service.StartParams) { p.DocType = "" }},
		{"startTime", func(p *service.StartParams) { p.StartTime = "" }},
	}

	for _, tc := range cases {
		params := s.startParams()
		tc.mutate(&params)

		_, err := s.svc.Start(ctx, params)
		s.Require().Error(err, "field %s", tc.field)
		s.ErrorIs(err, domain.ErrMissingField)
		s.Contains(err.Error(), tc.field)
	}
}

func (s *TransactionServiceTestSuite) TestStartInvalidStatus() {
	ctx := context.Background()

	params := s.startParams()
	params.Status = domain.TxStatus("Archived")

	_, err := s.svc.Start(ctx, params)
	s.ErrorIs(err, domain.ErrInvalidStatus)
}

func (s *TransactionServiceTestSuite) TestStartDuplicateTxIDAllowed() {
	ctx := context.Background()

	first, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)
	second, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)

	s.NotEqual(first.ID, second.ID)
	s.Equal(first.TxID, second.TxID)
}

func (s *TransactionServiceTestSuite) TestEndComputesTAT() {
	ctx := context.Background()

	tx, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)

	ended, err := s.svc.End(ctx, tx.ID, service.EndParams{
		EndTime: "10:30",
		Status:  domain.StatusDone,
	})
	s.Require().NoError(err)

	s.Require().NotNil(ended.EndTime)
	s.Equal("10:30", *ended.EndTime)
	s.Equal(90, ended.TATMinutes)
	s.Equal(1.5, ended.TATDecimal)
	s.Equal("01:30:00", ended.TATFormatted)
	s.Equal(domain.StatusDone, ended.Status)
	s.False(ended.IsOpen())
}

func (s *TransactionServiceTestSuite) TestEndOvernightWrapsAroundMidnight() {
	ctx := context.Background()

	params := s.startParams()
	params.StartTime = "23:50"
	tx, err := s.svc.Start(ctx, params)
	s.Require().NoError(err)

	ended, err := s.svc.End(ctx, tx.ID, service.EndParams{EndTime: "00:10"})
	s.Require().NoError(err)

	s.Equal(20, ended.TATMinutes)
}

func (s *TransactionServiceTestSuite) TestEndKeepsStatusAndNotesWhenOmitted() {
	ctx := context.Background()

	params := s.startParams()
	params.Notes = "first pass"
	tx, err := s.svc.Start(ctx, params)
	s.Require().NoError(err)

	ended, err := s.svc.End(ctx, tx.ID, service.EndParams{EndTime: "09:45"})
	s.Require().NoError(err)

	s.Equal(domain.StatusPending, ended.Status)
	s.Equal("first pass", ended.Notes)
}

func (s *TransactionServiceTestSuite) TestEndTwiceFails() {
	ctx := context.Background()

	tx, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)

	_, err = s.svc.End(ctx, tx.ID, service.EndParams{EndTime: "10:00"})
	s.Require().NoError(err)

	_, err = s.svc.End(ctx, tx.ID, service.EndParams{EndTime: "11:00"})
	s.ErrorIs(err, domain.ErrAlreadyEnded)

	// The stored record keeps the first close.
	stored, err := s.store.GetByID(ctx, tx.ID)
	s.Require().NoError(err)
	s.Equal("10:00", *stored.EndTime)
	s.Equal(60, stored.TATMinutes)
}

func (s *TransactionServiceTestSuite) TestEndValidation() {
	ctx := context.Background()

	tx, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)

	_, err = s.svc.End(ctx, tx.ID, service.EndParams{EndTime: ""})
	s.ErrorIs(err, domain.ErrMissingField)

	_, err = s.svc.End(ctx, tx.ID, service.EndParams{EndTime: "25:00"})
	s.ErrorIs(err, domain.ErrInvalidClockTime)

	_, err = s.svc.End(ctx, "missing-id", service.EndParams{EndTime: "10:00"})
	s.ErrorIs(err, domain.ErrTransactionNotFound)
}

func (s *TransactionServiceTestSuite) TestUpdateSimpleFields() {
	ctx := context.Background()

	tx, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)

	notes := "escalated"
	docType := "Contract"
	status := domain.StatusNoDoc
	updated, err := s.svc.Update(ctx, tx.ID, service.UpdateParams{
		Status:  &status,
		Notes:   &notes,
		DocType: &docType,
	})
	s.Require().NoError(err)

	s.Equal(domain.StatusNoDoc, updated.Status)
	s.Equal("escalated", updated.Notes)
	s.Equal("Contract", updated.DocType)
	s.Zero(updated.TATMinutes)
	s.True(updated.IsOpen())
}

func (s *TransactionServiceTestSuite) TestUpdateRecomputesTATWhenBothTimesResolve() {
	ctx := context.Background()

	tx, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)
	_, err = s.svc.End(ctx, tx.ID, service.EndParams{EndTime: "10:00"})
	s.Require().NoError(err)

	newEnd := "11:30"
	updated, err := s.svc.Update(ctx, tx.ID, service.UpdateParams{EndTime: &newEnd})
	s.Require().NoError(err)

	s.Equal(150, updated.TATMinutes)
	s.Equal(2.5, updated.TATDecimal)
	s.Equal("02:30:00", updated.TATFormatted)
}

func (s *TransactionServiceTestSuite) TestUpdateStartTimeAloneOnOpenTransaction() {
	ctx := context.Background()

	tx, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)

	// With no end time to pair against, the new start time is not applied
	// and the TAT fields stay untouched.
	newStart := "08:00"
	updated, err := s.svc.Update(ctx, tx.ID, service.UpdateParams{StartTime: &newStart})
	s.Require().NoError(err)

	s.Equal("09:00", updated.StartTime)
	s.Zero(updated.TATMinutes)
}

func (s *TransactionServiceTestSuite) TestUpdateStartTimeOnClosedTransaction() {
	ctx := context.Background()

	tx, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)
	_, err = s.svc.End(ctx, tx.ID, service.EndParams{EndTime: "10:00"})
	s.Require().NoError(err)

	newStart := "08:00"
	updated, err := s.svc.Update(ctx, tx.ID, service.UpdateParams{StartTime: &newStart})
	s.Require().NoError(err)

	s.Equal("08:00", updated.StartTime)
	s.Equal(120, updated.TATMinutes)
}

func (s *TransactionServiceTestSuite) TestUpdateInvalidInputs() {
	ctx := context.Background()

	tx, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)

	bad := domain.TxStatus("Archived")
	_, err = s.svc.Update(ctx, tx.ID, service.UpdateParams{Status: &bad})
	s.ErrorIs(err, domain.ErrInvalidStatus)

	_, err = s.svc.Update(ctx, "missing-id", service.UpdateParams{})
	s.ErrorIs(err, domain.ErrTransactionNotFound)
}

func (s *TransactionServiceTestSuite) TestDelete() {
	ctx := context.Background()

	tx, err := s.svc.Start(ctx, s.startParams())
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(ctx, tx.ID))

	_, err = s.store.GetByID(ctx, tx.ID)
	s.True(errors.Is(err, domain.ErrTransactionNotFound))

	err = s.svc.Delete(ctx, tx.ID)
	s.ErrorIs(err, domain.ErrTransactionNotFound)
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
