package service

import (
	"context"

	"github.com/opskpi/tattrack/internal/domain"
)

// TransactionStore is the record-store contract the transaction lifecycle
// depends on. The Postgres implementation lives in internal/repository;
// tests supply an in-memory fake.
type TransactionStore interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// Close persists an end conditionally on the record still being open,
	// returning domain.ErrAlreadyEnded otherwise. This is what serializes
	// concurrent closes of the same transaction.
	Close(ctx context.Context, tx *domain.Transaction) error
	Save(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, id string) error
}
