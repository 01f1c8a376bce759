// Package service defines the collaborator interfaces and shared contracts
// consumed by the analytics engine.
package service

import (
	"context"
	"time"

	"github.com/procurelens/procurelens/internal/model"
)

// TransactionStore is the engine's read interface over transaction facts.
type TransactionStore interface {
	GetTransactions(ctx context.Context, start, end time.Time) ([]model.TransactionRecord, error)
	GetTransactionsByIDs(ctx context.Context, ids []string) ([]model.TransactionRecord, error)
	GetVendorTransactions(ctx context.Context, vendorID string) ([]model.TransactionRecord, error)
}

// ContractStore provides access to negotiated vendor agreements.
type ContractStore interface {
	GetActiveContracts(ctx context.Context) ([]model.Contract, error)
}

// BenchmarkProvider resolves industry price references per category.
// A nil benchmark with nil error means no reference exists for the category.
type BenchmarkProvider interface {
	GetIndustryBenchmark(ctx context.Context, category string) (*model.Benchmark, error)
}

// Cache stores classification results with a time-to-live. Entries are
// advisory: a miss only costs recomputation, and concurrent writers for the
// same key agree on the value, so last-writer-wins is safe.
type Cache interface {
	Get(key string) (model.CategoryAssignment, bool)
	Set(key string, value model.CategoryAssignment, ttl time.Duration)
}
