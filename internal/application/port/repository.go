package port

import (
	"context"

	"goldboard/internal/domain/model"
)

// Repository is a write-only audit surface. Board state lives in
// memory and is never restored from a repository; a restart resets it.
type Repository interface {
	// UpsertLatestQuote records the most recent accepted quote.
	UpsertLatestQuote(ctx context.Context, in model.Instrument, buy, sell float64, ts int64) error

	// InsertSnapshot appends one full-board snapshot as JSON.
	InsertSnapshot(ctx context.Context, ts int64, payload string) error

	// InsertTransaction appends a recorded trade.
	InsertTransaction(ctx context.Context, tx model.Transaction) error

	// Connection management
	Close() error
}
