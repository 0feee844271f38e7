package board

import (
	"context"

	"goldboard/internal/application/port"
	"goldboard/internal/domain/model"
)

type noopRepo struct{}

// NewNoopRepo returns a repository that discards everything, for runs
// without any storage backend enabled.
func NewNoopRepo() port.Repository { return &noopRepo{} }

func (n *noopRepo) UpsertLatestQuote(ctx context.Context, in model.Instrument, buy, sell float64, ts int64) error {
	return nil
}
func (n *noopRepo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	return nil
}
func (n *noopRepo) InsertTransaction(ctx context.Context, tx model.Transaction) error {
	return nil
}
func (n *noopRepo) Close() error { return nil }
