package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"

	"goldboard/internal/application/port"
	"goldboard/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS latest_quotes (
  instrument TEXT PRIMARY KEY,
  buy DOUBLE PRECISION NOT NULL,
  sell DOUBLE PRECISION NOT NULL,
  ts_ms BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_ms);

CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  symbol TEXT NOT NULL,
  price DOUBLE PRECISION NOT NULL,
  side TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

func (r *Repo) UpsertLatestQuote(ctx context.Context, in model.Instrument, buy, sell float64, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO latest_quotes(instrument, buy, sell, ts_ms) VALUES($1, $2, $3, $4)
ON CONFLICT(instrument) DO UPDATE SET buy=EXCLUDED.buy, sell=EXCLUDED.sell, ts_ms=EXCLUDED.ts_ms
`, string(in), buy, sell, ts)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots(ts_ms, payload) VALUES($1, $2)`, ts, payload)
	return err
}

func (r *Repo) InsertTransaction(ctx context.Context, tx model.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions(id, symbol, price, side, created_at) VALUES($1, $2, $3, $4, $5)
`, tx.ID, tx.Symbol, tx.Price, string(tx.Side), tx.DateTime)
	return err
}

var _ port.Repository = (*Repo)(nil)
