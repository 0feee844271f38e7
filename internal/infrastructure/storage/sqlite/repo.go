package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"goldboard/internal/application/port"
	"goldboard/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite: single writer
	db.SetMaxOpenConns(1)

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
  buy REAL NOT NULL,
  sell REAL NOT NULL,
  ts_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshots (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts_ms INTEGER NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_ms);

CREATE TABLE IF NOT EXISTS transactions (
  id TEXT PRIMARY KEY,
  symbol TEXT NOT NULL,
  price REAL NOT NULL,
  side TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`)
	return err
}

func (r *Repo) UpsertLatestQuote(ctx context.Context, in model.Instrument, buy, sell float64, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO latest_quotes(instrument, buy, sell, ts_ms) VALUES(?, ?, ?, ?)
ON CONFLICT(instrument) DO UPDATE SET buy=excluded.buy, sell=excluded.sell, ts_ms=excluded.ts_ms
`, string(in), buy, sell, ts)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots(ts_ms, payload) VALUES(?, ?)`, ts, payload)
	return err
}

func (r *Repo) InsertTransaction(ctx context.Context, tx model.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions(id, symbol, price, side, created_at) VALUES(?, ?, ?, ?, ?)
`, tx.ID, tx.Symbol, tx.Price, string(tx.Side), tx.DateTime.Format("2006-01-02T15:04:05.000Z07:00"))
	return err
}

var _ port.Repository = (*Repo)(nil)
