package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"goldboard/internal/application/port"
	"goldboard/internal/domain/model"
)

type Repo struct {
	rdb       *redis.Client
	prefix    string
	ttl       time.Duration
	keyLatest string // prefix + ":latest"
	priceChan string // prefix + ":prices:pub"
	txChan    string // prefix + ":transactions:pub"
}

type latestQuote struct {
	Instrument string  `json:"instrument"`
	Buy        float64 `json:"buy"`
	Sell       float64 `json:"sell"`
	Ts         int64   `json:"ts"`
}

func New(rdb *redis.Client, prefix string, ttl time.Duration) *Repo {
	return &Repo{
		rdb:       rdb,
		prefix:    prefix,
		ttl:       ttl,
		keyLatest: prefix + ":latest",
		priceChan: prefix + ":prices:pub",
		txChan:    prefix + ":transactions:pub",
	}
}

func (r *Repo) UpsertLatestQuote(ctx context.Context, in model.Instrument, buy, sell float64, ts int64) error {
	lq := latestQuote{Instrument: string(in), Buy: buy, Sell: sell, Ts: ts}
	b, _ := json.Marshal(lq)

	pipe := r.rdb.Pipeline()
	pipe.HSet(ctx, r.keyLatest, string(in), string(b))
	if r.ttl > 0 {
		pipe.Expire(ctx, r.keyLatest, r.ttl)
	}
	pipe.Publish(ctx, r.priceChan, string(b))
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	// full snapshots stay process-local; redis only carries latest quotes
	return nil
}

func (r *Repo) InsertTransaction(ctx context.Context, tx model.Transaction) error {
	b, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("marshal transaction %s: %w", tx.ID, err)
	}
	return r.rdb.Publish(ctx, r.txChan, string(b)).Err()
}

func (r *Repo) Close() error { return r.rdb.Close() }

var _ port.Repository = (*Repo)(nil)
