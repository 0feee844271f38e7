package service

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"goldboard/internal/domain/model"
)

var (
	// ErrInvalidSide rejects trade sides outside buy|sell.
	ErrInvalidSide = errors.New(`side must be "buy" or "sell"`)

	// ErrNegativePrice rejects trades with a negative price.
	ErrNegativePrice = errors.New("price must not be negative")
)

// DefaultMaxTransactions bounds the in-memory ledger.
const DefaultMaxTransactions = 1000

// TransactionLog is an append-only, bounded, newest-first ledger of
// recorded trades.
type TransactionLog struct {
	mu      sync.RWMutex
	entries []model.Transaction
	max     int
}

func NewTransactionLog(max int) *TransactionLog {
	if max <= 0 {
		max = DefaultMaxTransactions
	}
	return &TransactionLog{max: max}
}

// Append validates, records and returns a new transaction. The oldest
// entry is evicted once the bound is exceeded.
func (l *TransactionLog) Append(symbol string, price float64, side string) (model.Transaction, error) {
	s, ok := model.ParseSide(side)
	if !ok {
		return model.Transaction{}, ErrInvalidSide
	}
	if price < 0 {
		return model.Transaction{}, ErrNegativePrice
	}
	if symbol == "" {
		symbol = "GOLD"
	}

	tx := model.Transaction{
		ID:       "TXN-" + uuid.NewString(),
		Symbol:   symbol,
		Price:    price,
		Side:     s,
		DateTime: time.Now().UTC(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]model.Transaction{tx}, l.entries...)
	if len(l.entries) > l.max {
		l.entries = l.entries[:l.max]
	}
	return tx, nil
}

// List returns entries newest-first. limit <= 0 means all.
func (l *TransactionLog) List(limit int) []model.Transaction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := len(l.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.Transaction, n)
	copy(out, l.entries[:n])
	return out
}

// Len reports the current ledger length.
func (l *TransactionLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
