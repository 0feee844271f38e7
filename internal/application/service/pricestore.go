package service

import (
	"sync"

	"goldboard/internal/domain/model"
)

// PricePair is one buy/sell update for an instrument.
type PricePair struct {
	Buy  float64
	Sell float64
}

// PriceStore holds the authoritative current quote per instrument.
// Apply replaces a whole batch under one lock, so readers never see a
// tick half applied.
type PriceStore struct {
	mu     sync.RWMutex
	quotes map[model.Instrument]model.Quote
}

func NewPriceStore() *PriceStore {
	quotes := make(map[model.Instrument]model.Quote, len(model.Instruments))
	for _, in := range model.Instruments {
		quotes[in] = model.ZeroQuote(in)
	}
	return &PriceStore{quotes: quotes}
}

func (s *PriceStore) Get(in model.Instrument) model.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quotes[in]
}

// Set replaces the buy/sell pair for one instrument. Source and unit
// labels are fixed per instrument and preserved.
func (s *PriceStore) Set(in model.Instrument, buy, sell float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(in, buy, sell)
}

// Apply replaces every pair in the batch atomically.
func (s *PriceStore) Apply(batch map[model.Instrument]PricePair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for in, p := range batch {
		s.setLocked(in, p.Buy, p.Sell)
	}
}

func (s *PriceStore) setLocked(in model.Instrument, buy, sell float64) {
	q, ok := s.quotes[in]
	if !ok {
		return
	}
	q.Buy = buy
	q.Sell = sell
	s.quotes[in] = q
}

// Snapshot returns a copy consistent at a single point in time.
func (s *PriceStore) Snapshot() map[model.Instrument]model.Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.Instrument]model.Quote, len(s.quotes))
	for in, q := range s.quotes {
		out[in] = q
	}
	return out
}
