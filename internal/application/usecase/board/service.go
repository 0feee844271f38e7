// Package board is the coordinator owning the price, status and
// transaction state, the fetch scheduler that feeds it, and the event
// fan-out that follows every mutation.
package board

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"goldboard/internal/application/port"
	"goldboard/internal/application/service"
	"goldboard/internal/application/service/extract"
	"goldboard/internal/domain/model"
)

// Source binds one upstream page to the extractor for its family.
type Source struct {
	Group     model.SourceGroup
	URL       string
	Extractor *extract.Extractor
}

type ServiceDeps struct {
	Fetcher      port.PageFetcher
	Sources      []Source
	Sinks        []port.Sink
	Repo         port.Repository
	Interval     time.Duration
	FetchTimeout time.Duration
	MaxTx        int
}

type Service struct {
	deps ServiceDeps

	prices   *service.PriceStore
	statuses *service.StatusController
	txlog    *service.TransactionLog
}

func NewService(deps ServiceDeps) *Service {
	if deps.Interval <= 0 {
		deps.Interval = 10 * time.Second
	}
	if deps.FetchTimeout <= 0 {
		deps.FetchTimeout = 30 * time.Second
	}
	if deps.Repo == nil {
		deps.Repo = NewNoopRepo()
	}
	return &Service{
		deps:     deps,
		prices:   service.NewPriceStore(),
		statuses: service.NewStatusController(),
		txlog:    service.NewTransactionLog(deps.MaxTx),
	}
}

// AttachSinks registers event sinks. Call before Run; the hub needs
// the service's snapshot accessor, so it cannot be part of the deps
// at construction time.
func (s *Service) AttachSinks(sinks ...port.Sink) {
	s.deps.Sinks = append(s.deps.Sinks, sinks...)
}

// Run ticks on a fixed period until ctx is cancelled. The first tick
// fires immediately. Ticks execute synchronously in the loop body, so
// at most one fetch-and-apply cycle is ever in flight; when a tick
// overruns the period the next one is deferred, never run alongside.
func (s *Service) Run(ctx context.Context) error {
	if len(s.deps.Sources) == 0 {
		return errors.New("no price sources configured")
	}

	s.Tick(ctx)

	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one fetch-validate-update-broadcast cycle. Status is read
// once at tick start so the latest operator decision wins:
// stop forces (0,0), pause leaves the quote untouched, online
// instruments of one group share a single fetch. Any fetch or
// extraction failure retains the previous quote and never reaches the
// caller.
func (s *Service) Tick(ctx context.Context) {
	start := time.Now()
	statuses := s.statuses.All()
	updates := make(map[model.Instrument]service.PricePair)

	for _, src := range s.deps.Sources {
		online := onlineMembers(src.Group, statuses)
		if len(online) == 0 {
			continue
		}

		fields, err := s.fetchAndExtract(ctx, src)
		if err != nil {
			log.Warn().Err(err).Str("group", string(src.Group)).
				Msg("fetch cycle failed, retaining previous quotes")
			continue
		}

		for _, in := range online {
			p := fields[in]
			if p.Buy == 0 && p.Sell == 0 {
				log.Warn().Str("instrument", string(in)).
					Msg("no price extracted, retaining previous quote")
				continue
			}
			// a half-found pair keeps the known side from the store;
			// zero never masquerades as a price
			prev := s.prices.Get(in)
			if p.Buy == 0 {
				p.Buy = prev.Buy
			}
			if p.Sell == 0 {
				p.Sell = prev.Sell
			}
			updates[in] = service.PricePair{Buy: p.Buy, Sell: p.Sell}
		}
	}

	for in, st := range statuses {
		if st == model.StatusStop {
			updates[in] = service.PricePair{}
		}
	}

	s.prices.Apply(updates)
	s.auditTick(ctx, updates)
	s.publishPrices()

	log.Info().Int("updated", len(updates)).
		Dur("duration", time.Since(start)).Msg("tick complete")
}

func (s *Service) fetchAndExtract(ctx context.Context, src Source) (extract.Fields, error) {
	fctx, cancel := context.WithTimeout(ctx, s.deps.FetchTimeout)
	defer cancel()

	content, err := s.deps.Fetcher.FetchPage(fctx, src.URL)
	if err != nil {
		return nil, err
	}
	return src.Extractor.Extract(content)
}

func onlineMembers(group model.SourceGroup, statuses map[model.Instrument]model.Status) []model.Instrument {
	var out []model.Instrument
	for _, in := range model.GroupMembers[group] {
		if statuses[in] == model.StatusOnline {
			out = append(out, in)
		}
	}
	return out
}

// Snapshot returns the full board state: prices consistent at one
// point in time, current statuses and the recent transaction ledger.
func (s *Service) Snapshot() model.Snapshot {
	return model.Snapshot{
		Prices:       s.prices.Snapshot(),
		Statuses:     s.statuses.All(),
		Transactions: s.txlog.List(0),
	}
}

func (s *Service) Prices() map[model.Instrument]model.Quote {
	return s.prices.Snapshot()
}

func (s *Service) Statuses() map[model.Instrument]model.Status {
	return s.statuses.All()
}

func (s *Service) Transactions(limit int) []model.Transaction {
	return s.txlog.List(limit)
}

// ApplyStatuses applies an operator batch atomically; on any invalid
// entry nothing changes. Instruments switched to stop are zeroed
// immediately rather than waiting for the next tick, and both the
// status and price maps are pushed to subscribers right away.
func (s *Service) ApplyStatuses(batch []service.StatusChange) (map[model.Instrument]model.Status, error) {
	if err := s.statuses.Apply(batch); err != nil {
		return nil, err
	}

	stopped := false
	for _, ch := range batch {
		if ch.Status == model.StatusStop {
			s.prices.Set(ch.Instrument, 0, 0)
			stopped = true
			log.Info().Str("instrument", string(ch.Instrument)).
				Msg("status stop, price forced to zero")
		}
	}

	statuses := s.statuses.All()
	for _, sink := range s.deps.Sinks {
		sink.PublishStatuses(statuses)
	}
	if stopped {
		s.publishPrices()
	}
	return statuses, nil
}

// SubmitTransaction records a trade, pushes it to subscribers and
// writes it to the audit repository.
func (s *Service) SubmitTransaction(ctx context.Context, symbol string, price float64, side string) (model.Transaction, error) {
	tx, err := s.txlog.Append(symbol, price, side)
	if err != nil {
		return model.Transaction{}, err
	}
	for _, sink := range s.deps.Sinks {
		sink.PublishTransaction(tx)
	}
	if err := s.deps.Repo.InsertTransaction(ctx, tx); err != nil {
		log.Warn().Err(err).Str("id", tx.ID).Msg("transaction audit write failed")
	}
	return tx, nil
}

func (s *Service) publishPrices() {
	prices := s.prices.Snapshot()
	for _, sink := range s.deps.Sinks {
		sink.PublishPrices(prices)
	}
}

func (s *Service) auditTick(ctx context.Context, updates map[model.Instrument]service.PricePair) {
	ts := time.Now().UnixMilli()
	for in, p := range updates {
		if err := s.deps.Repo.UpsertLatestQuote(ctx, in, p.Buy, p.Sell, ts); err != nil {
			log.Warn().Err(err).Str("instrument", string(in)).Msg("latest quote audit write failed")
		}
	}

	payload, err := json.Marshal(s.Snapshot())
	if err != nil {
		return
	}
	if err := s.deps.Repo.InsertSnapshot(ctx, ts, string(payload)); err != nil {
		log.Warn().Err(err).Msg("snapshot audit write failed")
	}
}
