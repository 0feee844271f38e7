package console

import (
	"github.com/rs/zerolog/log"

	"goldboard/internal/application/port"
	"goldboard/internal/domain/model"
)

// Sink mirrors board events onto the console log, one line per event.
type Sink struct{}

func NewSink() port.Sink { return &Sink{} }

func (s *Sink) PublishPrices(prices map[model.Instrument]model.Quote) {
	ev := log.Info()
	for _, in := range model.Instruments {
		q := prices[in]
		ev = ev.Floats64(string(in), []float64{q.Buy, q.Sell})
	}
	ev.Msg("prices")
}

func (s *Sink) PublishStatuses(statuses map[model.Instrument]model.Status) {
	ev := log.Info()
	for _, in := range model.Instruments {
		ev = ev.Str(string(in), string(statuses[in]))
	}
	ev.Msg("statuses")
}

func (s *Sink) PublishTransaction(tx model.Transaction) {
	log.Info().Str("id", tx.ID).Str("symbol", tx.Symbol).
		Str("side", string(tx.Side)).Float64("price", tx.Price).
		Msg("transaction")
}
