package port

import "goldboard/internal/domain/model"

// Sink receives board events for distribution. Implementations must
// not block: a slow subscriber is the sink's problem, never the tick
// loop's.
type Sink interface {
	// PublishPrices pushes the full current price map after a tick or
	// an immediate stop-zeroing.
	PublishPrices(prices map[model.Instrument]model.Quote)

	// PublishStatuses pushes the full status map after a batch change.
	PublishStatuses(statuses map[model.Instrument]model.Status)

	// PublishTransaction pushes one newly recorded trade.
	PublishTransaction(tx model.Transaction)
}
