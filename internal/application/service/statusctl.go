package service

import (
	"errors"
	"fmt"
	"sync"

	"goldboard/internal/domain/model"
)

var (
	// ErrInvalidStatus rejects status values outside online|pause|stop.
	ErrInvalidStatus = errors.New("status must be online, pause or stop")

	// ErrUnknownInstrument rejects instruments outside the closed set.
	ErrUnknownInstrument = errors.New("unknown instrument")
)

// StatusChange is one entry of an operator batch.
type StatusChange struct {
	Instrument model.Instrument
	Status     model.Status
}

// StatusController tracks the operator-controlled mode per instrument.
// Every instrument always holds a defined status; the default is
// online.
type StatusController struct {
	mu       sync.RWMutex
	statuses map[model.Instrument]model.Status
}

func NewStatusController() *StatusController {
	statuses := make(map[model.Instrument]model.Status, len(model.Instruments))
	for _, in := range model.Instruments {
		statuses[in] = model.StatusOnline
	}
	return &StatusController{statuses: statuses}
}

func (c *StatusController) Get(in model.Instrument) model.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statuses[in]
}

// All returns a copy of the full status map.
func (c *StatusController) All() map[model.Instrument]model.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[model.Instrument]model.Status, len(c.statuses))
	for in, st := range c.statuses {
		out[in] = st
	}
	return out
}

// Apply validates the whole batch first and mutates nothing when any
// entry is invalid. Instruments not named keep their previous status.
func (c *StatusController) Apply(batch []StatusChange) error {
	for _, ch := range batch {
		if _, ok := model.ParseInstrument(string(ch.Instrument)); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownInstrument, ch.Instrument)
		}
		if _, ok := model.ParseStatus(string(ch.Status)); !ok {
			return fmt.Errorf("%w: got %q", ErrInvalidStatus, ch.Status)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range batch {
		c.statuses[ch.Instrument] = ch.Status
	}
	return nil
}
