package model

import (
	"strings"
	"time"
)

// Quote is the current buy/sell pair for one instrument.
// Buy and sell both zero is reserved for the stop-status sentinel and
// never produced by extraction.
type Quote struct {
	Buy    float64 `json:"buy"`
	Sell   float64 `json:"sell"`
	Source string  `json:"source"`
	Unit   string  `json:"unit"`
}

// ZeroQuote is the stop sentinel for an instrument, keeping the fixed
// source and unit labels.
func ZeroQuote(in Instrument) Quote {
	return Quote{Source: SourceLabel(in), Unit: UnitLabel(in)}
}

// Status is the operator-controlled update mode of one instrument.
type Status string

const (
	StatusOnline Status = "online"
	StatusPause  Status = "pause"
	StatusStop   Status = "stop"
)

// ParseStatus maps a wire string onto the closed status set.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusOnline, StatusPause, StatusStop:
		return Status(s), true
	}
	return "", false
}

// Side is the direction of a recorded trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide accepts buy/sell case-insensitively.
func ParseSide(s string) (Side, bool) {
	switch Side(strings.ToLower(s)) {
	case SideBuy, SideSell:
		return Side(strings.ToLower(s)), true
	}
	return "", false
}

// Transaction is one recorded trade. Immutable once created.
type Transaction struct {
	ID       string    `json:"id"`
	Symbol   string    `json:"symbol"`
	Price    float64   `json:"price"`
	Side     Side      `json:"side"`
	DateTime time.Time `json:"dateTime"`
}

// Snapshot is the full board state pushed to subscribers. It is
// internally consistent: no instrument appears partially updated.
type Snapshot struct {
	Prices       map[Instrument]Quote  `json:"prices"`
	Statuses     map[Instrument]Status `json:"statuses"`
	Transactions []Transaction         `json:"transactions"`
}
