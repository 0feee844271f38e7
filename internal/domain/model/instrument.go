package model

// Instrument is one tracked price line on the board.
type Instrument string

const (
	InstrumentSpot     Instrument = "spot"
	InstrumentGold9999 Instrument = "gold9999"
	InstrumentGold9650 Instrument = "gold9650"
)

// Instruments lists the closed set in display order.
var Instruments = []Instrument{InstrumentSpot, InstrumentGold9999, InstrumentGold9650}

// ParseInstrument maps a wire string onto the closed set.
func ParseInstrument(s string) (Instrument, bool) {
	switch Instrument(s) {
	case InstrumentSpot, InstrumentGold9999, InstrumentGold9650:
		return Instrument(s), true
	}
	return "", false
}

// PriceRange is the plausible window for one instrument's fields.
// Values outside the window are treated as scrape noise, not prices.
type PriceRange struct {
	Min float64
	Max float64
}

// Contains reports whether v falls inside the range.
func (r PriceRange) Contains(v float64) bool {
	return v > r.Min && v < r.Max
}

// The spot window is in USD/oz, checked before currency conversion.
// The gold windows are in THB, matching the quoted unit.
var ranges = map[Instrument]PriceRange{
	InstrumentSpot:     {Min: 1_000, Max: 10_000},
	InstrumentGold9999: {Min: 30_000, Max: 50_000},
	InstrumentGold9650: {Min: 50_000, Max: 100_000},
}

// RangeFor returns the plausible range for an instrument.
func RangeFor(in Instrument) PriceRange {
	return ranges[in]
}

// SourceGroup names a set of instruments quoted by one upstream page.
// A group is fetched once per tick regardless of how many of its
// members are online.
type SourceGroup string

const (
	GroupGoldTraders SourceGroup = "goldtraders"
	GroupSpot        SourceGroup = "spot"
)

// GroupMembers maps each source group to its instruments.
var GroupMembers = map[SourceGroup][]Instrument{
	GroupGoldTraders: {InstrumentGold9999, InstrumentGold9650},
	GroupSpot:        {InstrumentSpot},
}

// SourceLabel and UnitLabel are the fixed display fields carried on
// every quote for an instrument.
func SourceLabel(in Instrument) string {
	if in == InstrumentSpot {
		return "Gold Spot"
	}
	return "สมาคมค้าทองคำ"
}

func UnitLabel(in Instrument) string {
	if in == InstrumentSpot {
		return "USD/oz"
	}
	return "บาท"
}
