// Package extract turns raw page content into validated price
// candidates. Source pages are unstructured and drift over time, so a
// family of ordered heuristic strategies is tried per page; each
// strategy is a pure function and independently testable.
package extract

import (
	"errors"

	"github.com/rs/zerolog/log"

	"goldboard/internal/domain/model"
)

// ErrExtractionFailed means no strategy produced a single in-range
// field for the family. Callers keep the previous quote; zero values
// stay reserved for the stop-status sentinel.
var ErrExtractionFailed = errors.New("no valid price field extracted")

// Pair is one candidate buy/sell pair. A zero field means "not found".
type Pair struct {
	Buy  float64
	Sell float64
}

// Fields maps instruments of one family to their candidate pairs.
type Fields map[model.Instrument]Pair

// Strategy is one heuristic parsing method. Strategies may populate
// any subset of the family's fields.
type Strategy struct {
	Name string
	Run  func(content string) Fields
}

// Extractor runs an ordered strategy list for one source family.
type Extractor struct {
	family     model.SourceGroup
	strategies []Strategy

	// scale is applied per instrument after range validation, e.g.
	// spot's currency conversion. Validation happens in source units.
	scale map[model.Instrument]float64
}

// NewGoldTraders builds the extractor for the gold traders page
// (gold9999 from the Hong Kong reference block, gold9650 from the
// bar/ornament rows).
func NewGoldTraders() *Extractor {
	return &Extractor{
		family: model.GroupGoldTraders,
		strategies: []Strategy{
			{Name: "rowScan", Run: tradersRowScan},
			{Name: "sectionScan", Run: tradersSectionScan},
			{Name: "barRegex", Run: tradersBarRegex},
			{Name: "hongkongRegex", Run: tradersHongKongRegex},
		},
	}
}

// NewSpot builds the extractor for the spot page. Candidates are
// validated in USD/oz and then scaled by thbPerUSD. The rate is an
// operator-supplied approximation, not a market rate.
func NewSpot(thbPerUSD float64) *Extractor {
	return &Extractor{
		family: model.GroupSpot,
		strategies: []Strategy{
			{Name: "markupPrice", Run: spotMarkupPrice},
			{Name: "labeledPrice", Run: spotLabeledPrice},
			{Name: "lonePrice", Run: spotLonePrice},
		},
		scale: map[model.Instrument]float64{model.InstrumentSpot: thbPerUSD},
	}
}

// Family returns the source group this extractor serves.
func (e *Extractor) Family() model.SourceGroup { return e.family }

// Extract runs the strategies in priority order and merges their
// output per field: the first non-zero value for a field wins and
// later strategies never overwrite it. Out-of-range fields are zeroed
// with a warning. If after validation every field of the family is
// zero, ErrExtractionFailed is returned.
func (e *Extractor) Extract(content string) (Fields, error) {
	merged := Fields{}
	for _, st := range e.strategies {
		if complete(merged, model.GroupMembers[e.family]) {
			break
		}
		got := st.Run(content)
		for in, p := range got {
			cur := merged[in]
			if cur.Buy == 0 && p.Buy != 0 {
				cur.Buy = p.Buy
			}
			if cur.Sell == 0 && p.Sell != 0 {
				cur.Sell = p.Sell
			}
			merged[in] = cur
		}
	}

	found := false
	for in, p := range merged {
		r := model.RangeFor(in)
		if p.Buy != 0 && !r.Contains(p.Buy) {
			log.Warn().Str("instrument", string(in)).Str("field", "buy").
				Float64("value", p.Buy).Msg("rejecting out-of-range price")
			p.Buy = 0
		}
		if p.Sell != 0 && !r.Contains(p.Sell) {
			log.Warn().Str("instrument", string(in)).Str("field", "sell").
				Float64("value", p.Sell).Msg("rejecting out-of-range price")
			p.Sell = 0
		}
		merged[in] = p
		if p.Buy != 0 || p.Sell != 0 {
			found = true
		}
	}
	if !found {
		return nil, ErrExtractionFailed
	}

	for in, factor := range e.scale {
		if p, ok := merged[in]; ok && factor > 0 {
			p.Buy *= factor
			p.Sell *= factor
			merged[in] = p
		}
	}
	return merged, nil
}

func complete(f Fields, members []model.Instrument) bool {
	for _, in := range members {
		p := f[in]
		if p.Buy == 0 || p.Sell == 0 {
			return false
		}
	}
	return true
}
