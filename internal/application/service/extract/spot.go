package extract

import (
	"regexp"
	"strings"

	"goldboard/internal/domain/model"
)

// The spot page is a rendered quote widget; the price survives in the
// markup under a data-test attribute, or as a labeled line once the
// markup drifts.
var spotMarkupPattern = regexp.MustCompile(`data-test="instrument-price-last"[^>]*>\s*([\d,]+\.?\d*)`)

func spotMarkupPrice(content string) Fields {
	f := Fields{}
	r := model.RangeFor(model.InstrumentSpot)
	if m := spotMarkupPattern.FindStringSubmatch(content); m != nil {
		if n := parseNumber(m[1]); r.Contains(n) {
			f[model.InstrumentSpot] = Pair{Buy: n, Sell: n}
		}
	}
	return f
}

func spotLabeledPrice(content string) Fields {
	f := Fields{}
	r := model.RangeFor(model.InstrumentSpot)
	for _, line := range strings.Split(content, "\n") {
		lower := strings.ToLower(line)
		labeled := strings.Contains(lower, "xau") ||
			(strings.Contains(lower, "gold") && strings.Contains(lower, "spot"))
		if !labeled {
			continue
		}
		if n := firstInRange(line, r.Min, r.Max); n != 0 {
			f[model.InstrumentSpot] = Pair{Buy: n, Sell: n}
			break
		}
	}
	return f
}

// spotLonePrice is the last resort: the first number anywhere on the
// page that fits the plausible spot window.
func spotLonePrice(content string) Fields {
	f := Fields{}
	r := model.RangeFor(model.InstrumentSpot)
	if n := firstInRange(content, r.Min, r.Max); n != 0 {
		f[model.InstrumentSpot] = Pair{Buy: n, Sell: n}
	}
	return f
}
