package extract

import (
	"regexp"
	"strings"

	"goldboard/internal/domain/model"
)

// Thai labels on the gold traders page. The page quotes the 96.5%
// bar/ornament rows with รับซื้อ (buy) / ขายออก (sell) and the foreign
// reference block with per-market open/close columns.
const (
	kwBar      = "ทองคำแท่ง"
	kwOrnament = "ทองรูปพรรณ"
	kwBuy      = "รับซื้อ"
	kwSell     = "ขายออก"
	kwHongKong = "ฮ่องกง"
	kwOpen     = "ราคาเปิด"
	kwClose    = "ราคาปิด"
	kwRefHdr   = "ราคาทองอ้างอิง"
)

func contains965(lower string) bool {
	return strings.Contains(lower, "96.5") || strings.Contains(lower, "96.50")
}

// harvestBuySell picks in-range numbers off one line and assigns each
// to the buy/sell label closest before it, first hit wins. A line
// carrying a single label attributes every number to that label.
func harvestBuySell(line string, r model.PriceRange, p *Pair) {
	buyIdx := strings.Index(line, kwBuy)
	sellIdx := strings.Index(line, kwSell)
	if buyIdx < 0 && sellIdx < 0 {
		return
	}
	for _, loc := range numberPattern.FindAllStringIndex(line, -1) {
		n := parseNumber(line[loc[0]:loc[1]])
		if !r.Contains(n) {
			continue
		}
		afterBuy := buyIdx >= 0 && loc[0] > buyIdx
		afterSell := sellIdx >= 0 && loc[0] > sellIdx
		switch {
		case afterBuy && (!afterSell || buyIdx > sellIdx):
			if p.Buy == 0 {
				p.Buy = n
			}
		case afterSell:
			if p.Sell == 0 {
				p.Sell = n
			}
		case buyIdx >= 0 && sellIdx < 0:
			if p.Buy == 0 {
				p.Buy = n
			}
		case sellIdx >= 0:
			if p.Sell == 0 {
				p.Sell = n
			}
		}
	}
}

// tradersRowScan walks the page line by line looking for the 96.5%
// bar/ornament headers and the Hong Kong reference block, then
// harvests prices from the header line and the rows just below it.
// Tables flatten to adjacent lines, so a small fixed window is enough.
func tradersRowScan(content string) Fields {
	lines := strings.Split(content, "\n")
	f := Fields{}
	r9650 := model.RangeFor(model.InstrumentGold9650)
	r9999 := model.RangeFor(model.InstrumentGold9999)

	for i, line := range lines {
		lower := strings.ToLower(line)

		if (strings.Contains(lower, kwBar) || strings.Contains(lower, kwOrnament)) && contains965(lower) {
			p := f[model.InstrumentGold9650]
			for j := i; j < len(lines) && j < i+5; j++ {
				harvestBuySell(lines[j], r9650, &p)
			}
			f[model.InstrumentGold9650] = p
		}

		if strings.Contains(lower, "99.99") || strings.Contains(lower, "99.5") || strings.Contains(lower, kwHongKong) {
			p := f[model.InstrumentGold9999]
			for j := i; j < len(lines) && j < i+10; j++ {
				next := lines[j]
				nextLower := strings.ToLower(next)

				if strings.Contains(nextLower, kwHongKong) {
					var hit []float64
					for _, n := range numbersIn(next) {
						if r9999.Contains(n) {
							hit = append(hit, n)
						}
					}
					if len(hit) >= 2 {
						lo, hi := hit[0], hit[1]
						if lo > hi {
							lo, hi = hi, lo
						}
						if p.Buy == 0 {
							p.Buy = lo
						}
						if p.Sell == 0 {
							p.Sell = hi
						}
					}
				}

				// open precedes close: ราคาเปิด contains ปิด as a substring
				if strings.Contains(nextLower, kwOpen) || strings.Contains(nextLower, "open") {
					if p.Buy == 0 {
						p.Buy = firstInRange(next, r9999.Min, r9999.Max)
					}
				} else if strings.Contains(nextLower, kwClose) || strings.Contains(nextLower, "close") {
					if p.Sell == 0 {
						p.Sell = firstInRange(next, r9999.Min, r9999.Max)
					}
				}
			}
			f[model.InstrumentGold9999] = p
		}
	}
	return f
}

// tradersSectionScan is the full-text fallback: track which price
// section the cursor is in via header lines and pick labeled numbers
// out of any line inside that section.
func tradersSectionScan(content string) Fields {
	f := Fields{}
	r9650 := model.RangeFor(model.InstrumentGold9650)
	r9999 := model.RangeFor(model.InstrumentGold9999)

	in9999 := false
	in9650 := false
	found9650Header := false

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)

		switch {
		case strings.Contains(lower, "99.99") || strings.Contains(lower, "99.5") ||
			(strings.Contains(lower, kwHongKong) && strings.Contains(lower, "ราคา")):
			in9999, in9650 = true, false
		case (strings.Contains(lower, kwBar) && contains965(lower)) ||
			(strings.Contains(lower, "gold price by gta") && contains965(lower)):
			in9650, in9999 = true, false
			found9650Header = true
		case strings.Contains(lower, kwOrnament) && contains965(lower):
			in9650, in9999 = true, false
		case strings.Contains(lower, "foreign market") || strings.Contains(lower, kwRefHdr):
			in9999, in9650 = true, false
		}

		if in9650 && found9650Header {
			p := f[model.InstrumentGold9650]
			if (strings.Contains(lower, kwBuy) || strings.Contains(lower, "buy")) && p.Buy == 0 {
				p.Buy = firstInRange(line, r9650.Min, r9650.Max)
			}
			if (strings.Contains(lower, kwSell) || strings.Contains(lower, "sell")) && p.Sell == 0 {
				p.Sell = firstInRange(line, r9650.Min, r9650.Max)
			}
			f[model.InstrumentGold9650] = p
		}

		if in9999 {
			p := f[model.InstrumentGold9999]
			if (strings.Contains(lower, kwOpen) || strings.Contains(lower, "open")) && p.Buy == 0 {
				p.Buy = firstInRange(line, r9999.Min, r9999.Max)
			}
			if (strings.Contains(lower, kwClose) || strings.Contains(lower, "close")) && p.Sell == 0 {
				p.Sell = firstInRange(line, r9999.Min, r9999.Max)
			}
			f[model.InstrumentGold9999] = p
		}
	}
	return f
}

// Anchored formats seen on the live page, e.g.
// "ทองคำแท่ง 96.5%  ขายออก  62,100.00  รับซื้อ  62,000.00".
var (
	barPattern      = regexp.MustCompile(`ทองคำแท่ง\s*96\.?5%?[^\d]*ขายออก[^\d]*([\d,]+\.?\d*)[^\d]*รับซื้อ[^\d]*([\d,]+\.?\d*)`)
	barLoosePattern = regexp.MustCompile(`ทองคำแท่ง[^\d]*([\d,]+\.?\d*)[^\d]*([\d,]+\.?\d*)`)
	hongKongPattern = regexp.MustCompile(`ฮ่องกง[^\d]*([\d,]+\.?\d*)[^\d]*([\d,]+\.?\d*)`)
)

func tradersBarRegex(content string) Fields {
	f := Fields{}
	r := model.RangeFor(model.InstrumentGold9650)

	if m := barPattern.FindStringSubmatch(content); m != nil {
		sell, buy := parseNumber(m[1]), parseNumber(m[2])
		if r.Contains(buy) && r.Contains(sell) {
			f[model.InstrumentGold9650] = Pair{Buy: buy, Sell: sell}
			return f
		}
	}

	// unlabeled fallback: two adjacent numbers, lower one is the buy
	if m := barLoosePattern.FindStringSubmatch(content); m != nil {
		n1, n2 := parseNumber(m[1]), parseNumber(m[2])
		if r.Contains(n1) && r.Contains(n2) {
			if n1 > n2 {
				n1, n2 = n2, n1
			}
			f[model.InstrumentGold9650] = Pair{Buy: n1, Sell: n2}
		}
	}
	return f
}

func tradersHongKongRegex(content string) Fields {
	f := Fields{}
	r := model.RangeFor(model.InstrumentGold9999)

	if m := hongKongPattern.FindStringSubmatch(content); m != nil {
		n1, n2 := parseNumber(m[1]), parseNumber(m[2])
		if r.Contains(n1) && r.Contains(n2) {
			if n1 > n2 {
				n1, n2 = n2, n1
			}
			f[model.InstrumentGold9999] = Pair{Buy: n1, Sell: n2}
		}
	}
	return f
}
