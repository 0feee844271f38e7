package extract

import (
	"errors"
	"testing"

	"goldboard/internal/domain/model"
)

const tradersPage = `สมาคมค้าทองคำ
ราคาทองคำวันนี้ Gold Price by GTA
ทองคำแท่ง 96.5%
ขายออก 62,100.00
รับซื้อ 62,000.00
ทองรูปพรรณ 96.5%
ขายออก 62,900.00
รับซื้อ 60,949.00
ราคาทองอ้างอิง Foreign Market
ฮ่องกง 37,385.00 37,485.00
`

func TestGoldTradersFullPage(t *testing.T) {
	ex := NewGoldTraders()
	fields, err := ex.Extract(tradersPage)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	p9650 := fields[model.InstrumentGold9650]
	if p9650.Buy != 62000 || p9650.Sell != 62100 {
		t.Errorf("gold9650: expected buy=62000 sell=62100, got buy=%v sell=%v", p9650.Buy, p9650.Sell)
	}

	p9999 := fields[model.InstrumentGold9999]
	if p9999.Buy != 37385 || p9999.Sell != 37485 {
		t.Errorf("gold9999: expected buy=37385 sell=37485, got buy=%v sell=%v", p9999.Buy, p9999.Sell)
	}
}

func TestGoldTradersSeparateLines(t *testing.T) {
	content := "ทองคำแท่ง 96.5%\nขายออก 62,100.00\nรับซื้อ 62,000.00\n"

	ex := NewGoldTraders()
	fields, err := ex.Extract(content)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	p := fields[model.InstrumentGold9650]
	if p.Buy != 62000 {
		t.Errorf("expected buy=62000, got %v", p.Buy)
	}
	if p.Sell != 62100 {
		t.Errorf("expected sell=62100, got %v", p.Sell)
	}
}

func TestGoldTradersInlineRow(t *testing.T) {
	// tab-flattened table row: sell label precedes buy label
	content := "ทองคำแท่ง 96.5%\tขายออก\t62,100.00\tรับซื้อ\t62,000.00"

	ex := NewGoldTraders()
	fields, err := ex.Extract(content)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	p := fields[model.InstrumentGold9650]
	if p.Buy != 62000 || p.Sell != 62100 {
		t.Errorf("expected buy=62000 sell=62100, got buy=%v sell=%v", p.Buy, p.Sell)
	}
}

func TestHongKongPairOrdering(t *testing.T) {
	// higher number first: min must become buy, max sell
	content := "ฮ่องกง 37,485.00 37,385.00"

	ex := NewGoldTraders()
	fields, err := ex.Extract(content)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	p := fields[model.InstrumentGold9999]
	if p.Buy != 37385 || p.Sell != 37485 {
		t.Errorf("expected buy=37385 sell=37485, got buy=%v sell=%v", p.Buy, p.Sell)
	}
}

func TestFirstNonZeroFieldWins(t *testing.T) {
	first := Strategy{Name: "first", Run: func(string) Fields {
		return Fields{model.InstrumentGold9650: {Sell: 62100}}
	}}
	second := Strategy{Name: "second", Run: func(string) Fields {
		return Fields{model.InstrumentGold9650: {Buy: 62000, Sell: 99_999}}
	}}

	ex := &Extractor{family: model.GroupGoldTraders, strategies: []Strategy{first, second}}
	fields, err := ex.Extract("whatever")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	p := fields[model.InstrumentGold9650]
	if p.Sell != 62100 {
		t.Errorf("later strategy overwrote sell: got %v", p.Sell)
	}
	if p.Buy != 62000 {
		t.Errorf("later strategy should fill empty buy: got %v", p.Buy)
	}
}

func TestValidatorRejectsOutOfRange(t *testing.T) {
	noisy := Strategy{Name: "noisy", Run: func(string) Fields {
		return Fields{model.InstrumentGold9650: {Buy: 62000, Sell: 620_100}}
	}}

	ex := &Extractor{family: model.GroupGoldTraders, strategies: []Strategy{noisy}}
	fields, err := ex.Extract("")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	p := fields[model.InstrumentGold9650]
	if p.Sell != 0 {
		t.Errorf("out-of-range sell not rejected: got %v", p.Sell)
	}
	if p.Buy != 62000 {
		t.Errorf("in-range buy lost: got %v", p.Buy)
	}
}

func TestAllFieldsRejectedIsFailure(t *testing.T) {
	noisy := Strategy{Name: "noisy", Run: func(string) Fields {
		return Fields{model.InstrumentGold9650: {Buy: 1, Sell: 620_100}}
	}}

	ex := &Extractor{family: model.GroupGoldTraders, strategies: []Strategy{noisy}}
	if _, err := ex.Extract(""); !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestEmptyContentFails(t *testing.T) {
	ex := NewGoldTraders()
	if _, err := ex.Extract("nothing to see here"); !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestParseNumberStripsSeparators(t *testing.T) {
	cases := map[string]float64{
		"62,100.00": 62100,
		"1,234,567": 1234567,
		"4095.50":   4095.5,
		"96.5":      96.5,
		"not a num": 0,
		",":         0,
	}
	for in, want := range cases {
		if got := parseNumber(in); got != want {
			t.Errorf("parseNumber(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSpotMarkupConversion(t *testing.T) {
	content := `<div data-test="instrument-price-last" class="text-2xl">4,095.50</div>`

	ex := NewSpot(35)
	fields, err := ex.Extract(content)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	p := fields[model.InstrumentSpot]
	want := 4095.50 * 35
	if p.Buy != want || p.Sell != want {
		t.Errorf("expected buy=sell=%v, got buy=%v sell=%v", want, p.Buy, p.Sell)
	}
}

func TestSpotLabeledLine(t *testing.T) {
	content := "Commodities\nGold Spot 2,412.30 +0.5%\n"

	ex := NewSpot(1)
	fields, err := ex.Extract(content)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	p := fields[model.InstrumentSpot]
	if p.Buy != 2412.3 {
		t.Errorf("expected buy=2412.3, got %v", p.Buy)
	}
}

func TestSpotOutOfRangeFails(t *testing.T) {
	ex := NewSpot(35)
	if _, err := ex.Extract("price today: 12.50 only"); !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}
