package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"goldboard/internal/application/port"
	"goldboard/internal/application/service/extract"
	"goldboard/internal/application/usecase/board"
	"goldboard/internal/domain/model"
)

const tradersFixture = `ทองคำแท่ง 96.5%
ขายออก 62,100.00
รับซื้อ 62,000.00
ฮ่องกง 37,385.00 37,485.00
`

func newTestServer(t *testing.T) (*httptest.Server, *board.Service, *Hub) {
	t.Helper()

	fetcher := port.PageFetcherFunc(func(context.Context, string) (string, error) {
		return tradersFixture, nil
	})
	svc := board.NewService(board.ServiceDeps{
		Fetcher: fetcher,
		Sources: []board.Source{
			{Group: model.GroupGoldTraders, URL: "traders://", Extractor: extract.NewGoldTraders()},
		},
		Interval: time.Hour,
	})
	hub := NewHub(svc.Snapshot)
	svc.AttachSinks(hub)
	svc.Tick(context.Background())

	ts := httptest.NewServer(New(svc, hub).Handler())
	t.Cleanup(ts.Close)
	return ts, svc, hub
}

func TestPricesEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/prices")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var prices map[model.Instrument]model.Quote
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if q := prices[model.InstrumentGold9650]; q.Buy != 62000 || q.Sell != 62100 {
		t.Errorf("gold9650: got %+v", q)
	}

	del, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/prices", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp2, err := http.DefaultClient.Do(del)
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d, want 405", resp2.StatusCode)
	}
}

func TestStatusEndpoint(t *testing.T) {
	ts, svc, _ := newTestServer(t)

	body := `{"states":[{"priceType":"gold9650","status":"pause"},{"priceType":"spot","status":"stop"}]}`
	resp, err := http.Post(ts.URL+"/api/status", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if st := svc.Statuses()[model.InstrumentGold9650]; st != model.StatusPause {
		t.Errorf("gold9650 status = %s", st)
	}
	if st := svc.Statuses()[model.InstrumentSpot]; st != model.StatusStop {
		t.Errorf("spot status = %s", st)
	}

	resp2, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	var statuses map[model.Instrument]model.Status
	if err := json.NewDecoder(resp2.Body).Decode(&statuses); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if statuses[model.InstrumentGold9999] != model.StatusOnline {
		t.Errorf("gold9999 status = %s", statuses[model.InstrumentGold9999])
	}
}

func TestStatusEndpointRejectsInvalidBatch(t *testing.T) {
	ts, svc, _ := newTestServer(t)

	// one valid change bundled with an invalid one: nothing may apply
	body := `{"states":[{"priceType":"gold9650","status":"pause"},{"priceType":"gold9999","status":"offline"}]}`
	resp, err := http.Post(ts.URL+"/api/status", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if st := svc.Statuses()[model.InstrumentGold9650]; st != model.StatusOnline {
		t.Errorf("rejected batch mutated state: gold9650 = %s", st)
	}

	resp2, err := http.Post(ts.URL+"/api/status", "application/json", strings.NewReader(`{"states":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Errorf("empty states status = %d, want 400", resp2.StatusCode)
	}
}

func TestTransactionsEndpoint(t *testing.T) {
	ts, svc, _ := newTestServer(t)

	payload, _ := json.Marshal(map[string]any{"symbol": "GOLD", "price": 62050.0, "side": "buy"})
	resp, err := http.Post(ts.URL+"/api/transactions", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out struct {
		Success     bool              `json:"success"`
		Transaction model.Transaction `json:"transaction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !out.Success || out.Transaction.ID == "" || out.Transaction.Side != model.SideBuy {
		t.Errorf("unexpected response: %+v", out)
	}

	// legacy clients send the side under "state"
	legacy := `{"symbol":"GOLD","price":61900,"state":"sell"}`
	resp2, err := http.Post(ts.URL+"/api/transactions", "application/json", strings.NewReader(legacy))
	if err != nil {
		t.Fatal(err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("legacy key status = %d", resp2.StatusCode)
	}

	if got := len(svc.Transactions(0)); got != 2 {
		t.Errorf("transaction count = %d, want 2", got)
	}

	resp3, err := http.Get(ts.URL + "/api/transactions?limit=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp3.Body.Close()
	var txs []model.Transaction
	if err := json.NewDecoder(resp3.Body).Decode(&txs); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(txs) != 1 || txs[0].Side != model.SideSell {
		t.Errorf("limited list wrong: %+v", txs)
	}
}

func TestTransactionsEndpointValidation(t *testing.T) {
	ts, svc, _ := newTestServer(t)

	cases := []string{
		`{"symbol":"GOLD","price":62050,"side":"hold"}`,
		`{"symbol":"GOLD","price":-5,"side":"buy"}`,
	}
	for _, body := range cases {
		resp, err := http.Post(ts.URL+"/api/transactions", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, resp.StatusCode)
		}
	}
	if got := len(svc.Transactions(0)); got != 0 {
		t.Errorf("rejected submissions were recorded: %d", got)
	}

	resp, err := http.Get(ts.URL + "/api/transactions?limit=abc")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", resp.StatusCode)
	}
}

func TestHubInitialDataBeforeUpdates(t *testing.T) {
	ts, svc, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	var first wsMessage
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if first.Type != msgInitialData {
		t.Fatalf("first message type = %s, want %s", first.Type, msgInitialData)
	}
	snap, ok := first.Data.(map[string]any)
	if !ok || snap["prices"] == nil || snap["statuses"] == nil {
		t.Errorf("snapshot payload incomplete: %v", first.Data)
	}

	svc.Tick(context.Background())

	var second wsMessage
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if second.Type != msgPriceUpdate {
		t.Errorf("second message type = %s, want %s", second.Type, msgPriceUpdate)
	}

	if hub.ClientCount() != 1 {
		t.Errorf("client count = %d, want 1", hub.ClientCount())
	}
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	ts, _, hub := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client still registered after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
