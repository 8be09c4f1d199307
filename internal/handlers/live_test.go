package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"miningdash/internal/models"
	"miningdash/internal/store"
	"miningdash/internal/websocket"

	gorilla "github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

func TestHealth(t *testing.T) {
	rr := doRequest(t, newTestHandler(testDeps{}), http.MethodGet, "/health", nil, "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("unexpected health response: %d %s", rr.Code, rr.Body.String())
	}
}

func TestGetPricesServesSnapshot(t *testing.T) {
	rr := doRequest(t, newTestHandler(testDeps{}), http.MethodGet, "/api/prices", nil, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string]map[string]float64
	decodeBody(t, rr, &body)
	if body["bitcoin"]["usd"] != 43287.5 || body["ethereum"]["usd_24h_change"] != -1.23 {
		t.Fatalf("unexpected snapshot: %v", body)
	}
}

func TestCalculateProfitability(t *testing.T) {
	h := newTestHandler(testDeps{})
	rr := doRequest(t, h, http.MethodPost, "/api/calculate-profitability", map[string]any{
		"cryptocurrency":   "BTC",
		"hashRate":         1000,
		"hashRateUnit":     "GH/s",
		"powerConsumption": 1000,
		"electricityCost":  0.1,
	}, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var body map[string]float64
	decodeBody(t, rr, &body)
	// 1 TH/s * 0.000015 BTC at the fallback price of 43287.50; 24 kWh at $0.10.
	if body["cryptoAmount"] != 0.000015 {
		t.Fatalf("unexpected crypto amount: %v", body["cryptoAmount"])
	}
	if body["costs"] != 2.4 {
		t.Fatalf("unexpected costs: %v", body["costs"])
	}
	wantRevenue, _ := decimal.RequireFromString("0.000015").Mul(decimal.RequireFromString("43287.50")).Float64()
	if body["revenue"] != wantRevenue {
		t.Fatalf("unexpected revenue: %v", body["revenue"])
	}
}

func TestCalculateProfitabilityMissingParameters(t *testing.T) {
	h := newTestHandler(testDeps{})
	base := map[string]any{"cryptocurrency": "ETH", "hashRate": 500, "hashRateUnit": "MH/s", "powerConsumption": 1200, "electricityCost": 0.12}
	for _, field := range []string{"cryptocurrency", "hashRate", "powerConsumption", "electricityCost"} {
		body := map[string]any{}
		for k, v := range base {
			body[k] = v
		}
		delete(body, field)
		if rr := doRequest(t, h, http.MethodPost, "/api/calculate-profitability", body, ""); rr.Code != http.StatusBadRequest {
			t.Fatalf("missing %s: expected 400, got %d", field, rr.Code)
		}
	}
}

func TestSetPortfolio(t *testing.T) {
	var gotAmount decimal.Decimal
	h := newTestHandler(testDeps{portfolio: stubPortfolioStore{setFn: func(_ context.Context, ownerID, crypto string, amount decimal.Decimal) (models.PortfolioBalance, error) {
		gotAmount = amount
		return models.PortfolioBalance{UserID: ownerID, Cryptocurrency: crypto, Amount: amount}, nil
	}}})
	rr := doRequest(t, h, http.MethodPost, "/api/portfolio", map[string]any{"cryptocurrency": "BTC", "amount": "0.25"}, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !gotAmount.Equal(decimal.RequireFromString("0.25")) {
		t.Fatalf("unexpected amount: %s", gotAmount)
	}
	if rr := doRequest(t, h, http.MethodPost, "/api/portfolio", map[string]any{"cryptocurrency": "BTC", "amount": "0"}, "user-1"); rr.Code != http.StatusOK {
		t.Fatalf("zero balance should be accepted, got %d", rr.Code)
	}
	if rr := doRequest(t, h, http.MethodPost, "/api/portfolio", map[string]any{"cryptocurrency": "BTC", "amount": -1}, "user-1"); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative amount, got %d", rr.Code)
	}
	if rr := doRequest(t, h, http.MethodPost, "/api/portfolio", map[string]any{"cryptocurrency": "BTC"}, "user-1"); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing amount, got %d", rr.Code)
	}
}

func TestListTransactionsLimit(t *testing.T) {
	var gotLimit int
	h := newTestHandler(testDeps{transactions: stubTransactionStore{listFn: func(_ context.Context, _ string, limit int) ([]models.MiningTransaction, error) {
		gotLimit = limit
		return []models.MiningTransaction{}, nil
	}}})
	cases := []struct {
		query string
		want  int
	}{
		{query: "", want: 10},
		{query: "?limit=25", want: 25},
		{query: "?limit=5000", want: 100},
		{query: "?limit=-3", want: 10},
		{query: "?limit=abc", want: 10},
	}
	for _, tc := range cases {
		rr := doRequest(t, h, http.MethodGet, "/api/transactions"+tc.query, nil, "user-1")
		if rr.Code != http.StatusOK {
			t.Fatalf("%q: expected 200, got %d", tc.query, rr.Code)
		}
		if gotLimit != tc.want {
			t.Fatalf("%q: expected limit %d, got %d", tc.query, tc.want, gotLimit)
		}
	}
}

func TestUpsertExchange(t *testing.T) {
	var got store.ExchangeConnectionInput
	h := newTestHandler(testDeps{exchanges: stubExchangeStore{upsertFn: func(_ context.Context, ownerID string, input store.ExchangeConnectionInput) (models.ExchangeConnection, error) {
		got = input
		return models.ExchangeConnection{UserID: ownerID, Exchange: input.Exchange, IsConnected: input.IsConnected, Settings: input.Settings}, nil
	}}})
	rr := doRequest(t, h, http.MethodPost, "/api/exchanges", map[string]any{
		"exchange":    "binance",
		"isConnected": true,
		"apiKeyId":    "key-1",
		"settings":    map[string]any{"autoSell": true, "threshold": 0.5, "pair": "BTCUSDT"},
	}, "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got.Exchange != "binance" || !got.IsConnected || got.APIKeyID == nil || *got.APIKeyID != "key-1" {
		t.Fatalf("unexpected input: %#v", got)
	}
	if got.Settings["threshold"] != 0.5 || got.Settings["autoSell"] != true {
		t.Fatalf("unexpected settings: %v", got.Settings)
	}
}

func TestUpsertExchangeRejectsNestedSettings(t *testing.T) {
	h := newTestHandler(testDeps{exchanges: stubExchangeStore{upsertFn: func(context.Context, string, store.ExchangeConnectionInput) (models.ExchangeConnection, error) {
		t.Fatal("connection must not be stored")
		return models.ExchangeConnection{}, nil
	}}})
	for _, settings := range []any{map[string]any{"nested": map[string]any{"a": 1}}, map[string]any{"list": []int{1}}, map[string]any{"nothing": nil}} {
		rr := doRequest(t, h, http.MethodPost, "/api/exchanges", map[string]any{"exchange": "kraken", "settings": settings}, "user-1")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%v: expected 400, got %d", settings, rr.Code)
		}
	}
	if rr := doRequest(t, h, http.MethodPost, "/api/exchanges", map[string]any{"isConnected": true}, "user-1"); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing exchange, got %d", rr.Code)
	}
}

func TestWSRejectsInvalidToken(t *testing.T) {
	rr := doRequest(t, newTestHandler(testDeps{}), http.MethodGet, "/ws?token=garbage", nil, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func dialWS(t *testing.T, server *httptest.Server, query string) *gorilla.Conn {
	t.Helper()
	url := strings.Replace(server.URL, "http://", "ws://", 1) + "/ws" + query
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readWS(t *testing.T, conn *gorilla.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	return msg
}

func TestWSSendsSnapshotThenOwnerUpdates(t *testing.T) {
	hub := websocket.NewHub()
	server := httptest.NewServer(newTestHandler(testDeps{hub: hub}).Routes())
	defer server.Close()

	owned := dialWS(t, server, "?token="+tokenFor(t, "user-1"))
	anon := dialWS(t, server, "")
	for _, conn := range []*gorilla.Conn{owned, anon} {
		msg := readWS(t, conn)
		if msg["type"] != websocket.TypePriceUpdate {
			t.Fatalf("expected price_update first, got %v", msg["type"])
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count() < 2 {
		if time.Now().After(deadline) {
			t.Fatal("subscribers were not registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	hub.PublishTo("user-1", websocket.MiningUpdate(models.MiningStats{ActiveMinerCount: 4}))
	hub.Publish(websocket.PriceUpdate(models.PriceSnapshot{}))

	first := readWS(t, owned)
	if first["type"] != websocket.TypeMiningUpdate {
		t.Fatalf("expected owner to receive mining_update, got %v", first["type"])
	}
	if got := readWS(t, anon); got["type"] != websocket.TypePriceUpdate {
		t.Fatalf("anonymous subscriber should only see prices, got %v", got["type"])
	}
}
