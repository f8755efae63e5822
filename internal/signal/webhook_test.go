package signal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestWebhook() (*Webhook, *Queue) {
	q := NewQueue()
	w := NewWebhook(WebhookConfig{Addr: ":0", Path: "/signal"}, q, nil)
	return w, q
}

func TestWebhook_AcceptsValidSignal(t *testing.T) {
	w, q := newTestWebhook()

	body := `{"symbol": "aapl", "side": "buy", "ref_price": "101.50", "reason": "breakout"}`
	req := httptest.NewRequest(http.MethodPost, "/signal", strings.NewReader(body))
	rec := httptest.NewRecorder()
	w.handleSignal(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}

	signals := q.Poll(context.Background())
	if len(signals) != 1 {
		t.Fatalf("queued signals = %d, want 1", len(signals))
	}
	sig := signals[0]
	if sig.Symbol != "AAPL" {
		t.Errorf("symbol = %s, want normalized AAPL", sig.Symbol)
	}
	if sig.RefPrice.String() != "101.5" {
		t.Errorf("ref price = %s, want 101.5", sig.RefPrice)
	}
	if sig.Reason != "breakout" {
		t.Errorf("reason = %s, want breakout", sig.Reason)
	}
}

func TestWebhook_RejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `symbol=AAPL`},
		{name: "empty symbol", body: `{"symbol": "", "side": "BUY", "ref_price": "100"}`},
		{name: "bad side", body: `{"symbol": "AAPL", "side": "HOLD", "ref_price": "100"}`},
		{name: "zero price", body: `{"symbol": "AAPL", "side": "BUY", "ref_price": "0"}`},
		{name: "negative price", body: `{"symbol": "AAPL", "side": "BUY", "ref_price": "-5"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, q := newTestWebhook()

			req := httptest.NewRequest(http.MethodPost, "/signal", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			w.handleSignal(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if q.Len() != 0 {
				t.Errorf("queue length = %d, want 0", q.Len())
			}
		})
	}
}

func TestWebhook_RejectsGet(t *testing.T) {
	w, _ := newTestWebhook()

	req := httptest.NewRequest(http.MethodGet, "/signal", nil)
	rec := httptest.NewRecorder()
	w.handleSignal(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
