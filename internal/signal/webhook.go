package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

// WebhookConfig holds configuration for the webhook listener.
type WebhookConfig struct {
	Addr string
	Path string
}

// webhookPayload is the JSON body accepted by the webhook endpoint.
type webhookPayload struct {
	Symbol   string          `json:"symbol"`
	Side     string          `json:"side"`
	RefPrice decimal.Decimal `json:"ref_price"`
	Reason   string          `json:"reason,omitempty"`
}

// Webhook accepts trading signals over HTTP and pushes them onto a
// queue. One POST per signal; the response confirms only receipt, not
// admission.
type Webhook struct {
	cfg        WebhookConfig
	queue      *Queue
	logger     *slog.Logger
	httpServer *http.Server
}

// NewWebhook creates a webhook listener feeding the given queue.
func NewWebhook(cfg WebhookConfig, queue *Queue, logger *slog.Logger) *Webhook {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		cfg.Path = "/signal"
	}

	w := &Webhook{
		cfg:    cfg,
		queue:  queue,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(cfg.Path, w.handleSignal)

	w.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return w
}

// Start starts the listener.
func (w *Webhook) Start() error {
	w.logger.Info("starting signal webhook",
		"addr", w.cfg.Addr,
		"path", w.cfg.Path,
	)

	go func() {
		if err := w.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			w.logger.Error("signal webhook error", "err", err)
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the listener.
func (w *Webhook) Shutdown(ctx context.Context) error {
	w.logger.Info("shutting down signal webhook")
	return w.httpServer.Shutdown(ctx)
}

func (w *Webhook) handleSignal(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(rw, fmt.Sprintf("decode payload: %v", err), http.StatusBadRequest)
		return
	}

	sig, err := payload.toSignal()
	if err != nil {
		http.Error(rw, err.Error(), http.StatusBadRequest)
		return
	}

	w.queue.Push(sig)
	w.logger.Info("signal received",
		"symbol", sig.Symbol,
		"side", sig.Side,
		"ref_price", sig.RefPrice,
	)

	rw.WriteHeader(http.StatusAccepted)
	_, _ = rw.Write([]byte("accepted"))
}

func (p webhookPayload) toSignal() (types.Signal, error) {
	symbol := strings.ToUpper(strings.TrimSpace(p.Symbol))
	if symbol == "" {
		return types.Signal{}, fmt.Errorf("%w: empty symbol", types.ErrInvalidSymbol)
	}

	side, ok := types.ParseSide(p.Side)
	if !ok {
		return types.Signal{}, fmt.Errorf("invalid side %q", p.Side)
	}

	if p.RefPrice.LessThanOrEqual(decimal.Zero) {
		return types.Signal{}, fmt.Errorf("%w: %s", types.ErrInvalidPrice, p.RefPrice)
	}

	return types.Signal{
		Symbol:   symbol,
		Side:     side,
		RefPrice: p.RefPrice,
		Reason:   p.Reason,
		Time:     time.Now(),
	}, nil
}
