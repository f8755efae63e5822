package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerConfig holds the scrape endpoint configuration.
type ServerConfig struct {
	Port        int
	MetricsPath string
	HealthPath  string
}

// DefaultServerConfig returns the default endpoint layout.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:        9090,
		MetricsPath: "/metrics",
		HealthPath:  "/health",
	}
}

// Check is the result of one registered health probe.
type Check struct {
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// HealthChecker probes one dependency (slot pool, trade store).
type HealthChecker func() Check

// Server exposes the Prometheus registry and the health probes over
// HTTP, next to the trading loop but never in its way.
type Server struct {
	cfg    ServerConfig
	srv    *http.Server
	logger *slog.Logger

	mu     sync.Mutex
	checks map[string]HealthChecker
}

// NewServer builds the scrape server. Health checks are registered
// before Start.
func NewServer(cfg ServerConfig, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		checks: make(map[string]HealthChecker),
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.MetricsPath, promhttp.Handler())
	mux.HandleFunc(cfg.HealthPath, s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.HandleFunc("/live", s.handleLive)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// RegisterHealthCheck adds a named probe to the health report.
func (s *Server) RegisterHealthCheck(name string, checker HealthChecker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = checker
}

// Start serves in the background.
func (s *Server) Start() error {
	s.logger.Info("metrics endpoint listening",
		"port", s.cfg.Port,
		"metrics_path", s.cfg.MetricsPath,
	)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("metrics server error", "err", err)
		}
	}()

	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// runChecks executes every registered probe and reports whether all
// passed.
func (s *Server) runChecks() (map[string]Check, bool) {
	s.mu.Lock()
	checkers := make(map[string]HealthChecker, len(s.checks))
	for name, fn := range s.checks {
		checkers[name] = fn
	}
	s.mu.Unlock()

	results := make(map[string]Check, len(checkers))
	allOK := true
	for name, fn := range checkers {
		c := fn()
		results[name] = c
		allOK = allOK && c.OK
	}
	return results, allOK
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	checks, ok := s.runChecks()

	w.Header().Set("Content-Type", "application/json")
	status := "up"
	if !ok {
		status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	_ = json.NewEncoder(w).Encode(struct {
		Status string           `json:"status"`
		Checks map[string]Check `json:"checks"`
	}{Status: status, Checks: checks})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if _, ok := s.runChecks(); !ok {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}
