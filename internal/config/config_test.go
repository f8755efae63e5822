package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/tathienbao/lifecycle-bot/internal/lifecycle"
	"github.com/tathienbao/lifecycle-bot/internal/types"
)

const validYAML = `
trading:
  mode: paper
  position_budget_pct: 5
  stop_loss_pct: 2
  target_pct: 4
  max_open_positions: 3
  entry_order_type: LMT
  exit_style: oca_pair
  max_exit_rearms: 2
  tick_interval_ms: 500
  depth_gate:
    enabled: true
    min_levels: 6
broker:
  type: paper
  initial_cash: 100000
  rate_limit_per_second: 10
signal:
  listen: ":8080"
  path: /signal
persistence:
  enabled: true
  path: trades.db
metrics:
  enabled: true
  port: 9091
alerting:
  enabled: true
  channels:
    - type: console
`

func TestLoadFromBytes_Valid(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(validYAML))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}

	if cfg.Trading.Mode != "paper" {
		t.Errorf("mode = %s, want paper", cfg.Trading.Mode)
	}
	if cfg.Trading.MaxOpenPositions != 3 {
		t.Errorf("max open positions = %d, want 3", cfg.Trading.MaxOpenPositions)
	}
	if cfg.TickInterval() != 500*time.Millisecond {
		t.Errorf("tick interval = %s, want 500ms", cfg.TickInterval())
	}
	if !cfg.Trading.DepthGate.Enabled || cfg.Trading.DepthGate.MinLevels != 6 {
		t.Errorf("depth gate = %+v, want enabled with 6 levels", cfg.Trading.DepthGate)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("metrics path = %s, want default /metrics", cfg.Metrics.Path)
	}
}

func TestLoadFromBytes_Defaults(t *testing.T) {
	minimal := `
trading:
  position_budget_pct: 5
  stop_loss_pct: 2
  target_pct: 4
  max_open_positions: 1
broker:
  initial_cash: 10000
`
	cfg, err := LoadFromBytes([]byte(minimal))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}

	if cfg.Trading.Mode != "paper" {
		t.Errorf("default mode = %s, want paper", cfg.Trading.Mode)
	}
	if cfg.Trading.EntryOrderType != "LMT" {
		t.Errorf("default entry order type = %s, want LMT", cfg.Trading.EntryOrderType)
	}
	if cfg.Trading.ExitStyle != "oca_pair" {
		t.Errorf("default exit style = %s, want oca_pair", cfg.Trading.ExitStyle)
	}
	if cfg.Trading.TickIntervalMs != 1000 {
		t.Errorf("default tick interval = %d, want 1000", cfg.Trading.TickIntervalMs)
	}
	if cfg.Broker.Type != "paper" {
		t.Errorf("default broker type = %s, want paper", cfg.Broker.Type)
	}
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing budget",
			yaml: `
trading:
  stop_loss_pct: 2
  target_pct: 4
  max_open_positions: 1
broker:
  initial_cash: 10000
`,
		},
		{
			name: "bad exit style",
			yaml: `
trading:
  position_budget_pct: 5
  stop_loss_pct: 2
  target_pct: 4
  max_open_positions: 1
  exit_style: bracket
broker:
  initial_cash: 10000
`,
		},
		{
			name: "persistence without path",
			yaml: `
trading:
  position_budget_pct: 5
  stop_loss_pct: 2
  target_pct: 4
  max_open_positions: 1
broker:
  initial_cash: 10000
persistence:
  enabled: true
`,
		},
		{
			name: "telegram channel without token",
			yaml: `
trading:
  position_budget_pct: 5
  stop_loss_pct: 2
  target_pct: 4
  max_open_positions: 1
broker:
  initial_cash: 10000
alerting:
  enabled: true
  channels:
    - type: telegram
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.yaml))
			if !errors.Is(err, types.ErrInvalidConfig) {
				t.Errorf("LoadFromBytes() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadFromBytes_ExpandsEnv(t *testing.T) {
	os.Setenv("TEST_DB_PATH", "/tmp/trades.db")
	defer os.Unsetenv("TEST_DB_PATH")

	yaml := `
trading:
  position_budget_pct: 5
  stop_loss_pct: 2
  target_pct: 4
  max_open_positions: 1
broker:
  initial_cash: 10000
persistence:
  enabled: true
  path: ${TEST_DB_PATH}
`
	cfg, err := LoadFromBytes([]byte(yaml))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}
	if cfg.Persistence.Path != "/tmp/trades.db" {
		t.Errorf("path = %s, want expanded /tmp/trades.db", cfg.Persistence.Path)
	}
}

func TestToLifecycleConfig(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(validYAML))
	if err != nil {
		t.Fatalf("LoadFromBytes: %v", err)
	}

	lcCfg := cfg.ToLifecycleConfig()
	if lcCfg.ExitStyle != lifecycle.ExitOCAPair {
		t.Errorf("exit style = %v, want ExitOCAPair", lcCfg.ExitStyle)
	}
	if lcCfg.MaxExitRearms != 2 {
		t.Errorf("max exit rearms = %d, want 2", lcCfg.MaxExitRearms)
	}
	if lcCfg.StopLossPct.String() != "2" {
		t.Errorf("stop loss pct = %s, want 2", lcCfg.StopLossPct)
	}
	if lcCfg.TradingMode != "paper" {
		t.Errorf("trading mode = %s, want paper", lcCfg.TradingMode)
	}
}
