// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tathienbao/lifecycle-bot/internal/broker"
	"github.com/tathienbao/lifecycle-bot/internal/lifecycle"
	"github.com/tathienbao/lifecycle-bot/internal/types"
	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration.
type Config struct {
	Trading     TradingConfig     `yaml:"trading"`
	Broker      BrokerConfig      `yaml:"broker"`
	Signal      SignalConfig      `yaml:"signal"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Alerting    AlertingConfig    `yaml:"alerting"`
}

// TradingConfig holds lifecycle and admission settings.
type TradingConfig struct {
	Mode              string          `yaml:"mode"` // paper | live
	PositionBudgetPct float64         `yaml:"position_budget_pct"`
	StopLossPct       float64         `yaml:"stop_loss_pct"`
	TargetPct         float64         `yaml:"target_pct"`
	MaxOpenPositions  int             `yaml:"max_open_positions"`
	EntryOrderType    string          `yaml:"entry_order_type"` // LMT | MKT
	ExitStyle         string          `yaml:"exit_style"`       // oca_pair | single_order
	MaxExitRearms     int             `yaml:"max_exit_rearms"`
	ShortAllowed      bool            `yaml:"short_allowed"`
	TickIntervalMs    int             `yaml:"tick_interval_ms"`
	DepthGate         DepthGateConfig `yaml:"depth_gate"`
}

// DepthGateConfig holds the order-book admission gate settings.
type DepthGateConfig struct {
	Enabled   bool `yaml:"enabled"`
	MinLevels int  `yaml:"min_levels"`
}

// BrokerConfig holds broker settings.
type BrokerConfig struct {
	Type               string  `yaml:"type"` // paper
	InitialCash        float64 `yaml:"initial_cash"`
	RateLimitPerSecond int     `yaml:"rate_limit_per_second"`
}

// SignalConfig holds the webhook intake settings.
type SignalConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
}

// PersistenceConfig holds persistence settings.
type PersistenceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
	// PurgeOpenOnStart closes out stale open rows instead of
	// recovering them.
	PurgeOpenOnStart bool `yaml:"purge_open_on_start"`
}

// MetricsConfig holds metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// AlertingConfig holds alerting settings.
type AlertingConfig struct {
	Enabled  bool            `yaml:"enabled"`
	Channels []ChannelConfig `yaml:"channels"`
}

// ChannelConfig holds a single alert channel configuration.
type ChannelConfig struct {
	Type     string `yaml:"type"` // console | telegram
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML bytes. Environment
// variables in the file are expanded before parsing.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration and fills defaults.
func (c *Config) Validate() error {
	var errs []string

	if c.Trading.Mode == "" {
		c.Trading.Mode = "paper"
	}
	if c.Trading.Mode != "paper" && c.Trading.Mode != "live" {
		errs = append(errs, "trading.mode must be 'paper' or 'live'")
	}
	if c.Trading.PositionBudgetPct <= 0 || c.Trading.PositionBudgetPct > 100 {
		errs = append(errs, "trading.position_budget_pct must be between 0 and 100")
	}
	if c.Trading.StopLossPct <= 0 {
		errs = append(errs, "trading.stop_loss_pct must be positive")
	}
	if c.Trading.TargetPct <= 0 {
		errs = append(errs, "trading.target_pct must be positive")
	}
	if c.Trading.MaxOpenPositions <= 0 {
		errs = append(errs, "trading.max_open_positions must be positive")
	}
	if c.Trading.EntryOrderType == "" {
		c.Trading.EntryOrderType = "LMT"
	}
	if c.Trading.EntryOrderType != "LMT" && c.Trading.EntryOrderType != "MKT" {
		errs = append(errs, "trading.entry_order_type must be 'LMT' or 'MKT'")
	}
	if c.Trading.ExitStyle == "" {
		c.Trading.ExitStyle = "oca_pair"
	}
	if c.Trading.ExitStyle != "oca_pair" && c.Trading.ExitStyle != "single_order" {
		errs = append(errs, "trading.exit_style must be 'oca_pair' or 'single_order'")
	}
	if c.Trading.MaxExitRearms < 0 {
		errs = append(errs, "trading.max_exit_rearms must not be negative")
	}
	if c.Trading.TickIntervalMs <= 0 {
		c.Trading.TickIntervalMs = 1000
	}
	if c.Trading.DepthGate.Enabled && c.Trading.DepthGate.MinLevels <= 0 {
		c.Trading.DepthGate.MinLevels = 4
	}

	if c.Broker.Type == "" {
		c.Broker.Type = "paper"
	}
	if c.Broker.Type != "paper" {
		errs = append(errs, fmt.Sprintf("broker.type '%s' is not supported", c.Broker.Type))
	}
	if c.Broker.Type == "paper" && c.Broker.InitialCash <= 0 {
		errs = append(errs, "broker.initial_cash must be positive for paper trading")
	}
	if c.Broker.RateLimitPerSecond < 0 {
		errs = append(errs, "broker.rate_limit_per_second must not be negative")
	}

	if c.Persistence.Enabled && c.Persistence.Path == "" {
		errs = append(errs, "persistence.path is required when persistence is enabled")
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 {
			c.Metrics.Port = 9090
		}
		if c.Metrics.Path == "" {
			c.Metrics.Path = "/metrics"
		}
	}

	if c.Alerting.Enabled {
		for i, ch := range c.Alerting.Channels {
			switch ch.Type {
			case "console":
			case "telegram":
				if ch.BotToken == "" || ch.ChatID == "" {
					errs = append(errs, fmt.Sprintf("alerting.channels[%d]: telegram requires bot_token and chat_id", i))
				}
			default:
				errs = append(errs, fmt.Sprintf("alerting.channels[%d]: unknown type '%s'", i, ch.Type))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", types.ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// TickInterval returns the scheduler tick interval.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Trading.TickIntervalMs) * time.Millisecond
}

// PositionBudgetPctDecimal returns the per-position budget percentage.
func (c *Config) PositionBudgetPctDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Trading.PositionBudgetPct)
}

// InitialCashDecimal returns the paper venue's starting cash.
func (c *Config) InitialCashDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Broker.InitialCash)
}

// ToLifecycleConfig converts the trading section to lifecycle.Config.
// The per-position budget is computed at admission time from the live
// balance and is left zero here.
func (c *Config) ToLifecycleConfig() lifecycle.Config {
	style := lifecycle.ExitOCAPair
	if c.Trading.ExitStyle == "single_order" {
		style = lifecycle.ExitSingleOrder
	}

	return lifecycle.Config{
		TradingMode:    c.Trading.Mode,
		StopLossPct:    decimal.NewFromFloat(c.Trading.StopLossPct),
		TargetPct:      decimal.NewFromFloat(c.Trading.TargetPct),
		EntryOrderType: broker.OrderType(c.Trading.EntryOrderType),
		ExitStyle:      style,
		MaxExitRearms:  c.Trading.MaxExitRearms,
		ShortAllowed:   c.Trading.ShortAllowed,
	}
}
