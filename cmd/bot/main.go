// Package main is the entry point for the trade lifecycle manager.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tathienbao/lifecycle-bot/internal/alerting"
	"github.com/tathienbao/lifecycle-bot/internal/broker"
	"github.com/tathienbao/lifecycle-bot/internal/broker/paper"
	"github.com/tathienbao/lifecycle-bot/internal/config"
	"github.com/tathienbao/lifecycle-bot/internal/lifecycle"
	"github.com/tathienbao/lifecycle-bot/internal/metrics"
	"github.com/tathienbao/lifecycle-bot/internal/persistence"
	"github.com/tathienbao/lifecycle-bot/internal/risk"
	"github.com/tathienbao/lifecycle-bot/internal/scheduler"
	sig "github.com/tathienbao/lifecycle-bot/internal/signal"
)

// Version information (set by build flags).
var (
	Version   = "0.2.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	case "run":
		cmdRun(os.Args[2:])
	case "validate":
		cmdValidate(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Trade Lifecycle Manager - signal-driven entry/exit order management

Usage:
  lifecycle-bot <command> [options]

Commands:
  run        Start the lifecycle manager
  validate   Validate configuration file
  version    Show version information
  help       Show this help message

Examples:
  lifecycle-bot run --config config.yaml
  lifecycle-bot validate --config config.yaml

Use "lifecycle-bot <command> --help" for more information about a command.`)
}

func cmdVersion() {
	fmt.Printf("lifecycle-bot version %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid!")
	fmt.Printf("  Mode: %s\n", cfg.Trading.Mode)
	fmt.Printf("  Position budget: %.1f%%\n", cfg.Trading.PositionBudgetPct)
	fmt.Printf("  Stop loss: %.1f%% | Target: %.1f%%\n", cfg.Trading.StopLossPct, cfg.Trading.TargetPct)
	fmt.Printf("  Max open positions: %d\n", cfg.Trading.MaxOpenPositions)
	fmt.Printf("  Exit style: %s\n", cfg.Trading.ExitStyle)
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to configuration file")
	verbose := fs.Bool("verbose", false, "Debug logging")
	fs.Parse(args)

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("lifecycle-bot starting",
		"version", Version,
		"mode", cfg.Trading.Mode,
		"max_open_positions", cfg.Trading.MaxOpenPositions,
		"exit_style", cfg.Trading.ExitStyle,
	)

	// Broker
	var client broker.Client = paper.NewVenue(paper.Config{
		InitialCash: cfg.InitialCashDecimal(),
	}, logger)
	if cfg.Broker.RateLimitPerSecond > 0 {
		client = broker.NewRateLimited(client, cfg.Broker.RateLimitPerSecond)
	}

	// Admission
	slots := risk.NewSlotPool(cfg.Trading.MaxOpenPositions)
	var gate lifecycle.EntryGate = lifecycle.AdmitAll{}
	if cfg.Trading.DepthGate.Enabled {
		gate = &lifecycle.DepthGate{
			Client: client,
			Book:   risk.BookCheck{MinLevels: cfg.Trading.DepthGate.MinLevels},
		}
	}

	// Signal intake
	queue := sig.NewQueue()
	webhook := sig.NewWebhook(sig.WebhookConfig{
		Addr: cfg.Signal.Listen,
		Path: cfg.Signal.Path,
	}, queue, logger)
	if err := webhook.Start(); err != nil {
		slog.Error("failed to start signal webhook", "err", err)
		os.Exit(1)
	}

	// Persistence
	var repo persistence.Repository
	if cfg.Persistence.Enabled {
		sqlRepo, err := persistence.NewSQLiteRepository(cfg.Persistence.Path)
		if err != nil {
			slog.Error("failed to open trade store", "err", err)
			os.Exit(1)
		}
		repo = sqlRepo
		slog.Info("trade store opened", "path", cfg.Persistence.Path)

		if cfg.Persistence.PurgeOpenOnStart {
			n, err := repo.PurgeOpen(ctx)
			if err != nil {
				slog.Error("failed to purge open trades", "err", err)
				os.Exit(1)
			}
			if n > 0 {
				slog.Warn("stale open trades purged", "count", n)
			}
		}
	}

	// Metrics
	recorder := metrics.NewRecorder(cfg.Trading.Mode)
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer = metrics.NewServer(metrics.ServerConfig{
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			HealthPath:  "/health",
		}, logger)
		metricsServer.RegisterHealthCheck("slots", func() metrics.Check {
			return metrics.Check{
				OK:     true,
				Detail: fmt.Sprintf("%d/%d slots free", slots.Available(), slots.Capacity()),
			}
		})
		if err := metricsServer.Start(); err != nil {
			slog.Error("failed to start metrics server", "err", err)
			os.Exit(1)
		}
	}

	// Alerting
	alerter := buildAlerter(cfg, logger)

	// Scheduler
	lcCfg := cfg.ToLifecycleConfig()
	sched := scheduler.New(scheduler.Config{
		TickInterval: cfg.TickInterval(),
		BudgetPct:    cfg.PositionBudgetPctDecimal(),
		Lifecycle:    lcCfg,
	}, scheduler.Deps{
		Client:  client,
		Slots:   slots,
		Source:  queue,
		Gate:    gate,
		Trigger: lifecycle.ArmImmediately{},
		Repo:    repo,
		Metrics: recorder,
		Alerter: alerter,
		Logger:  logger,
	})

	if repo != nil && !cfg.Persistence.PurgeOpenOnStart {
		n, err := sched.RecoverOpenTrades(ctx)
		if err != nil {
			slog.Error("trade recovery failed", "err", err)
			os.Exit(1)
		}
		if n > 0 {
			slog.Info("open trades recovered", "count", n)
		}
	}

	if alerter != nil {
		_ = alerter.Alert(ctx, alerting.EventSeverity(alerting.EventBotStarted), "lifecycle-bot started",
			"version", Version,
			"mode", cfg.Trading.Mode,
		)
	}

	runErr := sched.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		slog.Error("scheduler error", "err", runErr)
	}

	slog.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := webhook.Shutdown(shutdownCtx); err != nil {
		slog.Warn("signal webhook shutdown failed", "err", err)
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics server shutdown failed", "err", err)
		}
	}
	if repo != nil {
		if err := repo.Close(); err != nil {
			slog.Warn("trade store close failed", "err", err)
		}
	}
	if alerter != nil {
		_ = alerter.Alert(shutdownCtx, alerting.EventSeverity(alerting.EventBotStopped), "lifecycle-bot stopped")
	}

	slog.Info("lifecycle-bot shutdown complete")
}

func buildAlerter(cfg *config.Config, logger *slog.Logger) alerting.Alerter {
	if !cfg.Alerting.Enabled {
		return nil
	}

	var channels []alerting.Alerter
	for _, ch := range cfg.Alerting.Channels {
		switch ch.Type {
		case "console":
			channels = append(channels, alerting.NewConsoleAlerter(logger))
		case "telegram":
			channels = append(channels, alerting.NewTelegramAlerter(alerting.TelegramConfig{
				BotToken: ch.BotToken,
				ChatID:   ch.ChatID,
			}))
		}
	}
	return alerting.NewMultiAlerter(logger, channels...)
}
