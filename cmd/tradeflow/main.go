// Package main is the entry point for the tradeflow dashboard.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/polyinsider/tradeflow/internal/config"
	"github.com/polyinsider/tradeflow/internal/detector"
	"github.com/polyinsider/tradeflow/internal/ingest"
	"github.com/polyinsider/tradeflow/internal/metrics"
	"github.com/polyinsider/tradeflow/internal/poller"
	"github.com/polyinsider/tradeflow/internal/ui"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file while it runs.
	out := io.Writer(os.Stdout)
	if cfg.EnableTUI && cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			slog.Error("failed to open log file", "path", cfg.LogFile, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	logger := setupLogger(cfg.LogLevel, out)
	slog.SetDefault(logger)

	slog.Info("tradeflow starting",
		"version", "1.0.0",
	)

	slog.Info("config_loaded",
		"data_api_url", cfg.DataAPIURL,
		"market", cfg.Market,
		"fetch_limit", cfg.FetchLimit,
		"http_timeout", cfg.HTTPTimeout,
		"refresh_interval", cfg.RefreshInterval,
		"auto_refresh", cfg.AutoRefresh,
		"min_bet_usd", cfg.MinBetUSD,
		"large_value_usd", cfg.LargeValueUSD,
		"whale_value_usd", cfg.WhaleValueUSD,
		"enable_tui", cfg.EnableTUI,
	)

	if err := run(cfg, logger); err != nil {
		slog.Error("tradeflow_failed", "error", err)
		os.Exit(1)
	}

	slog.Info("shutdown_complete")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := ingest.NewClient(cfg.DataAPIURL,
		ingest.WithTimeout(cfg.HTTPTimeout),
		ingest.WithLogger(logger),
	)

	var fetcher poller.Fetcher = client
	if cfg.Market != "" {
		fetcher = ingest.MarketFetcher{Client: client, Market: cfg.Market}
	}

	tracker := metrics.NewTracker()
	detect := detector.NewDetector(cfg.LargeValueUSD, cfg.WhaleValueUSD)

	controller := poller.New(poller.Config{
		Interval:    cfg.RefreshInterval,
		AutoRefresh: cfg.AutoRefresh,
		Limit:       cfg.FetchLimit,
		Timeout:     cfg.HTTPTimeout,
	}, fetcher,
		poller.WithRecorder(tracker),
		poller.WithLogger(logger),
	)

	var app *ui.App
	if cfg.EnableTUI {
		app = ui.NewApp(controller, tracker, detect, cfg.MinBetUSD, cfg.UIRefreshRate, logger)
	} else {
		controller.OnChange(func(status poller.Status) {
			logSummary(status, cfg.MinBetUSD, detect)
		})
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return controller.Run(gctx)
	})

	if app != nil {
		slog.Info("starting_tui")
		g.Go(func() error {
			// Quitting the TUI ends the session.
			defer stop()
			if err := app.Run(gctx); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		})
	} else {
		slog.Info("running_headless")
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// logSummary logs the dashboard state after each completed fetch.
func logSummary(status poller.Status, minBet float64, detect *detector.Detector) {
	switch status.Phase {
	case poller.PhaseFetching:
		return
	case poller.PhaseError:
		slog.Warn("dashboard_error", "error", status.LastError, "trades", len(status.Trades))
		return
	}

	filtered := metrics.Filter(status.Trades, minBet)
	stats := metrics.Summarize(filtered)
	if stats == nil {
		slog.Info("dashboard_update",
			"trades", len(status.Trades),
			"filtered", 0,
		)
		return
	}

	slog.Info("dashboard_update",
		"trades", len(status.Trades),
		"filtered", len(filtered),
		"volume_usd", stats.TotalVolume.StringFixed(2),
		"buys", stats.BuyCount,
		"sells", stats.SellCount,
		"markets", stats.UniqueMarkets,
		"whales", len(detect.Whales(filtered, metrics.StatsWindow)),
	)
}

// setupLogger creates a structured logger with the specified level.
// Format: 2025-01-04 14:32:01 [INFO]  message key=value
func setupLogger(levelStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format("2006-01-02 15:04:05"))
				}
			}
			return a
		},
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
