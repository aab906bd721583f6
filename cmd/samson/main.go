// ABOUTME: Entry point for the samson SMS harvesting daemon.
// ABOUTME: Wires config, store, bus client, registry, poller supervisor, and both HTTP listeners.

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/2389/samson/internal/api"
	"github.com/2389/samson/internal/config"
	"github.com/2389/samson/internal/dedupe"
	"github.com/2389/samson/internal/metrics"
	"github.com/2389/samson/internal/modem"
	"github.com/2389/samson/internal/poller"
	"github.com/2389/samson/internal/store"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	// Local cancel so a server failure also stops the registry and pollers,
	// not just an outside signal.
	ctx, stop := context.WithCancel(ctx)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	setupLogging(cfg.LogLevel)
	logger := slog.Default()
	logger.Info("starting samson",
		"database_path", cfg.DatabasePath,
		"poll_interval", cfg.PollDuration(),
		"api_addr", cfg.APIAddr(),
		"metrics_addr", cfg.MetricsAddr(),
	)

	st, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("initializing store: %w", err)
	}
	defer st.Close()

	bus, err := modem.NewModemManager(logger.With("component", "modem"))
	if err != nil {
		return fmt.Errorf("connecting to ModemManager: %w", err)
	}
	defer bus.Close()

	registry := modem.NewRegistry(bus, cfg.PollDuration(), logger.With("component", "registry"))
	if err := registry.Refresh(ctx); err != nil {
		// Non-fatal: the refresh loop keeps retrying on its cadence.
		logger.Warn("initial modem refresh failed", "error", err)
	}

	cursor := dedupe.New(24*time.Hour, 100_000)
	defer cursor.Close()

	supervisor := poller.NewSupervisor(poller.Config{
		Bus:      bus,
		Registry: registry,
		Store:    st,
		Cursor:   cursor,
		Interval: cfg.PollDuration(),
		Logger:   logger.With("component", "poller"),
	})

	promReg := metrics.NewRegistry(func() float64 {
		return float64(len(registry.List()))
	})

	querySrv := api.NewQueryServer(cfg.APIAddr(), st, logger.With("component", "api"))
	opsSrv := api.NewOpsServer(cfg.MetricsAddr(), registry, promReg, logger.With("component", "metrics"))

	go registry.Run(ctx)

	supervisorDone := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(supervisorDone)
	}()

	errCh := make(chan error, 2)
	go func() {
		logger.Info("query API listening", "addr", cfg.APIAddr())
		if err := querySrv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("query API server: %w", err)
		}
	}()
	go func() {
		logger.Info("metrics API listening", "addr", cfg.MetricsAddr())
		if err := opsSrv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}
	stop()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := querySrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("query API shutdown failed", "error", err)
	}
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown failed", "error", err)
	}

	select {
	case <-supervisorDone:
	case <-shutdownCtx.Done():
		logger.Warn("poller supervisor did not stop within shutdown timeout")
	}

	logger.Info("samson stopped")
	return serveErr
}

// setupLogging installs the default slog handler at the configured level.
func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
