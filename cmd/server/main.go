package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/welkom-home/welkom-presence/internal/config"
	"github.com/welkom-home/welkom-presence/internal/coordinator"
	"github.com/welkom-home/welkom-presence/internal/httpapi"
	"github.com/welkom-home/welkom-presence/internal/logging"
	"github.com/welkom-home/welkom-presence/internal/poller"
	"github.com/welkom-home/welkom-presence/internal/service"
	"github.com/welkom-home/welkom-presence/internal/storage"
	"github.com/welkom-home/welkom-presence/internal/welkom"
	"github.com/welkom-home/welkom-presence/internal/zones"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.New(slog.LevelInfo).Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	if err := os.MkdirAll(cfg.DBDir(), 0o755); err != nil {
		logger.Error("failed to create db directory", "err", err)
		os.Exit(1)
	}

	store, err := storage.New(ctx, cfg.DBPath, logging.Component(logger, "storage"))
	if err != nil {
		logger.Error("failed to initialize storage", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	client := welkom.NewClient(cfg.ClientID, cfg.WelkomURL, cfg.HomeID, logging.Component(logger, "welkom"))
	defer client.Close()

	coord := coordinator.New(client, logging.Component(logger, "coordinator"))
	coord.SetSetupTimeout(cfg.SetupTimeout)
	if err := coord.Setup(ctx); err != nil {
		// ConfigError and timeout messages are user-facing; the addon
		// refuses to start half-configured.
		logger.Error("initial setup failed", "err", err)
		os.Exit(1)
	}

	var zoneSource service.ZoneSource = zones.Disabled{}
	if cfg.SupervisorToken != "" {
		zoneSource = zones.NewProvider(cfg.HABaseURL, cfg.SupervisorToken, logging.Component(logger, "zones"))
	} else {
		logger.Warn("SUPERVISOR_TOKEN is empty; zone coordinate enrichment disabled")
	}

	svc := service.New(coord, zoneSource, store, logger)

	if cached, ok, err := store.LoadSnapshot(ctx); err != nil {
		logger.Warn("could not load cached snapshot", "err", err)
	} else if ok {
		svc.Seed(cached)
		logger.Info("seeded state from cached snapshot", "fetched_at", cached.FetchedAt)
	}

	p := poller.New(svc, cfg.PollInterval, logging.Component(logger, "poller"))

	if cfg.SupervisorToken != "" {
		watcher := zones.NewWatcher(cfg.HABaseURL, cfg.SupervisorToken, logging.Component(logger, "zone-watcher"))
		go watcher.Run(ctx, p.TriggerRefresh)
	}

	go p.Run(ctx)
	p.TriggerRefresh()

	api := httpapi.New(svc, p, logging.Component(logger, "http"))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("server starting", "addr", httpServer.Addr, "poll_interval", cfg.PollInterval)
	if err := httpapi.RunServer(ctx, httpServer, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server terminated with error", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
