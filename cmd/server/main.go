// Command syncjam-server runs the SyncJam room: the Playback
// Coordinator, the WebSocket transport, and the admin/REST surface,
// wired together the way the teacher's cmd/server/main.go wires its own
// service (envconfig + godotenv config, http.Server with
// envconfig-sourced timeouts, signal-driven graceful shutdown).
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"

	"github.com/xGuatx/youtube-sync-multi-client/internal/api"
	"github.com/xGuatx/youtube-sync-multi-client/internal/audio"
	"github.com/xGuatx/youtube-sync-multi-client/internal/clock"
	"github.com/xGuatx/youtube-sync-multi-client/internal/config"
	"github.com/xGuatx/youtube-sync-multi-client/internal/coordinator"
	"github.com/xGuatx/youtube-sync-multi-client/internal/registry"
	"github.com/xGuatx/youtube-sync-multi-client/internal/snapshot"
	http_transport "github.com/xGuatx/youtube-sync-multi-client/internal/transport/http"
	ws_transport "github.com/xGuatx/youtube-sync-multi-client/internal/transport/ws"
)

// roomID names the single room this process hosts. SyncJam runs one
// room per process, unlike the teacher's per-request room registry
// (§9's re-architecture note drops multi-room support as out of scope).
const roomID = "default"

// snapshotInterval is how often the running room's persistable state is
// saved, independent of the Sync Ticker's much faster broadcast cadence.
const snapshotInterval = 5 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	var cfg config.Config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog, resolver := buildAudioBackends(ctx, cfg, logger)
	store := buildSnapshotStore(cfg, logger)

	sessions := registry.New()
	hub := ws_transport.NewHub(logger)
	room := coordinator.New(sessions, clock.Real{}, clock.RealScheduler{}, hub, coordinator.WithLogger(logger))

	if snap, ok, err := store.Load(ctx, roomID); err != nil {
		logger.Warn("failed to load snapshot", "err", err)
	} else if ok {
		room.Hydrate(snap)
	}

	go runSnapshotLoop(ctx, room, store, logger)

	wsHandler := ws_transport.NewHandler(room, hub, logger)
	httpHandler := http_transport.NewHandler(catalog, room, sessions, store, hub, resolver)

	router := api.NewAPI(api.Deps{HttpHandler: httpHandler, WsHandler: wsHandler})

	srv := &http.Server{
		Addr:              cfg.Rest.Address,
		Handler:           router,
		ReadTimeout:       time.Duration(cfg.Rest.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Rest.WriteTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.Rest.ReadHeaderTimeout) * time.Second,
		IdleTimeout:       time.Duration(cfg.Rest.IdleTimeout) * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	<-signalChan
	logger.Info("shutting down gracefully")

	cancel()
	finalSnapCtx, finalSnapCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Save(finalSnapCtx, roomID, room.ToSnapshot()); err != nil {
		logger.Warn("failed to save snapshot on shutdown", "err", err)
	}
	finalSnapCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}

// buildAudioBackends wires the Catalog and Resolver external
// collaborators (SPEC_FULL.md §4.7) from config. Either may be nil if
// not configured; callers must tolerate a nil Catalog (the admin
// /catalog endpoint reports 503) and a nil Resolver (the /stream/
// proxy endpoint reports 503).
func buildAudioBackends(ctx context.Context, cfg config.Config, logger *slog.Logger) (audio.Catalog, audio.Resolver) {
	var catalog audio.Catalog
	var resolver audio.Resolver

	if cfg.Youtube.APIKey != "" {
		yt, err := audio.NewYouTubeCatalog(ctx, cfg.Youtube.APIKey, cfg.Youtube.Limit)
		if err != nil {
			logger.Warn("failed to init youtube catalog", "err", err)
		} else {
			catalog = yt
		}
	}

	if cfg.Extractor.BaseURL != "" {
		resolver = audio.NewExtractorResolver(cfg.Extractor.BaseURL, time.Duration(cfg.Extractor.TimeoutSeconds)*time.Second)
	}

	return catalog, resolver
}

// buildSnapshotStore wires the Snapshot Store collaborator (§4.7): Redis if
// configured, otherwise the in-memory no-op.
func buildSnapshotStore(cfg config.Config, logger *slog.Logger) snapshot.Store {
	if cfg.Redis.Address == "" {
		return snapshot.NoopStore{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	logger.Info("persisting room snapshots to redis", "addr", cfg.Redis.Address)
	return snapshot.NewRedisStore(client, cfg.Redis.KeyPrefix)
}

func runSnapshotLoop(ctx context.Context, room *coordinator.Coordinator, store snapshot.Store, logger *slog.Logger) {
	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Save(ctx, roomID, room.ToSnapshot()); err != nil {
				logger.Warn("failed to save snapshot", "err", err)
			}
		}
	}
}
