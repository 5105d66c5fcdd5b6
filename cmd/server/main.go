package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ardley/wordle-server/internal/admin"
	"github.com/ardley/wordle-server/internal/factory"
	"github.com/ardley/wordle-server/internal/relay"
	"github.com/ardley/wordle-server/internal/server"
	"github.com/ardley/wordle-server/internal/store"
	redisstore "github.com/ardley/wordle-server/internal/store/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	cobra.CheckErr(newCmd(cfg).ExecuteContext(ctx))
}

func run(ctx context.Context, cfg *Config) error {
	// Set up logging with JSON output
	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Build factory config
	fcfg := factory.Config{
		Logger:           logger,
		StorageType:      cfg.storageType,
		RotationInterval: cfg.rotationInterval,
		Server: server.Config{
			Host:          cfg.bind,
			Port:          cfg.port,
			ShutdownGrace: cfg.shutdownGrace,
		},
		Relay: relay.Config{
			Host: cfg.bind,
			Port: cfg.notifyPort,
		},
		MulticastAddr: cfg.multicastAddr,
		MulticastPort: cfg.multicastPort,
	}
	fcfg.Admin = admin.DefaultServerConfig()
	fcfg.Admin.Host = cfg.bind
	fcfg.Admin.Port = cfg.adminPort

	if cfg.storageType == factory.StorageTypeRedis {
		redisCfg := redisstore.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		fcfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(fcfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Registry.Close(); err != nil {
			logger.Error("closing registry failed", slog.String("error", err.Error()))
		}
	}()

	// Load the vocabulary; without it no round can start
	if err := app.Vocabulary.LoadFromFile(cfg.vocabularyPath); err != nil {
		return err
	}

	// Restore users from the snapshot file
	loaded, err := store.LoadSnapshot(ctx, app.Registry, cfg.userStorePath)
	if err != nil {
		logger.Warn("could not load user snapshot", slog.String("error", err.Error()))
	} else if loaded > 0 {
		logger.Info("user snapshot loaded", slog.Int("users", loaded))
	}

	// Start everything
	go app.Rotation.Run(ctx)

	errCh := make(chan error, 3)
	go func() { errCh <- app.GameServer.Start(ctx) }()
	go func() { errCh <- app.Relay.Start(ctx) }()
	go func() { errCh <- app.AdminServer.Start() }()

	logger.Info("wordle server started",
		slog.Int("port", cfg.port),
		slog.Int("notify_port", cfg.notifyPort),
		slog.Int("admin_port", cfg.adminPort))

	// Wait for shutdown signal or component failure
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("component failed", slog.String("error", err.Error()))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.shutdownGrace+5*time.Second)
	defer cancel()

	if err := app.GameServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("game server shutdown failed", slog.String("error", err.Error()))
	}
	if err := app.Relay.Shutdown(); err != nil {
		logger.Error("relay shutdown failed", slog.String("error", err.Error()))
	}
	if err := app.AdminServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("admin server shutdown failed", slog.String("error", err.Error()))
	}

	// Persist users before exiting
	if err := store.SaveSnapshot(shutdownCtx, app.Registry, cfg.userStorePath); err != nil {
		logger.Error("saving user snapshot failed", slog.String("error", err.Error()))
	} else {
		logger.Info("user snapshot saved")
	}

	logger.Info("server stopped")
	return nil
}
