// Package factory wires application components together.
package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ardley/wordle-server/internal/admin"
	"github.com/ardley/wordle-server/internal/dependencies/clock"
	"github.com/ardley/wordle-server/internal/dependencies/random"
	"github.com/ardley/wordle-server/internal/relay"
	"github.com/ardley/wordle-server/internal/server"
	"github.com/ardley/wordle-server/internal/services/rotation"
	"github.com/ardley/wordle-server/internal/services/vocabulary"
	"github.com/ardley/wordle-server/internal/store"
	"github.com/ardley/wordle-server/internal/store/memory"
	redisstore "github.com/ardley/wordle-server/internal/store/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Registry store.Store

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Vocabulary *vocabulary.Service
	Rotation   *rotation.Service

	// Servers
	GameServer  *server.Server
	Relay       *relay.Relay
	AdminServer *admin.Server
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstore.Config
	// RotationInterval is how often the secret word rotates
	// If zero, defaults to one hour
	RotationInterval time.Duration
	// Server configures the TCP game server
	Server server.Config
	// Relay configures the UDP notification listener
	Relay relay.Config
	// MulticastAddr and MulticastPort name the group notifications are
	// forwarded to (ignored when RelayWriter is set)
	MulticastAddr string
	MulticastPort int
	// RelayWriter overrides the multicast writer (useful for testing)
	RelayWriter relay.PacketWriter
	// Admin configures the HTTP admin server
	Admin admin.ServerConfig
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var registry store.Store
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		registry = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisRegistry, err := redisstore.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		registry = redisRegistry
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	writer := cfg.RelayWriter
	if writer == nil {
		var err error
		writer, err = relay.NewMulticastWriter(cfg.MulticastAddr, cfg.MulticastPort)
		if err != nil {
			return nil, err
		}
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	interval := cfg.RotationInterval
	if interval == 0 {
		interval = time.Hour
	}

	return newWithDependencies(cfg, registry, clk, rnd, writer, interval, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	cfg Config,
	registry store.Store,
	clk clock.Clock,
	rnd random.Random,
	writer relay.PacketWriter,
	interval time.Duration,
	logger *slog.Logger,
) *App {
	vocab := vocabulary.New(logger)
	rot := rotation.New(vocab, registry, rnd, clk, interval, logger)
	gameServer := server.New(cfg.Server, registry, rot, vocab, logger)
	notifRelay := relay.New(cfg.Relay, writer, logger)

	adminRouter := admin.NewRouter(admin.RouterConfig{
		Logger:   logger,
		Registry: registry,
		Rounds:   rot,
		Sessions: gameServer,
		Vocab:    vocab,
	})
	adminServer := admin.NewServer(adminRouter, cfg.Admin, logger)

	return &App{
		Registry:    registry,
		Clock:       clk,
		Random:      rnd,
		Vocabulary:  vocab,
		Rotation:    rot,
		GameServer:  gameServer,
		Relay:       notifRelay,
		AdminServer: adminServer,
	}
}
