package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ardley/wordle-server/internal/factory"
)

type Config struct {
	bind             string
	port             int
	notifyPort       int
	multicastAddr    string
	multicastPort    int
	adminPort        int
	vocabularyPath   string
	userStorePath    string
	rotationInterval time.Duration
	shutdownGrace    time.Duration
	storageType      string
	redisURL         string
	configFile       string
	verbose          bool
}

func (c *Config) validate() error {
	for name, port := range map[string]int{
		"port":           c.port,
		"notify-port":    c.notifyPort,
		"multicast-port": c.multicastPort,
		"admin-port":     c.adminPort,
	} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid --%s (must be between 1-65535 inclusive): %d", name, port)
		}
	}
	if c.storageType != factory.StorageTypeMemory && c.storageType != factory.StorageTypeRedis {
		return fmt.Errorf("invalid --storage (must be memory or redis): %s", c.storageType)
	}
	if c.storageType == factory.StorageTypeRedis && c.redisURL == "" {
		return errors.New("--redis-url required when --storage=redis")
	}
	if c.rotationInterval <= 0 {
		return fmt.Errorf("invalid --rotation-interval (must be positive): %s", c.rotationInterval)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WORDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "wordle-server",
		Short:         "Multiplayer Wordle backend: TCP game server, notification relay and admin API.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.configFile != "" {
				v.SetConfigFile(cfg.configFile)
				if err := v.ReadInConfig(); err != nil {
					return fmt.Errorf("read config file: %w", err)
				}
				applyViper(cmd.Flags(), v)
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: WORDLE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 7777, "game server port (env: WORDLE_PORT)")
	fs.IntVar(&cfg.notifyPort, "notify-port", 7778, "UDP port for incoming share notifications (env: WORDLE_NOTIFY_PORT)")
	fs.StringVar(&cfg.multicastAddr, "multicast-addr", "239.255.1.1", "multicast group notifications are forwarded to (env: WORDLE_MULTICAST_ADDR)")
	fs.IntVar(&cfg.multicastPort, "multicast-port", 7779, "multicast group port (env: WORDLE_MULTICAST_PORT)")
	fs.IntVar(&cfg.adminPort, "admin-port", 8080, "HTTP admin server port (env: WORDLE_ADMIN_PORT)")
	fs.StringVar(&cfg.vocabularyPath, "vocabulary", "data/words.txt", "path to the vocabulary file (env: WORDLE_VOCABULARY)")
	fs.StringVar(&cfg.userStorePath, "user-store", "data/users.json", "path to the user snapshot file (env: WORDLE_USER_STORE)")
	fs.DurationVar(&cfg.rotationInterval, "rotation-interval", time.Hour, "how often the secret word rotates (env: WORDLE_ROTATION_INTERVAL)")
	fs.DurationVar(&cfg.shutdownGrace, "shutdown-grace", 10*time.Second, "how long shutdown waits for sessions to drain (env: WORDLE_SHUTDOWN_GRACE)")
	fs.StringVar(&cfg.storageType, "storage", factory.StorageTypeMemory, "storage backend, memory or redis (env: WORDLE_STORAGE)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "Redis connection URL, required with --storage=redis (env: WORDLE_REDIS_URL)")
	fs.StringVarP(&cfg.configFile, "config", "c", "", "path to a config file (env: WORDLE_CONFIG)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging (env: WORDLE_VERBOSE)")

	applyViper(fs, v)

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}

// applyViper backfills unset flags from the environment and config file.
func applyViper(fs *pflag.FlagSet, v *viper.Viper) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}
