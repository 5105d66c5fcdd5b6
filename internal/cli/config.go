package cli

import (
	"os"
	"strconv"
)

// Config holds client configuration
type Config struct {
	ServerHost    string
	ServerPort    int
	NotifyPort    int
	MulticastAddr string
	MulticastPort int
	Verbose       bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerHost:    getEnvOrDefault("WORDLE_SERVER", "localhost"),
		ServerPort:    getEnvIntOrDefault("WORDLE_PORT", 7777),
		NotifyPort:    getEnvIntOrDefault("WORDLE_NOTIFY_PORT", 7778),
		MulticastAddr: getEnvOrDefault("WORDLE_MULTICAST_ADDR", "239.255.1.1"),
		MulticastPort: getEnvIntOrDefault("WORDLE_MULTICAST_PORT", 7779),
		Verbose:       false,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
