package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration, sourced from the environment with
// an optional .env file.
type Config struct {
	// ListenAddr is the HTTP/WebSocket bind address.
	ListenAddr string
	// Symbols seeds the exchange at startup.
	Symbols []string
	// LogLevel is a zerolog level string (trace..panic).
	LogLevel string
	// DepthLevels is the default number of levels in depth responses and
	// depth-stream frames.
	DepthLevels int
	// DepthInterval is the period between depth-stream frames.
	DepthInterval time.Duration
	// PingInterval is the WebSocket heartbeat period.
	PingInterval time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; missing keys fall back to defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:    getEnv("SKOLL_LISTEN_ADDR", "0.0.0.0:8080"),
		Symbols:       getList("SKOLL_SYMBOLS", []string{"AAPL", "TSLA", "MSFT", "NVDA", "GOOGL"}),
		LogLevel:      getEnv("SKOLL_LOG_LEVEL", "info"),
		DepthLevels:   getInt("SKOLL_DEPTH_LEVELS", 10),
		DepthInterval: getDuration("SKOLL_DEPTH_INTERVAL", time.Second),
		PingInterval:  getDuration("SKOLL_PING_INTERVAL", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
