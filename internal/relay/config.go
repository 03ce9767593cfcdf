// Package relay provides configuration helpers that define runtime defaults
// and validation for the chat relay service.
package relay

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the relay configuration settings.
type Config struct {
	Port            string
	AllowedOrigins  []string
	LogDir          string
	MaxMessageSize  int64
	ShutdownTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		Port: ":5004",
		AllowedOrigins: []string{
			"http://localhost:3000",
		},
		LogDir:          "chat_logs",
		MaxMessageSize:  4096,
		ShutdownTimeout: 10 * time.Second,
	}
}

func sanitizeConfig(cfg Config) Config {
	if cfg.Port == "" {
		cfg.Port = ":5004"
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "chat_logs"
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 4096
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return cfg
}

// NewConfig creates a Config populated with default values for all settings.
func NewConfig() *Config {
	cfg := defaultConfig()
	return &cfg
}

// NewConfigFromEnv creates a Config from environment variables, falling back
// to defaults for anything unset. The process typically loads a .env file
// before calling this.
func NewConfigFromEnv() *Config {
	cfg := defaultConfig()

	if port := os.Getenv("CHAT_SERVER_PORT"); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Port = port
	}

	if origins := os.Getenv("CHAT_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}

	if dir := os.Getenv("CHAT_LOG_DIR"); dir != "" {
		cfg.LogDir = dir
	}

	if maxSize := os.Getenv("CHAT_MAX_MESSAGE_SIZE"); maxSize != "" {
		cfg.MaxMessageSize = parseMaxMessageSize(maxSize, cfg.MaxMessageSize)
	}

	if timeout := os.Getenv("CHAT_SHUTDOWN_TIMEOUT"); timeout != "" {
		cfg.ShutdownTimeout = parseTimeout(timeout, cfg.ShutdownTimeout)
	}

	sanitized := sanitizeConfig(cfg)
	return &sanitized
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseMaxMessageSize(value string, defaultValue int64) int64 {
	if size, err := strconv.ParseInt(value, 10, 64); err == nil && size > 0 {
		return size
	}
	return defaultValue
}

func parseTimeout(value string, defaultValue time.Duration) time.Duration {
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
