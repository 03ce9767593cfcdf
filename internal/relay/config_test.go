package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, ":5004", cfg.Port)
	assert.Equal(t, "chat_logs", cfg.LogDir)
	assert.Equal(t, int64(4096), cfg.MaxMessageSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.NotEmpty(t, cfg.AllowedOrigins)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("CHAT_SERVER_PORT", "6004")
	t.Setenv("CHAT_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("CHAT_LOG_DIR", "/var/lib/chat/logs")
	t.Setenv("CHAT_MAX_MESSAGE_SIZE", "1024")
	t.Setenv("CHAT_SHUTDOWN_TIMEOUT", "5")

	cfg := NewConfigFromEnv()

	assert.Equal(t, ":6004", cfg.Port)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "/var/lib/chat/logs", cfg.LogDir)
	assert.Equal(t, int64(1024), cfg.MaxMessageSize)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestNewConfigFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("CHAT_MAX_MESSAGE_SIZE", "not-a-number")
	t.Setenv("CHAT_SHUTDOWN_TIMEOUT", "-3")

	cfg := NewConfigFromEnv()

	assert.Equal(t, int64(4096), cfg.MaxMessageSize)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
