package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 300*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, 5, cfg.Worker.Threshold)
	assert.Equal(t, "*/5 * * * *", cfg.Worker.CronSchedule)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("STOCK_CACHE_TTL", "60")
	t.Setenv("LOW_STOCK_THRESHOLD", "10")
	t.Setenv("TELEGRAM_ALERT_CHAT_ID", "-100123")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, 10, cfg.Worker.Threshold)
	assert.Equal(t, int64(-100123), cfg.Telegram.AlertChatID)
}

func TestLoad_BadInteger(t *testing.T) {
	t.Setenv("STOCK_CACHE_TTL", "soon")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{DSN: "dsn"},
		Redis:    RedisConfig{Addr: "localhost:6379", CacheTTL: time.Minute},
		Worker:   WorkerConfig{Threshold: 5, CronSchedule: "* * * * *"},
	}
	require.NoError(t, cfg.Validate())

	cfg.Redis.CacheTTL = 0
	assert.Error(t, cfg.Validate())
}
