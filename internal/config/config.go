package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Telegram TelegramConfig
	Worker   WorkerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds the MySQL connection options.
type DatabaseConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds cache connection options.
type RedisConfig struct {
	Addr     string
	Password string
	CacheTTL time.Duration
}

// AuthConfig points at the identity provider.
type AuthConfig struct {
	OpenIDWellKnownURL string
}

// TelegramConfig holds bot credentials and the alert target chat.
type TelegramConfig struct {
	BotToken    string
	AlertChatID int64
}

// WorkerConfig holds low-stock check settings.
type WorkerConfig struct {
	Threshold    int
	CronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from
		// the environment directly.
		_ = godotenv.Load()
	}

	cacheTTL, err := getenvInt("STOCK_CACHE_TTL", 300)
	if err != nil {
		return nil, err
	}
	threshold, err := getenvInt("LOW_STOCK_THRESHOLD", 5)
	if err != nil {
		return nil, err
	}
	maxOpen, err := getenvInt("APP_DB_MAX_OPEN_CONNS", 50)
	if err != nil {
		return nil, err
	}
	maxIdle, err := getenvInt("APP_DB_MAX_IDLE_CONNS", 25)
	if err != nil {
		return nil, err
	}

	var alertChatID int64
	if raw := os.Getenv("TELEGRAM_ALERT_CHAT_ID"); raw != "" {
		alertChatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALERT_CHAT_ID must be an integer: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Database: DatabaseConfig{
			DSN:          getenvWithDefault("APP_DB_DSN", "root:root@tcp(localhost:3306)/stock?parseTime=true"),
			MaxOpenConns: maxOpen,
			MaxIdleConns: maxIdle,
		},
		Redis: RedisConfig{
			Addr:     getenvWithDefault("APP_REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("APP_REDIS_PASSWORD"),
			CacheTTL: time.Duration(cacheTTL) * time.Second,
		},
		Auth: AuthConfig{
			OpenIDWellKnownURL: os.Getenv("APP_OPENID_WELLKNOWN"),
		},
		Telegram: TelegramConfig{
			BotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
			AlertChatID: alertChatID,
		},
		Worker: WorkerConfig{
			Threshold:    threshold,
			CronSchedule: getenvWithDefault("LOW_STOCK_CRON", "*/5 * * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}
	if c.Database.DSN == "" {
		return errors.New("APP_DB_DSN must be provided")
	}
	if c.Redis.Addr == "" {
		return errors.New("APP_REDIS_ADDR must be provided")
	}
	if c.Redis.CacheTTL <= 0 {
		return errors.New("STOCK_CACHE_TTL must be positive")
	}
	if c.Worker.Threshold < 0 {
		return errors.New("LOW_STOCK_THRESHOLD must not be negative")
	}
	if c.Worker.CronSchedule == "" {
		return errors.New("LOW_STOCK_CRON must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}
