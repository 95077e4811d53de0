package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pc-estoque/stock-backend/internal/adapter/bot"
	"github.com/pc-estoque/stock-backend/internal/adapter/storage"
	"github.com/pc-estoque/stock-backend/internal/config"
	"github.com/pc-estoque/stock-backend/internal/core/service"
	"github.com/pc-estoque/stock-backend/pkg/logger"
)

// The bot process is a chat front-end over the same core the HTTP API uses.
func main() {
	log := logger.Must(logger.New())
	defer log.Sync()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	if cfg.Telegram.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN must be provided for the bot")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.Open("mysql", cfg.Database.DSN)
	if err != nil {
		log.Fatal("failed to open mysql", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("failed to ping mysql", zap.Error(err))
	}
	log.Info("connected to mysql")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	log.Info("connected to redis")

	stockRepo := storage.NewMySQLStockRepository(db)
	movementRepo := storage.NewMySQLMovementRepository(db)
	cache := storage.NewRedisAdapter(rdb)
	stockService := service.NewStockService(stockRepo, cache, movementRepo, cfg.Redis.CacheTTL, logger.Named(log, "stock"))

	telegram := bot.NewClient(cfg.Telegram.BotToken)
	dispatcher := bot.NewDispatcher(telegram, stockService, logger.Named(log, "bot"))

	done := make(chan error, 1)
	go func() {
		done <- dispatcher.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("shutting down")
		cancel()
		<-done
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error("dispatcher stopped", zap.Error(err))
		}
	}

	rdb.Close()
	db.Close()
	log.Info("connections closed")
}
