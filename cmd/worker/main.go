package main

import (
	"context"
	"database/sql"
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
	"github.com/pc-estoque/stock-backend/internal/worker"
	"github.com/pc-estoque/stock-backend/pkg/logger"
)

// The worker process only scans for low stock and notifies; it never serves
// requests.
func main() {
	log := logger.Must(logger.New())
	defer log.Sync()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}
	if cfg.Telegram.BotToken == "" || cfg.Telegram.AlertChatID == 0 {
		log.Fatal("TELEGRAM_BOT_TOKEN and TELEGRAM_ALERT_CHAT_ID must be provided for the worker")
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

	checker := worker.NewLowStockChecker(
		stockService,
		telegram,
		cfg.Telegram.AlertChatID,
		cfg.Worker.Threshold,
		logger.Named(log, "lowstock"),
	)

	scheduler := worker.NewScheduler(checker, cfg.Worker.CronSchedule, logger.Named(log, "scheduler"))
	if err := scheduler.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	scheduler.Stop()
	rdb.Close()
	db.Close()
	log.Info("connections closed")
}
