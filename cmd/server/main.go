package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pc-estoque/stock-backend/internal/adapter/auth"
	"github.com/pc-estoque/stock-backend/internal/adapter/handler"
	"github.com/pc-estoque/stock-backend/internal/adapter/storage"
	"github.com/pc-estoque/stock-backend/internal/config"
	"github.com/pc-estoque/stock-backend/internal/core/service"
	"github.com/pc-estoque/stock-backend/pkg/logger"
)

func main() {
	log := logger.Must(logger.New())
	defer log.Sync()

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL
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

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	log.Info("connected to redis")

	// Adapters and services
	stockRepo := storage.NewMySQLStockRepository(db)
	movementRepo := storage.NewMySQLMovementRepository(db)
	cache := storage.NewRedisAdapter(rdb)

	stockService := service.NewStockService(stockRepo, cache, movementRepo, cfg.Redis.CacheTTL, logger.Named(log, "stock"))
	movementService := service.NewMovementService(movementRepo)

	var authMiddleware gin.HandlerFunc
	if cfg.Auth.OpenIDWellKnownURL != "" {
		keycloak := auth.NewKeycloakAdapter(cfg.Auth.OpenIDWellKnownURL)
		authMiddleware = auth.Middleware(keycloak, logger.Named(log, "auth"))
	} else {
		log.Warn("APP_OPENID_WELLKNOWN not set, v2 API runs unauthenticated")
	}

	healthHandler := handler.NewHealthHandler(map[string]func(context.Context) error{
		"mysql": db.PingContext,
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	})

	router := handler.NewRouter(stockService, movementService, healthHandler, authMiddleware, logger.Named(log, "http"))

	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}

	rdb.Close()
	db.Close()
	log.Info("connections closed")
}
