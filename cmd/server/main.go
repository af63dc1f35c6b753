package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"identity_backend/internal/app/di"
	"identity_backend/internal/app/router"
	"identity_backend/internal/feature/identity/domain/entity"
	identityhandler "identity_backend/internal/feature/identity/transport/handler"
	"identity_backend/internal/feature/identity/usecase"
	"identity_backend/internal/platform/config"
	healthhandler "identity_backend/internal/platform/http/handler"
	infraredis "identity_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis（任意）
	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Store
	store, err := di.NewStore(cfg, rdb)
	if err != nil {
		slog.Error("failed to open user store", "store", cfg.Store, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close user store", "error", err)
		}
	}()

	// Courier
	courier, err := di.NewCourier(cfg, rdb, logger)
	if err != nil {
		slog.Error("failed to create courier", "courier", cfg.Courier, "error", err)
		os.Exit(1)
	}

	// Usecase
	registry := usecase.NewRegistry(store.Users, entity.NewCredentialEngine(courier), logger)

	// Handler
	identityH := identityhandler.NewIdentityHandler(registry)
	health := healthhandler.NewHealth(store.Health)

	// ルータ生成
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router.NewRouter(identityH, health),
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.HTTPAddr, "store", cfg.Store, "courier", cfg.Courier)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "error", err)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
