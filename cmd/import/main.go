// Command import bulk-loads users from "fullName;email;salt:hash;phone" records.
//
// Usage:
//
//	import [file]
//
// Records are read from stdin when no file is given.
package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	redisv9 "github.com/redis/go-redis/v9"

	"identity_backend/internal/app/di"
	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/usecase"
	"identity_backend/internal/platform/config"
	infraredis "identity_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, os.Args[1:]); err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger, args []string) error {
	var src io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
	}

	var rdb *redisv9.Client
	if cfg.Redis.Enabled() {
		tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		rdb = tmp
		defer rdb.Close()
	}

	store, err := di.NewStore(cfg, rdb)
	if err != nil {
		return err
	}
	defer store.Close()

	courier, err := di.NewCourier(cfg, rdb, logger)
	if err != nil {
		return err
	}

	registry := usecase.NewRegistry(store.Users, entity.NewCredentialEngine(courier), logger)
	report, err := registry.ImportAll(ctx, src)
	if err != nil {
		return err
	}
	slog.Info("import ok", "imported", report.Imported, "failed", report.Failed)
	return nil
}
