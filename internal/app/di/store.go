// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"identity_backend/internal/feature/identity/adapters"
	"identity_backend/internal/feature/identity/usecase"
	"identity_backend/internal/platform/cache"
	"identity_backend/internal/platform/config"
	"identity_backend/internal/platform/db"
	"identity_backend/internal/platform/http/handler"
)

// Store bundles the user repository with its health probe and shutdown hook.
type Store struct {
	Users  usecase.UserRepository
	Health handler.Pinger
	Close  func() error
}

// pingRepository is a user store that can report its own reachability.
type pingRepository interface {
	usecase.UserRepository
	Ping(ctx context.Context) error
}

// NewStore creates the user store selected by cfg.Store.
// If Redis is available, reads are served through a Redis cache.
func NewStore(cfg config.Config, rdb *redis.Client) (*Store, error) {
	var (
		repo    pingRepository
		closeFn = func() error { return nil }
	)

	switch cfg.Store {
	case config.StoreMemory:
		repo = adapters.NewUserMemory()
	case config.StoreSQLite, config.StorePostgres:
		gdb, err := db.Open(cfg.DB, &adapters.UserModel{})
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
		}
		repo = adapters.NewUserGorm(gdb)
		closeFn = func() error { return db.Close(gdb) }
	case config.StoreBolt:
		b, err := adapters.OpenUserBolt(cfg.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("open bolt store: %w", err)
		}
		repo = b
		closeFn = b.Close
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	var users usecase.UserRepository = repo
	if rdb != nil {
		users = cache.NewCachingUserRepository(rdb, cfg.CacheTTL, repo, "users")
	}
	return &Store{Users: users, Health: repo, Close: closeFn}, nil
}
