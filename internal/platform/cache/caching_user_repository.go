// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/usecase"
)

// CachingUserRepository decorates a UserRepository with a Redis read-through
// cache for FindByLogin. Writes go to the inner repository first and then
// invalidate the affected keys. Every cache operation is best effort.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores the user in the inner repository. Misses are never cached,
// so there is nothing to invalidate.
func (c *CachingUserRepository) Create(ctx context.Context, u *entity.User) error {
	return c.inner.Create(ctx, u)
}

// FindByLogin checks the cache first and falls back to the inner repository.
func (c *CachingUserRepository) FindByLogin(ctx context.Context, login string) (*entity.User, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByLogin(ctx, login)
	}

	key := c.cacheKey(login)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var state entity.State
		if err := json.Unmarshal(b, &state); err == nil && state.Login == login {
			return entity.FromState(state), nil
		}
		// Delete corrupted or mismatched cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the store
	u, err := c.inner.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(u.State()); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return u, nil
}

// Update writes through and drops the cached entry.
func (c *CachingUserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := c.inner.Update(ctx, u); err != nil {
		return err
	}
	if c.rdb != nil {
		_ = c.rdb.Del(ctx, c.cacheKey(u.Login())).Err()
	}
	return nil
}

// DeleteAll clears the inner repository and every key in the namespace.
func (c *CachingUserRepository) DeleteAll(ctx context.Context) error {
	if err := c.inner.DeleteAll(ctx); err != nil {
		return err
	}
	if c.rdb != nil {
		_ = c.deleteByPattern(ctx, c.namespace+":*")
	}
	return nil
}

// cacheKey generates the cache key for a login. The login is hex encoded so
// distinct logins never share a key and glob characters never reach SCAN.
func (c *CachingUserRepository) cacheKey(login string) string {
	return fmt.Sprintf("%s:%s", c.namespace, hex.EncodeToString([]byte(login)))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingUserRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
