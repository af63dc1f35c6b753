package di

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/platform/config"
	"identity_backend/internal/platform/courier"
	infrahttp "identity_backend/internal/platform/http"
	"identity_backend/internal/shared/ratelimiter"
)

// NewCourier creates the access code courier selected by cfg.Courier.
func NewCourier(cfg config.Config, rdb *redis.Client, log *slog.Logger) (entity.Courier, error) {
	switch cfg.Courier {
	case config.CourierLog:
		return courier.NewLogCourier(log), nil
	case config.CourierRedis:
		if rdb == nil {
			return nil, fmt.Errorf("courier %q requires a redis connection", cfg.Courier)
		}
		return courier.NewRedisCourier(rdb, cfg.OutboxKey), nil
	case config.CourierHTTP:
		client := infrahttp.NewHTTPClient(infrahttp.ClientConfig{Timeout: cfg.SMS.Timeout})
		limiter := ratelimiter.NewRateLimiter(cfg.SMS.RateLimit, cfg.SMS.RateInterval)
		return courier.NewHTTPCourier(cfg.SMS, client, limiter), nil
	default:
		return nil, fmt.Errorf("unknown courier %q", cfg.Courier)
	}
}
