// Package courier provides access-code delivery channels.
package courier

import (
	"context"
	"log/slog"

	"identity_backend/internal/feature/identity/domain/entity"
)

// LogCourier writes access codes to the log. It is meant for local
// development where no SMS gateway is available.
type LogCourier struct {
	log *slog.Logger
}

var _ entity.Courier = (*LogCourier)(nil)

// NewLogCourier returns a courier that logs to log, or slog.Default when nil.
func NewLogCourier(log *slog.Logger) *LogCourier {
	if log == nil {
		log = slog.Default()
	}
	return &LogCourier{log: log}
}

// Deliver logs the code and always succeeds.
func (c *LogCourier) Deliver(ctx context.Context, destination, code string) error {
	c.log.InfoContext(ctx, "access code issued", "destination", destination, "code", code)
	return nil
}
