package courier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"identity_backend/internal/feature/identity/domain/entity"
)

// DefaultOutboxKey is the Redis list that receives access-code messages.
const DefaultOutboxKey = "identity:access_codes"

// Message is one queued delivery in the Redis outbox.
type Message struct {
	Destination string    `json:"destination"`
	Code        string    `json:"code"`
	IssuedAt    time.Time `json:"issued_at"`
}

// RedisCourier pushes access codes onto a Redis list for an external sender
// to consume with BLPOP.
type RedisCourier struct {
	rdb *redis.Client
	key string
	now func() time.Time
}

var _ entity.Courier = (*RedisCourier)(nil)

// NewRedisCourier returns a courier that appends to key, or DefaultOutboxKey when empty.
func NewRedisCourier(rdb *redis.Client, key string) *RedisCourier {
	if key == "" {
		key = DefaultOutboxKey
	}
	return &RedisCourier{
		rdb: rdb,
		key: key,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Deliver enqueues the code as a JSON message.
func (c *RedisCourier) Deliver(ctx context.Context, destination, code string) error {
	data, err := json.Marshal(Message{Destination: destination, Code: code, IssuedAt: c.now()})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err := c.rdb.RPush(ctx, c.key, data).Err(); err != nil {
		return fmt.Errorf("push to %s: %w", c.key, err)
	}
	return nil
}
