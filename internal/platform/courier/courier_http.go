package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/shared/ratelimiter"
)

// HTTPConfig holds configuration for the SMS gateway client.
// Environment variables are read with the SMS_ prefix.
type HTTPConfig struct {
	BaseURL      string        `env:"BASE_URL"`
	APIKey       string        `env:"API_KEY"`
	Sender       string        `env:"SENDER" envDefault:"identity"`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"10s"`
	RateLimit    int           `env:"RATE_LIMIT" envDefault:"60"`
	RateInterval time.Duration `env:"RATE_INTERVAL" envDefault:"1m"`
}

// smsRequest is the gateway's send-message payload.
type smsRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
	Text string `json:"text"`
}

// HTTPCourier sends access codes through an HTTP SMS gateway. Calls are
// throttled by a shared rate limiter so bursts of code requests cannot
// exceed the gateway quota.
type HTTPCourier struct {
	cfg     HTTPConfig
	client  *http.Client
	limiter ratelimiter.Limiter
}

var _ entity.Courier = (*HTTPCourier)(nil)

// NewHTTPCourier creates an HTTPCourier with the given client and limiter.
func NewHTTPCourier(cfg HTTPConfig, client *http.Client, limiter ratelimiter.Limiter) *HTTPCourier {
	return &HTTPCourier{cfg: cfg, client: client, limiter: limiter}
}

// Deliver posts the code to {BaseURL}/messages.
func (c *HTTPCourier) Deliver(ctx context.Context, destination, code string) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("sms rate limit: %w", err)
		}
	}

	body, err := json.Marshal(smsRequest{
		To:   destination,
		From: c.cfg.Sender,
		Text: fmt.Sprintf("Your access code: %s", code),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("sms gateway http %d: %s", res.StatusCode, bytes.TrimSpace(msg))
	}
	return nil
}
