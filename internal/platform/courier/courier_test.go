package courier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogCourier_Deliver(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c := NewLogCourier(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, c.Deliver(context.Background(), "+79179711111", "Ab3dE9"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "access code issued", entry["msg"])
	assert.Equal(t, "+79179711111", entry["destination"])
	assert.Equal(t, "Ab3dE9", entry["code"])
}

func TestRedisCourier_Deliver(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	issuedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewRedisCourier(rdb, "")
	c.now = func() time.Time { return issuedAt }

	want, _ := json.Marshal(Message{Destination: "+79179711111", Code: "Ab3dE9", IssuedAt: issuedAt})
	mock.ExpectRPush(DefaultOutboxKey, want).SetVal(1)

	require.NoError(t, c.Deliver(context.Background(), "+79179711111", "Ab3dE9"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCourier_Deliver_Error(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	issuedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewRedisCourier(rdb, "outbox")
	c.now = func() time.Time { return issuedAt }

	want, _ := json.Marshal(Message{Destination: "+79179711111", Code: "Ab3dE9", IssuedAt: issuedAt})
	mock.ExpectRPush("outbox", want).SetErr(errors.New("READONLY"))

	err := c.Deliver(context.Background(), "+79179711111", "Ab3dE9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "READONLY")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// mockLimiter counts Wait calls and returns err.
type mockLimiter struct {
	calls int
	err   error
}

func (m *mockLimiter) Wait(context.Context) error {
	m.calls++
	return m.err
}

func TestHTTPCourier_Deliver_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body smsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "+79179711111", body.To)
		assert.Equal(t, "identity", body.From)
		assert.Contains(t, body.Text, "Ab3dE9")

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	limiter := &mockLimiter{}
	cfg := HTTPConfig{BaseURL: server.URL, APIKey: "test-key", Sender: "identity"}
	c := NewHTTPCourier(cfg, server.Client(), limiter)

	require.NoError(t, c.Deliver(context.Background(), "+79179711111", "Ab3dE9"))
	assert.Equal(t, 1, limiter.calls)
}

func TestHTTPCourier_Deliver_Errors(t *testing.T) {
	t.Parallel()

	t.Run("gateway error status", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, "quota exceeded\n")
		}))
		defer server.Close()

		c := NewHTTPCourier(HTTPConfig{BaseURL: server.URL}, server.Client(), nil)
		err := c.Deliver(context.Background(), "+79179711111", "Ab3dE9")
		require.Error(t, err)
		assert.Equal(t, "sms gateway http 429: quota exceeded", err.Error())
	})

	t.Run("limiter canceled", func(t *testing.T) {
		t.Parallel()
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		limiter := &mockLimiter{err: context.Canceled}
		c := NewHTTPCourier(HTTPConfig{BaseURL: server.URL}, server.Client(), limiter)
		err := c.Deliver(context.Background(), "+79179711111", "Ab3dE9")
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, called, "gateway must not be called when the limiter fails")
	})

	t.Run("unreachable gateway", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		c := NewHTTPCourier(HTTPConfig{BaseURL: url}, &http.Client{Timeout: time.Second}, nil)
		assert.Error(t, c.Deliver(context.Background(), "+79179711111", "Ab3dE9"))
	})

	t.Run("no api key means no auth header", func(t *testing.T) {
		t.Parallel()
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
		}))
		defer server.Close()

		c := NewHTTPCourier(HTTPConfig{BaseURL: server.URL}, server.Client(), nil)
		assert.NoError(t, c.Deliver(context.Background(), "+79179711111", "Ab3dE9"))
	})
}
