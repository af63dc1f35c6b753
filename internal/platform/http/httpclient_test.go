package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(ClientConfig{Timeout: 10 * time.Second})
	assert.Equal(t, 10*time.Second, c.Timeout)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 100, tr.MaxIdleConns)
	assert.Equal(t, 5*time.Second, tr.TLSHandshakeTimeout)
	assert.Equal(t, 90*time.Second, tr.IdleConnTimeout)
	assert.NotNil(t, tr.Proxy)
}

func TestNewHTTPClient_Overrides(t *testing.T) {
	t.Parallel()

	c := NewHTTPClient(ClientConfig{
		Timeout:             time.Second,
		TLSHandshakeTimeout: 2 * time.Second,
		MaxIdleConns:        7,
	})

	tr := c.Transport.(*http.Transport)
	assert.Equal(t, 7, tr.MaxIdleConns)
	assert.Equal(t, 2*time.Second, tr.TLSHandshakeTimeout)
}
