package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/g2g/pkg/config"
	"github.com/wonny/g2g/pkg/logger"
)

func newTestClient() *Client {
	cfg := &config.Config{Env: "development", LogLevel: "error"}
	return New(cfg, logger.Nop())
}

func TestNew(t *testing.T) {
	client := newTestClient()
	require.NotNil(t, client)

	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.logger)
	assert.Equal(t, 3, client.retryConfig.MaxRetries)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, DefaultUserAgent, client.headers["User-Agent"])
}

func TestNew_UsesConfiguredTimeout(t *testing.T) {
	cfg := &config.Config{
		HTTPTimeout: 7 * time.Second,
		Yahoo:       config.YahooConfig{Timeout: 3 * time.Second},
	}
	client := New(cfg, logger.Nop())

	assert.Equal(t, 7*time.Second, client.httpClient.Timeout)
}

func TestNewWithTimeout(t *testing.T) {
	cfg := &config.Config{Env: "development"}
	client := NewWithTimeout(cfg, logger.Nop(), 5*time.Second)

	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestNewWithTimeout_PerUpstream(t *testing.T) {
	cfg := &config.Config{
		HTTPTimeout: 30 * time.Second,
		Yahoo:       config.YahooConfig{Timeout: 10 * time.Second},
		Screener:    config.ScreenerConfig{Timeout: 15 * time.Second},
	}

	yahoo := NewWithTimeout(cfg, logger.Nop(), cfg.Yahoo.Timeout)
	screener := NewWithTimeout(cfg, logger.Nop(), cfg.Screener.Timeout)
	fallback := NewWithTimeout(cfg, logger.Nop(), 0)

	assert.Equal(t, 10*time.Second, yahoo.httpClient.Timeout)
	assert.Equal(t, 15*time.Second, screener.httpClient.Timeout)
	assert.Equal(t, 30*time.Second, fallback.httpClient.Timeout)
}

func TestWithRetry(t *testing.T) {
	client := newTestClient().WithRetry(5, 2*time.Second)

	assert.Equal(t, 5, client.retryConfig.MaxRetries)
	assert.Equal(t, 2*time.Second, client.retryConfig.InitialDelay)
	assert.True(t, client.retryConfig.Enabled)
}

func TestDisableRetry(t *testing.T) {
	client := newTestClient().DisableRetry()

	assert.False(t, client.retryConfig.Enabled)
}

func TestGet_SendsDefaultHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient().WithHeaders(map[string]string{"Accept": "application/json"})

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"ticker":"TCS.NS"}`, string(body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	resp, err := newTestClient().PostJSON(context.Background(), server.URL, map[string]string{"ticker": "TCS.NS"})
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRetryOn5xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client := newTestClient().WithRetry(3, 10*time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestRetryExhaustedReturnsLastResponse(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient().WithRetry(2, time.Millisecond)

	resp, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient().WithRetry(5, time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, server.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNoRetryOn4xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	resp, err := newTestClient().WithRetry(3, time.Millisecond).Get(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		statusCode int
		want       bool
	}{
		{200, false},
		{400, false},
		{404, false},
		{429, true},
		{500, true},
		{502, true},
		{503, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			if got := IsRetryableError(tt.statusCode); got != tt.want {
				t.Errorf("IsRetryableError(%d) = %v, want %v", tt.statusCode, got, tt.want)
			}
		})
	}
}
