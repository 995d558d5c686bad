package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsUpToMax(t *testing.T) {
	l := newRateLimiter(RateLimitConfig{Max: 3, Window: time.Minute})

	for i := range 3 {
		ok, _ := l.allow("client")
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, retryAfter := l.allow("client")
	assert.False(t, ok)
	assert.Positive(t, retryAfter)
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	l := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})

	ok, _ := l.allow("a")
	assert.True(t, ok)
	ok, _ = l.allow("a")
	assert.False(t, ok)

	ok, _ = l.allow("b")
	assert.True(t, ok)
}

func TestRateLimiter_WindowResets(t *testing.T) {
	l := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, _ := l.allow("client")
	require.True(t, ok)
	ok, _ = l.allow("client")
	require.False(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = l.allow("client")
	assert.True(t, ok)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	l := newRateLimiter(RateLimitConfig{Max: 1, Window: time.Minute})

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("stale")
	now = now.Add(3 * time.Minute)
	l.allow("fresh")

	l.cleanup()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.windows, "stale")
	assert.Contains(t, l.windows, "fresh")
}

func TestRateLimitMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		RateLimitWithCleanup(ctx, RateLimitConfig{Max: 2, Window: time.Minute}),
	)

	for range 2 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_DefaultsToClientIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// No KeyFunc configured: requests must be keyed by client IP, not panic.
	handler := Wrap(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		RateLimitWithCleanup(ctx, RateLimitConfig{Max: 1, Window: time.Minute}),
	)

	do := func(addr string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do("192.0.2.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, do("192.0.2.1:5678"))
	assert.Equal(t, http.StatusOK, do("192.0.2.2:1234"))
}
