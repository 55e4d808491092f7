package httpx_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hearthside/homesite/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"

		ip := httpx.IPKeyExtractor(req)
		require.Equal(t, "192.168.1.1", ip)
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")

		ip := httpx.IPKeyExtractor(req)
		require.Equal(t, "203.0.113.1", ip)
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")

		ip := httpx.IPKeyExtractor(req)
		require.Equal(t, "203.0.113.2", ip)
	})
}

func TestRateLimitMiddleware_BlocksAfterBurst(t *testing.T) {
	config := httpx.RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		Burst:             2,
	}

	handler := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		httpx.RateLimitByIP(config),
	)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do().Code)
	require.Equal(t, http.StatusOK, do().Code)

	rec := do()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimitMiddleware_IsolatesKeys(t *testing.T) {
	config := httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	}

	handler := httpx.Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		httpx.RateLimitByIP(config),
	)

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Exhaust one client, the other is unaffected.
	require.Equal(t, http.StatusOK, do("10.0.0.1:1"))
	require.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1"))
	require.Equal(t, http.StatusOK, do("10.0.0.2:1"))
}

func TestCompositeKeyExtractor(t *testing.T) {
	first := func(r *http.Request) string { return "a" }
	second := func(r *http.Request) string { return "b" }
	empty := func(r *http.Request) string { return "" }

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	extractor := httpx.CompositeKeyExtractor(":", first, empty, second)
	require.Equal(t, "a:b", extractor(req))
}

func TestParseRateLimitFromEnv(t *testing.T) {
	defaults := httpx.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Minute,
		Burst:             10,
	}

	t.Run("no env keeps defaults", func(t *testing.T) {
		got := httpx.ParseRateLimitFromEnv("MISSING", defaults)
		require.Equal(t, defaults, got)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("RATELIMIT_TESTPROFILE_REQUESTS", "3")
		t.Setenv("RATELIMIT_TESTPROFILE_WINDOW_SEC", "30")
		t.Setenv("RATELIMIT_TESTPROFILE_BURST", "5")

		got := httpx.ParseRateLimitFromEnv("TESTPROFILE", defaults)
		require.Equal(t, 3, got.RequestsPerWindow)
		require.Equal(t, 30*time.Second, got.Window)
		require.Equal(t, 5, got.Burst)
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		t.Setenv("RATELIMIT_TESTPROFILE_REQUESTS", fmt.Sprintf("%d", -1))
		t.Setenv("RATELIMIT_TESTPROFILE_WINDOW_SEC", "not-a-number")

		got := httpx.ParseRateLimitFromEnv("TESTPROFILE", defaults)
		require.Equal(t, defaults, got)
	})
}
