package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterBudgetAndReset(t *testing.T) {
	rl := NewRateLimiter(2, 20*time.Millisecond)

	require.True(t, rl.Allow("10.0.0.1"))
	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"))
	require.Greater(t, rl.RetryAfter("10.0.0.1"), 0)

	// Other clients keep their own budget.
	require.True(t, rl.Allow("10.0.0.2"))

	// An expired window yields a fresh bucket.
	time.Sleep(25 * time.Millisecond)
	require.True(t, rl.Allow("10.0.0.1"))

	// Unknown clients have nothing to wait for.
	require.Equal(t, 0, rl.RetryAfter("10.0.0.3"))
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:4312"
	require.Equal(t, "192.0.2.7", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.2")
	require.Equal(t, "203.0.113.9", clientIP(r))
}
