package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	rl := newRateLimiter(2)
	rl.now = func() time.Time { return now }

	require.True(t, rl.allow())
	require.True(t, rl.allow())
	require.False(t, rl.allow())

	now = now.Add(59 * time.Second)
	require.False(t, rl.allow())

	now = now.Add(time.Second)
	require.True(t, rl.allow())
}

func TestRateLimiterDisabled(t *testing.T) {
	var nilLimiter *rateLimiter
	require.True(t, nilLimiter.allow())

	rl := newRateLimiter(0)
	for range 1000 {
		require.True(t, rl.allow())
	}
}
