package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRateLimiter_AllowWithinBurst tests that requests within the burst are
// allowed immediately
func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow(), "burst exhausted")
}

// TestRateLimiter_Wait tests that Wait succeeds when tokens are available
func TestRateLimiter_Wait(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 5})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, limiter.Wait(ctx))
}

// TestRateLimiter_BackoffBlocksAllow tests that a recorded 429 blocks
// immediate requests
func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})

	limiter.RecordRateLimitError(5)
	assert.False(t, limiter.Allow())
}

// TestRateLimiter_WaitRespectsContextDuringBackoff tests that a cancelled
// context unblocks a backoff wait
func TestRateLimiter_WaitRespectsContextDuringBackoff(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	limiter.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestRateLimiter_DefaultBackoff tests the fallback backoff period
func TestRateLimiter_DefaultBackoff(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})

	// Missing Retry-After header surfaces as zero seconds.
	limiter.RecordRateLimitError(0)
	assert.False(t, limiter.Allow())
}

// TestRateLimiter_InvalidConfigFallsBack tests that nonsense configuration
// falls back to defaults
func TestRateLimiter_InvalidConfigFallsBack(t *testing.T) {
	limiter := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: -1, BurstSize: 0})
	assert.True(t, limiter.Allow())
}
