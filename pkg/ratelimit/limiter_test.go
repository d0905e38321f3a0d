package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lensdl/pkg/config"
)

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(5, 50*time.Millisecond)

	for i := 0; i < 5; i++ {
		assert.True(t, tb.Allow(), "token %d", i+1)
	}
	assert.False(t, tb.Allow())

	time.Sleep(60 * time.Millisecond)
	assert.True(t, tb.Allow())

	tb.Reset()
	for i := 0; i < 5; i++ {
		assert.True(t, tb.Allow())
	}
}

func TestTokenBucketWait(t *testing.T) {
	tb := NewTokenBucket(1, 30*time.Millisecond)
	require.True(t, tb.Allow())

	start := time.Now()
	require.NoError(t, tb.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestTokenBucketWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, tb.Wait(ctx), context.DeadlineExceeded)
}

func TestSlidingWindow(t *testing.T) {
	sw := NewSlidingWindow(3, 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		assert.True(t, sw.Allow(), "request %d", i+1)
	}
	assert.False(t, sw.Allow())

	time.Sleep(60 * time.Millisecond)
	assert.True(t, sw.Allow())

	sw.Reset()
	assert.Empty(t, sw.requests)
}

func TestSlidingWindowWait(t *testing.T) {
	sw := NewSlidingWindow(1, 30*time.Millisecond)
	require.True(t, sw.Allow())

	start := time.Now()
	require.NoError(t, sw.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestNew(t *testing.T) {
	l, err := New(config.RateLimitConfig{Strategy: "token_bucket", RequestsPerMinute: 60, BurstSize: 2})
	require.NoError(t, err)
	assert.IsType(t, &TokenBucket{}, l)

	l, err = New(config.RateLimitConfig{Strategy: "sliding_window", RequestsPerMinute: 10, BurstSize: 1})
	require.NoError(t, err)
	assert.IsType(t, &SlidingWindow{}, l)

	l, err = New(config.RateLimitConfig{RequestsPerMinute: 0})
	require.NoError(t, err)
	assert.Equal(t, Unlimited{}, l)

	_, err = New(config.RateLimitConfig{Strategy: "leaky", RequestsPerMinute: 1})
	assert.Error(t, err)
}
