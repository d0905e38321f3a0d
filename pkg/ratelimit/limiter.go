package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lensdl/pkg/config"
)

// Limiter paces outgoing requests
type Limiter interface {
	// Allow reports whether a request may proceed now and consumes a slot if so
	Allow() bool
	// Wait blocks until a request may proceed or ctx is done
	Wait(ctx context.Context) error
	// Reset restores the limiter to its initial state
	Reset()
}

// New builds the limiter selected by cfg.Strategy
func New(cfg config.RateLimitConfig) (Limiter, error) {
	if cfg.RequestsPerMinute <= 0 {
		return Unlimited{}, nil
	}
	switch cfg.Strategy {
	case "", "token_bucket":
		perToken := time.Minute / time.Duration(cfg.RequestsPerMinute)
		return NewTokenBucket(cfg.BurstSize, perToken), nil
	case "sliding_window":
		return NewSlidingWindow(cfg.RequestsPerMinute, time.Minute), nil
	default:
		return nil, fmt.Errorf("unknown rate limit strategy %q", cfg.Strategy)
	}
}

// TokenBucket allows bursts of up to capacity requests and refills one
// token every interval.
type TokenBucket struct {
	capacity   int
	tokens     float64
	interval   time.Duration
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a full bucket
func NewTokenBucket(capacity int, interval time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     float64(capacity),
		interval:   interval,
		lastRefill: time.Now(),
	}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(time.Now())
	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *TokenBucket) Wait(ctx context.Context) error {
	for !tb.Allow() {
		tb.mu.Lock()
		wait := time.Duration((1 - tb.tokens) * float64(tb.interval))
		tb.mu.Unlock()
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
	return nil
}

func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = float64(tb.capacity)
	tb.lastRefill = time.Now()
}

func (tb *TokenBucket) refill(now time.Time) {
	if tb.interval <= 0 {
		tb.tokens = float64(tb.capacity)
		return
	}
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+float64(elapsed)/float64(tb.interval))
	tb.lastRefill = now
}

// SlidingWindow allows at most maxRequests within any windowSize span
type SlidingWindow struct {
	windowSize  time.Duration
	maxRequests int
	requests    []time.Time
	mu          sync.Mutex
}

// NewSlidingWindow creates an empty sliding window limiter
func NewSlidingWindow(maxRequests int, windowSize time.Duration) *SlidingWindow {
	return &SlidingWindow{
		windowSize:  windowSize,
		maxRequests: maxRequests,
		requests:    make([]time.Time, 0, maxRequests),
	}
}

func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	sw.cleanOldRequests(now)

	if len(sw.requests) < sw.maxRequests {
		sw.requests = append(sw.requests, now)
		return true
	}
	return false
}

func (sw *SlidingWindow) Wait(ctx context.Context) error {
	for !sw.Allow() {
		sw.mu.Lock()
		wait := 10 * time.Millisecond
		if len(sw.requests) > 0 {
			wait = sw.windowSize - time.Since(sw.requests[0])
		}
		sw.mu.Unlock()
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
	return nil
}

func (sw *SlidingWindow) Reset() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.requests = sw.requests[:0]
}

func (sw *SlidingWindow) cleanOldRequests(now time.Time) {
	cutoff := now.Add(-sw.windowSize)

	i := 0
	for i < len(sw.requests) && !sw.requests[i].After(cutoff) {
		i++
	}
	if i > 0 {
		n := copy(sw.requests, sw.requests[i:])
		sw.requests = sw.requests[:n]
	}
}

// Unlimited never blocks
type Unlimited struct{}

func (Unlimited) Allow() bool                   { return true }
func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
func (Unlimited) Reset()                         {}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		d = time.Millisecond
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
