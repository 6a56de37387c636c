package ebay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached is returned when the daily API call quota has been
// exhausted. The aggregator treats it like any other soft failure: the
// source contributes nothing for the rest of the window.
var ErrDailyLimitReached = errors.New("daily API limit reached")

const quotaWindow = 24 * time.Hour

// RateLimiter gates Browse API calls with a token bucket for short-term rate
// and a rolling 24-hour window for the daily quota. The window opens on
// construction and resets 24 hours later.
type RateLimiter struct {
	bucket  *rate.Limiter
	nowFunc func() time.Time

	mu       sync.Mutex
	used     int64
	maxDaily int64
	resetAt  time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// NewRateLimiter creates a rate limiter with the given per-second rate,
// burst size, and daily call quota.
func NewRateLimiter(perSecond float64, burst int, maxDaily int64, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		bucket:   rate.NewLimiter(rate.Limit(perSecond), burst),
		maxDaily: maxDaily,
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.nowFunc().Add(quotaWindow)
	return r
}

// Wait blocks until the token bucket allows the call or the context is
// canceled. It returns ErrDailyLimitReached without blocking when the daily
// quota is spent.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.consumeQuota(); err != nil {
		return err
	}
	if err := r.bucket.Wait(ctx); err != nil {
		r.refundQuota()
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// DailyCount returns the number of calls made in the current window.
func (r *RateLimiter) DailyCount() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.used
}

// Remaining returns the calls left in the current window.
func (r *RateLimiter) Remaining() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if left := r.maxDaily - r.used; left > 0 {
		return left
	}
	return 0
}

// ResetAt returns when the current window expires.
func (r *RateLimiter) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetAt
}

func (r *RateLimiter) consumeQuota() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now := r.nowFunc(); now.After(r.resetAt) {
		r.used = 0
		r.resetAt = now.Add(quotaWindow)
	}

	if r.used >= r.maxDaily {
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, r.used, r.maxDaily)
	}
	r.used++
	return nil
}

func (r *RateLimiter) refundQuota() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.used > 0 {
		r.used--
	}
}
