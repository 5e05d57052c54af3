package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/beismanmaps/server/internal/domain/ratelimit"
)

// RateLimiter implements ratelimit.Limiter using GCRA in memory.
// Thread-safe for concurrent access. Like the session store, its state is
// process-local; limits reset on restart.
// Includes background cleanup to prevent unbounded memory growth.
type RateLimiter struct {
	cells           map[string]time.Time // Theoretical Arrival Time per key
	mu              sync.Mutex
	stopChan        chan struct{}
	wg              sync.WaitGroup
	once            sync.Once
	cleanupInterval time.Duration
	maxTTL          time.Duration
}

// NewRateLimiter creates a new in-memory rate limiter with default cleanup
// settings (5 minute interval, 1 hour key TTL).
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(5*time.Minute, 1*time.Hour)
}

// NewRateLimiterWithConfig creates a new in-memory rate limiter with custom
// cleanup settings.
func NewRateLimiterWithConfig(cleanupInterval, maxTTL time.Duration) *RateLimiter {
	return &RateLimiter{
		cells:           make(map[string]time.Time),
		stopChan:        make(chan struct{}),
		cleanupInterval: cleanupInterval,
		maxTTL:          maxTTL,
	}
}

// Allow checks if an event is allowed under the given rate limit config.
// Uses GCRA (Generic Cell Rate Algorithm) for smooth rate limiting.
func (r *RateLimiter) Allow(ctx context.Context, key string, config ratelimit.Config) (ratelimit.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	if config.Rate <= 0 {
		config.Rate = 1
	}
	emission := config.Period / time.Duration(config.Rate)

	if config.Burst <= 0 {
		config.Burst = config.Rate
	}
	burstOffset := time.Duration(config.Burst) * emission

	// Theoretical Arrival Time for the key.
	tat, exists := r.cells[key]
	if !exists || tat.Before(now) {
		tat = now
	}

	// Advance first, then check: the request is denied when admitting it
	// would push the TAT past the burst window. This admits exactly Burst
	// immediate requests per window.
	newTAT := tat.Add(emission)

	if newTAT.Sub(now) > burstOffset {
		return ratelimit.Result{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: newTAT.Sub(now) - burstOffset,
			ResetAfter: tat.Sub(now),
		}, nil
	}

	r.cells[key] = newTAT

	remaining := int((burstOffset - newTAT.Sub(now)) / emission)
	if remaining < 0 {
		remaining = 0
	}
	if remaining > config.Burst {
		remaining = config.Burst
	}

	return ratelimit.Result{
		Allowed:    true,
		Remaining:  remaining,
		RetryAfter: 0,
		ResetAfter: newTAT.Sub(now),
	}, nil
}

// StartCleanup starts the background cleanup goroutine.
// The goroutine periodically removes keys older than maxTTL.
// It stops when ctx is cancelled or Stop() is called.
func (r *RateLimiter) StartCleanup(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stopChan:
				return
			case <-ticker.C:
				r.cleanup()
			}
		}
	}()
}

// cleanup removes keys older than maxTTL from the rate limiter.
func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-r.maxTTL)
	cleaned := 0

	for key, tat := range r.cells {
		if tat.Before(cutoff) {
			delete(r.cells, key)
			cleaned++
		}
	}

	if cleaned > 0 {
		slog.Debug("rate limiter cleanup completed",
			"cleaned_keys", cleaned,
			"remaining_keys", len(r.cells))
	}
}

// Stop gracefully stops the cleanup goroutine and waits for it to exit.
// Safe to call multiple times.
func (r *RateLimiter) Stop() {
	r.once.Do(func() {
		close(r.stopChan)
	})
	r.wg.Wait()
}

// Size returns the current number of tracked keys.
func (r *RateLimiter) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cells)
}

// Compile-time interface verification.
var _ ratelimit.Limiter = (*RateLimiter)(nil)
