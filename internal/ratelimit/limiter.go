// Package ratelimit provides rate limiting for platform API calls using a
// token bucket algorithm.
//
// The platform throttles admin tokens at 3600 requests/hour (1 req/sec)
// across all JSON endpoints. We target 85% of that to keep a safety margin:
// hitting the hard limit blocks the token for an extended period.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// AdminScopeRatePerSec is 85% of the platform's 1 req/sec admin limit.
	AdminScopeRatePerSec = 0.85

	// AdminScopeBurstCapacity allows a burst of rapid calls at session start
	// (tree + config document + a handful of object probes) before the
	// refill rate takes over.
	AdminScopeBurstCapacity = 30
)

// Limiter implements a token bucket rate limiter.
// It allows bursts up to the bucket capacity, then refills at a fixed rate.
type Limiter struct {
	tokens       float64
	maxTokens    float64
	refillRate   float64
	lastRefill   time.Time
	lastWarnTime time.Time
	mu           sync.Mutex
}

// NewLimiter creates a limiter refilling at tokensPerSecond with the given
// burst capacity. The bucket starts full.
func NewLimiter(tokensPerSecond, burstSize float64) *Limiter {
	return &Limiter{
		tokens:     burstSize,
		maxTokens:  burstSize,
		refillRate: tokensPerSecond,
		lastRefill: time.Now(),
	}
}

// NewAdminScopeLimiter creates the limiter shared by all JSON endpoints.
func NewAdminScopeLimiter() *Limiter {
	return NewLimiter(AdminScopeRatePerSec, AdminScopeBurstCapacity)
}

// Wait blocks until a token is available or the context is cancelled.
func (rl *Limiter) Wait(ctx context.Context) error {
	start := time.Now()

	if rl.tryAcquire() {
		return nil
	}

	if wait := rl.timeUntilNextToken(); wait > 2*time.Second {
		rl.mu.Lock()
		if time.Since(rl.lastWarnTime) > 10*time.Second {
			log.Warn().Float64("wait_secs", wait.Seconds()).Msg("rate limited, waiting for API capacity")
			rl.lastWarnTime = time.Now()
		}
		rl.mu.Unlock()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if rl.tryAcquire() {
			if waited := time.Since(start); waited > 5*time.Second {
				log.Debug().Float64("waited_secs", waited.Seconds()).Msg("rate limit wait completed")
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rl.timeUntilNextToken()):
		}
	}
}

// tryAcquire attempts to acquire one token without blocking.
func (rl *Limiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = now

	if rl.tokens >= 1.0 {
		rl.tokens -= 1.0
		return true
	}
	return false
}

// timeUntilNextToken calculates how long until at least one token is available.
func (rl *Limiter) timeUntilNextToken() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.tokens >= 1.0 {
		return 0
	}
	missing := 1.0 - rl.tokens
	seconds := missing / rl.refillRate
	return time.Duration(seconds * float64(time.Second))
}
