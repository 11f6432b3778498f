package api

import (
	"sync"

	"golang.org/x/time/rate"

	"github.com/avelasquez/quadrant-go/internal/domain/shared"
)

// CharacterRateLimiter bounds per-character call rates with one token bucket
// per (character, method) pair. Buckets are created lazily and never expire;
// the population is bounded by active characters times endpoints.
type CharacterRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewCharacterRateLimiter creates a rate limiter allowing requestsPerSecond
// sustained with the given burst.
func NewCharacterRateLimiter(requestsPerSecond float64, burst int) *CharacterRateLimiter {
	return &CharacterRateLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(requestsPerSecond),
		burst:   burst,
	}
}

// Check consumes one token for the character and method, returning a
// RateLimitError on exceedance.
func (l *CharacterRateLimiter) Check(characterID, method string) error {
	key := characterID + ":" + method

	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	if !bucket.Allow() {
		return shared.NewRateLimitError(characterID, method)
	}
	return nil
}
