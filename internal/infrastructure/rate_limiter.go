package infrastructure

import (
	"sync"

	"golang.org/x/time/rate"
)

// RecipientRateLimiter throttles webhook-triggered sends per recipient phone
// so a bulk request cannot flood a single chat.
type RecipientRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRecipientRateLimiter(limit rate.Limit, burst int) *RecipientRateLimiter {
	return &RecipientRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Allow consumes one token for the recipient, creating the bucket on first use.
func (l *RecipientRateLimiter) Allow(phone string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[phone]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[phone] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
