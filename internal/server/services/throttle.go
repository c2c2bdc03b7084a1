package services

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type keyLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginLimiter throttles login attempts per email address.
type LoginLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*keyLimiter
	now      func() time.Time
}

// NewLoginLimiter allows perMinute attempts per key with the given burst.
func NewLoginLimiter(perMinute float64, burst int) *LoginLimiter {
	return &LoginLimiter{
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		limiters: make(map[string]*keyLimiter),
		now:      time.Now,
	}
}

// Allow consumes one attempt for key. Keys are case-insensitive.
func (l *LoginLimiter) Allow(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	now := l.now()

	l.mu.Lock()
	kl, ok := l.limiters[key]
	if !ok {
		kl = &keyLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = kl
	}
	kl.lastAccess = now
	l.mu.Unlock()

	return kl.limiter.AllowN(now, 1)
}

// Cleanup drops limiters idle for longer than ttl and returns how many
// remain.
func (l *LoginLimiter) Cleanup(ttl time.Duration) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, kl := range l.limiters {
		if now.Sub(kl.lastAccess) > ttl {
			delete(l.limiters, key)
		}
	}
	return len(l.limiters)
}
