package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backoffice/internal/interfaces/http/dto"
	"k8s.io/utils/clock"
)

// RateLimiter is a fixed-window request counter per key
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	period  time.Duration
	clock   clock.PassiveClock
}

type window struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per period
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return NewRateLimiterWithClock(limit, period, clock.RealClock{})
}

// NewRateLimiterWithClock is NewRateLimiter on an explicit clock
func NewRateLimiterWithClock(limit int, period time.Duration, clk clock.PassiveClock) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		period:  period,
		clock:   clk,
	}
}

// Allow checks if a request from the given key should be allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	rl.evictLocked(now)

	w, exists := rl.clients[key]
	if !exists || now.Sub(w.lastReset) >= rl.period {
		rl.clients[key] = &window{tokens: rl.limit - 1, lastReset: now}
		return rl.limit > 0
	}
	if w.tokens > 0 {
		w.tokens--
		return true
	}
	return false
}

// Remaining returns the number of remaining requests for the given key
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, exists := rl.clients[key]
	if !exists || rl.clock.Since(w.lastReset) >= rl.period {
		return rl.limit
	}
	return w.tokens
}

// evictLocked drops windows idle for two periods
func (rl *RateLimiter) evictLocked(now time.Time) {
	for key, w := range rl.clients {
		if now.Sub(w.lastReset) > 2*rl.period {
			delete(rl.clients, key)
		}
	}
}

// RateLimitByKey returns a rate limiting middleware with a custom key
// extractor. An empty key falls back to the client IP.
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)
		if key == "" {
			key = c.ClientIP()
		}

		if !limiter.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				GetRequestID(c),
			))
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}

// RateLimitByUser limits per authenticated user
func RateLimitByUser(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, GetJWTUserID)
}
