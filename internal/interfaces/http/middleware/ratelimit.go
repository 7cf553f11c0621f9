package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/clothstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*visitor
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows requests per window on average with bursts up to burst.
// A burst below 1 defaults to requests.
func NewRateLimiter(requests int, window time.Duration, burst int) *RateLimiter {
	if requests < 1 {
		requests = 1
	}
	if burst < 1 {
		burst = requests
	}
	return &RateLimiter{
		clients: make(map[string]*visitor),
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   burst,
		idleTTL: 2 * window,
		now:     time.Now,
	}
}

// Allow consumes a token for key and reports the tokens left
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	v, ok := rl.clients[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = v
	}
	v.lastSeen = now

	allowed := v.limiter.AllowN(now, 1)
	remaining := int(math.Max(0, math.Floor(v.limiter.TokensAt(now))))
	return allowed, remaining
}

// sweep drops idle buckets; it runs at most once per idle TTL
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.idleTTL {
		return
	}
	for key, v := range rl.clients {
		if now.Sub(v.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// Burst returns the bucket size
func (rl *RateLimiter) Burst() int {
	return rl.burst
}

// RateLimit limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining := limiter.Allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Burst()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				c.GetString(RequestIDContextKey),
			))
			return
		}
		c.Next()
	}
}
