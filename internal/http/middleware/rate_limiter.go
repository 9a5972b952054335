package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"stock-service/internal/auth"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	keyPrefixSubject = "sub:"
	keyPrefixIP      = "ip:"

	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"

	// login endpoints: 5 req/sec, burst of 10
	strictRPS   = 5
	strictBurst = 10
)

// RateLimiter implements token bucket rate limiting per caller
type RateLimiter struct {
	limiters sync.Map // key -> *rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a new rate limiter
// requestsPerSecond: number of requests allowed per second
// burst: maximum burst size
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// NewStrictRateLimiter creates the limiter placed in front of the login endpoints
func NewStrictRateLimiter() *RateLimiter {
	return NewRateLimiter(strictRPS, strictBurst)
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	return limiter.(*rate.Limiter)
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// callerKey buckets authenticated callers by subject and everyone else by IP.
func callerKey(c echo.Context) string {
	if id, ok := auth.GetIdentity(c); ok && id.Subject != "" {
		return keyPrefixSubject + id.Subject
	}
	return keyPrefixIP + c.RealIP()
}

// Middleware returns an Echo middleware function for rate limiting.
// It must run after authentication for subject keys to apply.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(callerKey(c))
			h := c.Response().Header()
			h.Set(headerRateLimitLimit, strconv.Itoa(rl.burst))

			if !limiter.Allow() {
				h.Set(headerRateLimitRemaining, "0")
				h.Set(headerRetryAfter, "1")
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
			}

			h.Set(headerRateLimitRemaining, strconv.Itoa(int(limiter.Tokens())))
			return next(c)
		}
	}
}
