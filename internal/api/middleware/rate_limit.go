package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"financialproducts/internal/config"
	"financialproducts/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter implements rate limiting using token bucket algorithm
type RateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	every    time.Duration // refill interval of one token
	burst    int
	cleanup  time.Duration
	window   int // Store window size for header calculations
	requests int // Store total requests for header calculations
	logger   *zap.Logger
	exempt   []string
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a new per-IP rate limiter.
// Requests whose path starts with one of exempt are never limited.
func NewRateLimiter(cfg config.RateLimitConfig, logger *zap.Logger, exempt ...string) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Refill evenly across the window
	every := time.Duration(cfg.Window) * time.Second / time.Duration(cfg.Requests)

	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.Requests
	}

	limiter := &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Every(every),
		every:    every,
		burst:    burst,
		cleanup:  time.Hour,
		window:   cfg.Window,
		requests: cfg.Requests,
		logger:   logger,
		exempt:   exempt,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	// Start cleanup routine
	go limiter.cleanupRoutine()

	return limiter
}

// Stop ends the cleanup routine and waits for it to exit
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
	<-rl.done
}

// getLimiter returns a rate limiter for the given key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[key]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double check after acquiring write lock
	limiter, exists = rl.limiters[key]
	if exists {
		return limiter
	}

	limiter = rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = limiter
	return limiter
}

// cleanupRoutine periodically drops all limiters so idle clients do not accumulate
func (rl *RateLimiter) cleanupRoutine() {
	defer close(rl.done)
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			rl.limiters = make(map[string]*rate.Limiter)
			rl.mu.Unlock()
		}
	}
}

func (rl *RateLimiter) unlimited(path string) bool {
	for _, prefix := range rl.exempt {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Middleware returns a Gin middleware function that implements rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.unlimited(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := c.ClientIP()
		limiter := rl.getLimiter(key)

		now := time.Now()
		if !limiter.AllowN(now, 1) {
			retryAfter := int(rl.every.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(time.Duration(retryAfter)*time.Second).Unix()))
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))

			rl.logger.Warn("http.rate_limited",
				zap.String("client_ip", key),
				zap.String("path", c.Request.URL.Path),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Name:    "TooManyRequestsError",
				Message: fmt.Sprintf("rate limit exceeded, retry after %ds", retryAfter),
			})
			return
		}

		// Calculate remaining tokens
		tokens := int(limiter.TokensAt(now))
		if tokens > rl.requests {
			tokens = rl.requests
		}
		if tokens < 0 {
			tokens = 0
		}

		// Add rate limit headers
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", tokens))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(time.Duration(rl.window)*time.Second).Unix()))

		c.Next()
	}
}
