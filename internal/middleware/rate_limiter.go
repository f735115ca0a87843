package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/rmitchellscott/bannermaster/internal/logging"
)

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
}

// NewIPRateLimiter allows perMinute requests per IP with bursts of the same size.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &IPRateLimiter{
		rate:  rate.Every(time.Minute / time.Duration(perMinute)),
		burst: perMinute,
	}
}

func (l *IPRateLimiter) get(ip string) *rate.Limiter {
	if val, ok := l.limiters.Load(ip); ok {
		return val.(*rate.Limiter)
	}
	val, _ := l.limiters.LoadOrStore(ip, rate.NewLimiter(l.rate, l.burst))
	return val.(*rate.Limiter)
}

// Allow reports whether ip may make another request now.
func (l *IPRateLimiter) Allow(ip string) bool {
	return l.get(ip).Allow()
}

// RateLimit rejects requests over the per-IP budget with 429.
func (l *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Allow(ip) {
			logging.WarnWithComponent(logging.ComponentUploads, "Rate limit exceeded", "ip", ip, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, please try again later"})
			return
		}
		c.Next()
	}
}

// RequestSizeLimit caps the request body at maxBytes. Declared lengths over
// the cap are rejected with 413 before the handler runs; undeclared bodies
// fail with *http.MaxBytesError when read past the cap.
func RequestSizeLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Request body too large"})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
