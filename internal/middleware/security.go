package middleware

import (
	"net/http"
	"sync"
	"time"

	"undergraduation-admin/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SecureHeaders sets the standard hardening headers.
func SecureHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter allows maxRequests per window for each client IP, with bursts
// up to maxRequests. Idle entries are dropped by a janitor that exits when
// stop is closed. A non-positive maxRequests disables limiting.
func RateLimiter(maxRequests int, window time.Duration, stop <-chan struct{}) gin.HandlerFunc {
	if maxRequests <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	visitors := make(map[string]*visitor)
	var mu sync.Mutex

	go func() {
		expiry := window * 3
		if expiry < time.Minute {
			expiry = time.Minute
		}
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				mu.Lock()
				for ip, v := range visitors {
					if time.Since(v.lastSeen) > expiry {
						delete(visitors, ip)
					}
				}
				mu.Unlock()
			}
		}
	}()

	every := rate.Every(window / time.Duration(maxRequests))

	return func(c *gin.Context) {
		key := c.ClientIP()

		mu.Lock()
		v, ok := visitors[key]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(every, maxRequests)}
			visitors[key] = v
		}
		v.lastSeen = time.Now()
		mu.Unlock()

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Error:   "rate_limited",
				Message: "Too many requests",
			})
			return
		}
		c.Next()
	}
}
