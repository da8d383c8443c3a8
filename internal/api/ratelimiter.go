package api

import (
	"net/http"

	"golang.org/x/time/rate"
)

// rateLimiter gates request admission. Implementations must be safe for
// concurrent use by multiple request goroutines.
type rateLimiter interface {
	Allow() bool
}

// tokenBucket adapts rate.Limiter to the rateLimiter interface. A nil
// tokenBucket admits every request.
type tokenBucket struct {
	bucket *rate.Limiter
}

func newTokenBucketLimiter(rps float64, burst int) rateLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &tokenBucket{bucket: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (t *tokenBucket) Allow() bool {
	if t == nil || t.bucket == nil {
		return true
	}
	return t.bucket.Allow()
}

func rateLimitMiddleware(limiter rateLimiter, next http.Handler) http.Handler {
	if limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "Too many requests", "rate limit exceeded, please retry shortly")
			return
		}
		next.ServeHTTP(w, r)
	})
}
