package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticLimiter struct {
	allow bool
}

func (s *staticLimiter) Allow() bool {
	return s.allow
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("denies with 429 and Retry-After", func(t *testing.T) {
		middleware := rateLimitMiddleware(&staticLimiter{allow: false}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			t.Fatalf("handler should not execute when rate limited")
		}))

		rec := httptest.NewRecorder()
		middleware.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
		if got := rec.Header().Get("Retry-After"); got != "1" {
			t.Fatalf("expected Retry-After header, got %q", got)
		}
	})

	t.Run("admits when limiter allows", func(t *testing.T) {
		var called bool
		middleware := rateLimitMiddleware(&staticLimiter{allow: true}, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			called = true
		}))

		rec := httptest.NewRecorder()
		middleware.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if !called {
			t.Fatalf("expected handler to execute when limiter allows")
		}
	})

	t.Run("nil limiter is a passthrough", func(t *testing.T) {
		var called bool
		middleware := rateLimitMiddleware(nil, http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			called = true
		}))

		rec := httptest.NewRecorder()
		middleware.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if !called {
			t.Fatalf("expected handler to execute without a limiter")
		}
	})
}

func TestTokenBucketExhaustsBurst(t *testing.T) {
	t.Parallel()

	limiter := newTokenBucketLimiter(0.001, 2)
	if !limiter.Allow() || !limiter.Allow() {
		t.Fatalf("expected burst of 2 to admit two immediate requests")
	}
	if limiter.Allow() {
		t.Fatalf("expected third immediate request to be denied")
	}
}

func TestNewTokenBucketLimiterClampsInvalidSettings(t *testing.T) {
	t.Parallel()

	limiter := newTokenBucketLimiter(0, 0)
	if limiter == nil {
		t.Fatalf("expected limiter instance")
	}
	if !limiter.Allow() {
		t.Fatalf("expected first request to be allowed")
	}
}

func TestTokenBucketNilReceiverAllows(t *testing.T) {
	t.Parallel()

	var limiter *tokenBucket
	if !limiter.Allow() {
		t.Fatalf("expected nil token bucket to admit requests")
	}
}
