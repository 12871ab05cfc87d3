package chi

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/betahouse/listings/internal/ratelimit"
)

type fakeLimiter struct {
	decision ratelimit.Decision
	err      error
	keys     []string
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (ratelimit.Decision, error) {
	f.keys = append(f.keys, key)
	return f.decision, f.err
}

func TestRateLimit_Rejects(t *testing.T) {
	a := newTestAPI(t)
	lim := &fakeLimiter{decision: ratelimit.Decision{Allowed: false, Limit: 100, RetryAfter: 1500 * time.Millisecond}}
	h := a.handler(RouterConfig{Limiter: lim, LimiterDriver: "local"})

	rr := doRequest(t, h, http.MethodGet, "/api/properties", nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "2" {
		t.Errorf("Retry-After = %q, want 2", got)
	}
	if got := rr.Header().Get("RateLimit-Limit"); got != "100" {
		t.Errorf("RateLimit-Limit = %q", got)
	}
	var body errorResponse
	decodeBody(t, rr, &body)
	if body.Message != "Too many requests, please try again later." {
		t.Errorf("message = %q", body.Message)
	}
	if len(lim.keys) != 1 || lim.keys[0] != "192.0.2.1" {
		t.Errorf("keys = %v, want client host", lim.keys)
	}
}

func TestRateLimit_AllowsAndSetsHeaders(t *testing.T) {
	a := newTestAPI(t)
	lim := &fakeLimiter{decision: ratelimit.Decision{Allowed: true, Limit: 100, Remaining: 99}}
	h := a.handler(RouterConfig{Limiter: lim})

	rr := doRequest(t, h, http.MethodGet, "/api", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := rr.Header().Get("RateLimit-Remaining"); got != "99" {
		t.Errorf("RateLimit-Remaining = %q", got)
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	a := newTestAPI(t)
	lim := &fakeLimiter{err: errors.New("redis down")}
	h := a.handler(RouterConfig{Limiter: lim})

	rr := doRequest(t, h, http.MethodGet, "/api", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

func TestRateLimit_ExemptsHealth(t *testing.T) {
	a := newTestAPI(t)
	lim := &fakeLimiter{decision: ratelimit.Decision{Allowed: false}}
	h := a.handler(RouterConfig{Limiter: lim})

	rr := doRequest(t, h, http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if len(lim.keys) != 0 {
		t.Error("limiter must not be consulted for /health")
	}
}

func TestRateLimit_RealIP(t *testing.T) {
	a := newTestAPI(t)
	lim := &fakeLimiter{decision: ratelimit.Decision{Allowed: true}}
	h := a.handler(RouterConfig{Limiter: lim})

	_ = doRequest(t, h, http.MethodGet, "/api", nil, "X-Forwarded-For", "203.0.113.7")
	if len(lim.keys) != 1 || lim.keys[0] != "203.0.113.7" {
		t.Errorf("keys = %v", lim.keys)
	}
}

func TestSecurityHeaders(t *testing.T) {
	a := newTestAPI(t)
	rr := a.do(t, http.MethodGet, "/api", nil)
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	a := newTestAPI(t)
	h := a.handler(RouterConfig{AllowedOrigins: []string{"https://betahouse.example"}})

	rr := doRequest(t, h, http.MethodOptions, "/api/properties", nil,
		"Origin", "https://betahouse.example",
		"Access-Control-Request-Method", "POST",
	)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://betahouse.example" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestCeilSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{0, 0},
		{-time.Second, 0},
		{time.Millisecond, 1},
		{time.Second, 1},
		{1001 * time.Millisecond, 2},
	}
	for _, tt := range tests {
		if got := ceilSeconds(tt.in); got != tt.want {
			t.Errorf("ceilSeconds(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
