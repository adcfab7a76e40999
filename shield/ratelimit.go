package shield

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type bucket struct {
	count   int
	resetAt time.Time
}

// RateLimiter provides fixed-window per-IP rate limiting. Buckets live in
// memory; the limiter is sized for a single operator box, not a fleet.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	exclude     []string // path prefixes excluded from limiting

	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewRateLimiter creates a limiter allowing maxRequests per window per IP.
// excludePrefixes bypass the limiter (e.g. "/health").
func NewRateLimiter(maxRequests int, window time.Duration, excludePrefixes ...string) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		exclude:     excludePrefixes,
		buckets:     map[string]*bucket{},
	}
}

// StartGC evicts expired buckets every 5 minutes until done is closed.
func (rl *RateLimiter) StartGC(done <-chan struct{}) {
	t := time.NewTicker(5 * time.Minute)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				rl.gc()
			}
		}
	}()
}

func (rl *RateLimiter) gc() {
	now := time.Now()
	rl.mu.Lock()
	for k, b := range rl.buckets {
		if now.After(b.resetAt) {
			delete(rl.buckets, k)
		}
	}
	rl.mu.Unlock()
}

// allow counts one request for ip and reports whether it stays under the
// limit.
func (rl *RateLimiter) allow(ip string) bool {
	now := time.Now()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[ip]
	if !ok || now.After(b.resetAt) {
		rl.buckets[ip] = &bucket{count: 1, resetAt: now.Add(rl.window)}
		return true
	}
	b.count++
	return b.count <= rl.maxRequests
}

// Middleware enforces the limit, answering 429 with a JSON error when an IP
// exceeds it.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, p := range rl.exclude {
			if strings.HasPrefix(r.URL.Path, p) {
				next.ServeHTTP(w, r)
				return
			}
		}
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !rl.allow(ip) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
