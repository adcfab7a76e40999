package shield

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// WHAT: every configured header lands on the response.
func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(DefaultHeaders())(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	for k, v := range want {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("CSP header missing")
	}
}

// WHAT: HEAD requests reach GET handlers.
func TestHeadToGet(t *testing.T) {
	var method string
	h := HeadToGet(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		method = r.Method
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodHead, "/", nil))
	if method != http.MethodGet {
		t.Errorf("handler saw %s, want GET", method)
	}
}

// WHAT: bodies over the cap fail to read inside the handler.
func TestMaxBody(t *testing.T) {
	var readErr error
	h := MaxBody(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		_, readErr = r.Body.Read(buf)
	}))
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 32)))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if readErr == nil {
		t.Error("oversized body read succeeded, want error")
	}
}

// WHAT: trace ID appears in the response header and context logger exists.
func TestTraceID(t *testing.T) {
	h := TraceID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		if GetLogger(r.Context()) == nil {
			t.Error("per-request logger missing from context")
		}
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Trace-ID") == "" {
		t.Error("X-Trace-ID header missing")
	}
}

// WHAT: requests over the per-IP limit get 429; excluded paths never do;
// the window resets.
func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, 50*time.Millisecond, "/health")
	h := rl.Middleware(okHandler())

	do := func(path string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if do("/api/fill") != http.StatusOK || do("/api/fill") != http.StatusOK {
		t.Fatal("first two requests should pass")
	}
	if do("/api/fill") != http.StatusTooManyRequests {
		t.Error("third request should be limited")
	}
	if do("/health") != http.StatusOK {
		t.Error("excluded path should bypass the limiter")
	}

	time.Sleep(60 * time.Millisecond)
	if do("/api/fill") != http.StatusOK {
		t.Error("window expiry should reset the bucket")
	}
}

// WHAT: distinct IPs get distinct buckets.
func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	h := rl.Middleware(okHandler())

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if do("10.0.0.1:1") != http.StatusOK {
		t.Fatal("first IP first request should pass")
	}
	if do("10.0.0.1:2") != http.StatusTooManyRequests {
		t.Error("first IP second request should be limited (port ignored)")
	}
	if do("10.0.0.2:1") != http.StatusOK {
		t.Error("second IP should have its own bucket")
	}
}
