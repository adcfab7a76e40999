package observability

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// HTTPLog returns middleware that records every request in
// http_request_logs. The insert runs inline after the response is written;
// a local sqlite write is cheap enough not to need a buffer.
func (l *EventLogger) HTTPLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		_, err := l.db.ExecContext(r.Context(), `
			INSERT INTO http_request_logs (
				method, path, status_code, duration_ms, ip_address, user_agent, created_at
			) VALUES (?,?,?,?,?,?,?)`,
			r.Method, r.URL.Path, ww.Status(), time.Since(start).Milliseconds(),
			r.RemoteAddr, r.UserAgent(), time.Now().Unix())
		if err != nil {
			slog.Warn("http request log failed", "error", err, "path", r.URL.Path)
		}
	})
}
