// Package middleware provides HTTP middleware for the web server.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/JonMunkholm/BearingSpec/internal/logging"
)

// Logger logs one structured entry per request after it completes.
//
// Log fields:
//   - method, path: the request line
//   - status: response status code
//   - bytes: response body size
//   - duration_ms: processing time in milliseconds
//   - ip: client address as rewritten by chi's RealIP
//   - request_id, session_id: added by logging.FromContext
//
// The session id is only known once the session middleware has run; it
// reports it back through SetSessionID.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		fields := &requestFields{}

		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), fieldsKey{}, fields)))

		logger := logging.FromContext(r.Context())
		if fields.sessionID != "" {
			logger = logger.With("session_id", fields.sessionID)
		}

		level := logger.Info
		if ww.status >= http.StatusInternalServerError {
			level = logger.Error
		}
		level("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.status,
			"bytes", ww.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", r.RemoteAddr,
		)
	})
}

type fieldsKey struct{}

// requestFields collects values learned by inner handlers.
type requestFields struct {
	sessionID string
}

// SetSessionID records the session serving the request on its access log
// entry. It is a no-op outside Logger.
func SetSessionID(ctx context.Context, id string) {
	if f, ok := ctx.Value(fieldsKey{}).(*requestFields); ok {
		f.sessionID = id
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (w *responseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Unwrap provides access to the underlying ResponseWriter for
// http.ResponseController.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
