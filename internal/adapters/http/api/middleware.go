package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/vibecheck/internal/adapters/auth"
	"github.com/okian/vibecheck/pkg/logger"
	"github.com/okian/vibecheck/pkg/metrics"
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		statusCodeStr := strconv.Itoa(wrapped.statusCode)

		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)
		if wrapped.statusCode >= http.StatusBadRequest {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType(wrapped.statusCode))
		}
	}
}

// errorType returns a standardized error type based on HTTP status code.
func errorType(statusCode int) string {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "server_error"
	case statusCode == http.StatusUnauthorized:
		return "unauthorized"
	case statusCode == http.StatusNotFound:
		return "not_found"
	case statusCode >= http.StatusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// RequireAuth resolves the bearer token to an identity and stores it on the
// request context. Requests without a "Bearer " header are rejected with 401.
func RequireAuth(v auth.Verifier, next http.HandlerFunc) http.HandlerFunc {
	const op = "api.auth"
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, WrapKind(op, ErrUnauthorized, errNoToken))
			return
		}
		id, err := v.Verify(r.Context(), strings.TrimSpace(token))
		if err != nil {
			apiErr := Wrap(op, err)
			if status, _ := statusOf(apiErr); status >= http.StatusInternalServerError {
				logger.Get().Error(r.Context(), "token verification failed", logger.Error(err))
			}
			writeError(w, apiErr)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
