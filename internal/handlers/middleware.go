package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"tourism-platform/internal/apperrors"
	"tourism-platform/pkg/logging"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestContext assigns a request id (reusing X-Request-ID when the caller
// sent one) and writes one access log line per request.
func RequestContext(logger *logging.StructuredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			ctx := logging.WithRequestID(r.Context(), id)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(ctx))

			logger.Info(ctx, "[HTTP] Request served", logging.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
		})
	}
}

// Recover turns a panic in a handler into a JSON 500.
func Recover(logger *logging.StructuredLogger) func(http.Handler) http.Handler {
	h := responder{logger: logger}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					err := fmt.Errorf("panic: %v", p)
					logger.Error(r.Context(), "[PANIC] Handler panicked", logging.Fields{"path": r.URL.Path}, err)
					h.sendJSON(w, map[string]interface{}{
						"error":   "Internal server error",
						"message": err.Error(),
						"code":    http.StatusInternalServerError,
						"kind":    apperrors.KindInternal,
					}, http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// StripTrailingSlash removes one trailing slash so "/states/" routes like
// "/states" without a redirect.
func StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := r.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
			r.URL.Path = strings.TrimSuffix(p, "/")
			if r.URL.RawPath != "" {
				r.URL.RawPath = strings.TrimSuffix(r.URL.RawPath, "/")
			}
		}
		next.ServeHTTP(w, r)
	})
}

// instrument records request count and latency per route template. It runs
// inside the router so the matched route is known.
func (h responder) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := routeTemplate(r)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		h.metrics.ActiveRequests.Inc()
		timer := h.metrics.NewTimer(h.metrics.APIRequestDuration.WithLabelValues(endpoint))
		defer func() {
			timer.ObserveDuration()
			h.metrics.ActiveRequests.Dec()
			h.metrics.RecordAPIRequest(endpoint, r.Method, strconv.Itoa(rec.status))
		}()

		next.ServeHTTP(rec, r)
	})
}
