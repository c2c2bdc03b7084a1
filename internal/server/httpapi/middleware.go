package httpapi

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// statusRecorder remembers the first status written through it.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// routePattern returns the matched chi pattern so metrics labels stay
// bounded. Unmatched requests share one label.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// newLoggingMiddleware logs one line per request and records it in rec.
// The level follows the status class.
func newLoggingMiddleware(l logging.Logger, rec metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			route := routePattern(r)
			rec.RecordHTTP(route, sr.statusCode)

			args := []any{
				"method", r.Method,
				"route", route,
				"status", sr.statusCode,
				"duration_ms", float64(time.Since(start).Microseconds()) / 1000,
			}
			switch {
			case sr.statusCode >= 500:
				l.Error(r.Context(), "http_request", args...)
			case sr.statusCode >= 400:
				l.Warn(r.Context(), "http_request", args...)
			default:
				l.Info(r.Context(), "http_request", args...)
			}
		})
	}
}

func newRecoveryMiddleware(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					l.Error(r.Context(), "panic recovered",
						"panic", p,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// newProjectMiddleware rejects requests whose project query parameter does
// not name the served project.
func newProjectMiddleware(projectID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("project") != projectID {
				writeError(w, http.StatusNotFound, "project_not_found", "project not found")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
