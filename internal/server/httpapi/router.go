// Package httpapi serves the HTTP side of the platform: file view and
// preview, initials avatars, health and metrics.
package httpapi

import (
	"context"
	"io"
	"net/http"

	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/metrics"
	"github.com/dmitrijs2005/aora/internal/server/models"
	"github.com/go-chi/chi/v5"
)

// FileService is what the file routes need from the files service.
type FileService interface {
	ViewURL(ctx context.Context, bucketID, fileID string) (string, error)
	Open(ctx context.Context, bucketID, fileID string) (*models.File, io.ReadCloser, error)
}

// RouterDeps groups the dependencies of NewRouter.
type RouterDeps struct {
	PathPrefix     string
	ProjectID      string
	Files          FileService
	Metrics        metrics.Recorder
	MetricsHandler http.Handler
	Logger         logging.Logger
}

// NewRouter mounts the platform routes under deps.PathPrefix. Health and
// metrics live at the root and skip the project check.
func NewRouter(deps *RouterDeps) http.Handler {
	l := deps.Logger.With("module", "http_api")

	r := chi.NewRouter()
	r.Use(newRecoveryMiddleware(l))
	r.Use(newLoggingMiddleware(l, deps.Metrics))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	fh := &fileHandler{files: deps.Files, logger: l}

	r.Route(deps.PathPrefix, func(r chi.Router) {
		r.Use(newProjectMiddleware(deps.ProjectID))

		r.Route("/storage/buckets/{bucket}/files/{file}", func(r chi.Router) {
			r.Get("/view", fh.View)
			r.Get("/preview", fh.Preview)
		})
		r.Get("/avatars/initials", Initials)
	})

	return r
}
