package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/aora/internal/imagex"
	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/go-chi/chi/v5"
)

// Preview bounds.
const (
	maxPreviewSide = 4000
	maxQuality     = 100
)

type fileHandler struct {
	files  FileService
	logger logging.Logger
}

// View redirects to a short-lived direct URL of the file.
func (h *fileHandler) View(w http.ResponseWriter, r *http.Request) {
	url, err := h.files.ViewURL(r.Context(), chi.URLParam(r, "bucket"), chi.URLParam(r, "file"))
	if err != nil {
		h.logger.Debug(r.Context(), "view failed", "error", err)
		writeServiceError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// Preview renders a cropped and scaled copy of an image file.
func (h *fileHandler) Preview(w http.ResponseWriter, r *http.Request) {
	opts, ok := parsePreviewOptions(w, r)
	if !ok {
		return
	}

	f, body, err := h.files.Open(r.Context(), chi.URLParam(r, "bucket"), chi.URLParam(r, "file"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer body.Close()

	if !imagex.Supported(f.MimeType) {
		writeServiceError(w, imagex.ErrUnsupportedMIMEType)
		return
	}

	out, mimeType, err := imagex.Preview(body, f.MimeType, opts)
	if err != nil {
		h.logger.Warn(r.Context(), "preview failed", "bucket", f.BucketID, "file_id", f.ID, "error", err)
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	_, _ = w.Write(out)
}

func parsePreviewOptions(w http.ResponseWriter, r *http.Request) (imagex.PreviewOptions, bool) {
	q := r.URL.Query()
	opts := imagex.PreviewOptions{Gravity: q.Get("gravity")}

	bounded := func(name string, max int) (int, bool) {
		raw := q.Get(name)
		if raw == "" {
			return 0, true
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > max {
			writeError(w, http.StatusBadRequest, "general_argument_invalid",
				"invalid "+name+": must be between 0 and "+strconv.Itoa(max))
			return 0, false
		}
		return n, true
	}

	var ok bool
	if opts.Width, ok = bounded("width", maxPreviewSide); !ok {
		return opts, false
	}
	if opts.Height, ok = bounded("height", maxPreviewSide); !ok {
		return opts, false
	}
	if opts.Quality, ok = bounded("quality", maxQuality); !ok {
		return opts, false
	}

	switch opts.Gravity {
	case "", imagex.GravityCenter, imagex.GravityTop, imagex.GravityBottom, imagex.GravityLeft, imagex.GravityRight:
	default:
		writeError(w, http.StatusBadRequest, "general_argument_invalid", "invalid gravity "+strconv.Quote(opts.Gravity))
		return opts, false
	}
	return opts, true
}
