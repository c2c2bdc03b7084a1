package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/aora/internal/imagex"
)

const maxAvatarSize = 2000

// Initials renders a PNG avatar with the initials of the name query
// parameter. Optional width sets the square size.
func Initials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	size := imagex.DefaultAvatarSize
	if raw := q.Get("width"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxAvatarSize {
			writeError(w, http.StatusBadRequest, "general_argument_invalid", "invalid width")
			return
		}
		size = n
	}

	png, err := imagex.Avatar(q.Get("name"), size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(png)
}
