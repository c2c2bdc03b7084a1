package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/dmitrijs2005/aora/internal/imagex"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Code: code, Message: message})
}

// writeServiceError maps a service error to a response. Unknown errors are
// reported without detail.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "storage_file_not_found", "file not found")
	case errors.Is(err, imagex.ErrUnsupportedMIMEType):
		writeError(w, http.StatusBadRequest, "storage_file_type_unsupported", "file type is not an image")
	case errors.Is(err, common.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "general_argument_invalid", err.Error())
	case errors.Is(err, common.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "general_server_unavailable", "storage unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "general_server_error", "internal server error")
	}
}
