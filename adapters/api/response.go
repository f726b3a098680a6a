package api

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"goqmra/domain/core"
	apperrors "goqmra/internal/errors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Issues    []core.ValidationIssue `json:"issues,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if id := chimiddleware.GetReqID(r.Context()); id != "" {
		w.Header().Set("X-Request-Id", id)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// writeError classifies err and writes it with the matching status.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.FromDomain(err)
	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.Error("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, r, status, ErrorBody{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Issues:    appErr.Issues,
		RequestID: chimiddleware.GetReqID(r.Context()),
	})
}
