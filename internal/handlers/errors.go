package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/blogfeed/internal/apperr"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// writeJSON sends v as a JSON body with status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

var errorKinds = []struct {
	kind   error
	status int
}{
	{apperr.ErrInvalidToken, http.StatusUnauthorized},
	{apperr.ErrInvalidCredentials, http.StatusUnauthorized},
	{apperr.ErrConflict, http.StatusConflict},
	{apperr.ErrForbidden, http.StatusForbidden},
	{apperr.ErrNotFound, http.StatusNotFound},
	{apperr.ErrInvalidArgument, http.StatusBadRequest},
}

// WriteError maps an apperr kind to its status code. Errors built as "<kind>: detail"
// report the detail; anything unclassified is logged and answered with a bare 500.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	for _, k := range errorKinds {
		if !errors.Is(err, k.kind) {
			continue
		}
		if k.kind == apperr.ErrInvalidToken {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		JSONError(w, publicMessage(err, k.kind), k.status)
		return
	}
	slog.ErrorContext(r.Context(), "request failed",
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"err", err)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}

func publicMessage(err, kind error) string {
	prefix := kind.Error() + ": "
	if msg, ok := strings.CutPrefix(err.Error(), prefix); ok && msg != "" {
		return msg
	}
	return kind.Error()
}
