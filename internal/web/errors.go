package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"rosterclean/internal/core"
	"rosterclean/internal/logging"
)

// errorResponse is the JSON error body returned by the API routes.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError writes an error response in the format the client asked
// for. Known pipeline and upload errors become a user-facing message
// with a support code; anything unmapped stays a generic 500 so
// internals never leak to the browser.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())

	status := http.StatusInternalServerError
	if core.IsUserFacing(err) {
		status = http.StatusBadRequest
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusRequestTimeout
	}

	ue := core.MapError(err)
	logger.Error("request failed",
		"path", r.URL.Path,
		"status", status,
		"code", ue.Code,
		"error", err,
	)

	if wantsJSON(r) {
		writeJSON(w, status, errorResponse{Error: ue.Message, Code: ue.Code})
		return
	}

	http.Error(w, fmt.Sprintf("%s (code: %s)", ue.Message, ue.Code), status)
}

// respondRateLimited is the terse 429 used by the rate limit middleware,
// which runs before any handler and has no service context.
func respondRateLimited(w http.ResponseWriter, r *http.Request) {
	ue := core.MapError(fmt.Errorf("rate limit exceeded"))
	if wantsJSON(r) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: ue.Message, Code: ue.Code})
		return
	}
	http.Error(w, fmt.Sprintf("%s (code: %s)", ue.Message, ue.Code), http.StatusTooManyRequests)
}

// wantsJSON reports whether the client is an API consumer rather than
// the upload form. API routes always get JSON.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
