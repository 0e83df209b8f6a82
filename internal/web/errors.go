package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical detail and request id, then
// returned as the mapped user message: JSON for API clients, an HTML page
// otherwise.
//
// Session actions that fail for a user reason (missing field, quota) are
// not errors at this layer. They leave a status on the session and the
// browser is redirected back to the form, which shows it.

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/BearingSpec/internal/core"
	"github.com/JonMunkholm/BearingSpec/internal/logging"
	"github.com/JonMunkholm/BearingSpec/internal/web/templates"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes the user-facing message with statusCode.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if statusCode >= http.StatusInternalServerError && statusCode != http.StatusServiceUnavailable {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, userMsg, statusCode)
	} else {
		respondErrorHTML(w, r, userMsg, statusCode)
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML renders the error page.
func respondErrorHTML(w http.ResponseWriter, r *http.Request, msg core.UserMessage, statusCode int) {
	templ.Handler(
		templates.ErrorAlert(msg.Message, msg.Action, msg.Code),
		templ.WithStatus(statusCode),
	).ServeHTTP(w, r)
}

// statusFor picks the HTTP status for a failed session action.
func statusFor(err error) int {
	switch {
	case core.IsMissingField(err), errors.Is(err, core.ErrNothingToExport):
		return http.StatusUnprocessableEntity
	case core.IsQuotaExceeded(err):
		return http.StatusConflict
	case errors.Is(err, core.ErrUnsupportedFormat), errors.Is(err, core.ErrUnknownSelection):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyExports), errors.Is(err, core.ErrTooManySessions):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return true
	}

	// API routes default to JSON
	return strings.HasPrefix(r.URL.Path, "/api/")
}
