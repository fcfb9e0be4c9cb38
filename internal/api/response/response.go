package response

import (
	"encoding/json"
	"net/http"
)

// Error codes returned by the API. Every failure carries one of these plus a
// user-safe message.
const (
	CodeAuthenticationRequired = "AUTHENTICATION_REQUIRED"
	CodeForbidden              = "FORBIDDEN"
	CodeValidationFailed       = "VALIDATION_FAILED"
	CodeMissingOrganization    = "MISSING_ORGANIZATION"
	CodeNotFound               = "NOT_FOUND"
	CodeConflict               = "CONFLICT"
	CodeUpstreamError          = "UPSTREAM_ERROR"
	CodeRateLimitExceeded      = "RATE_LIMIT_EXCEEDED"
	CodeInternalError          = "INTERNAL_ERROR"
)

type envelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Data: data})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Error(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
