// Package httpapi exposes the REST surface of the msgraph-mcp server:
// the Graph forwarding endpoint, the chat adapter, and the health check.
package httpapi

import (
	"encoding/json"
	"net/http"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Error codes used in structured error responses.
const (
	codeParseError      = "parse_error"
	codeValidationError = "validation_error"
	codeForbidden       = "forbidden"
	codeUnauthorized    = "unauthorized"
	codeUpstreamError   = "upstream_error"
	codeInternalError   = "internal_error"
)

// errorBody is the structured error response shape.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON serialises v to the response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured {error, message} body.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}
