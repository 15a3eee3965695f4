package graph

import (
	"errors"
	"fmt"
)

// ErrValidation marks descriptor validation failures. These are detected
// before any outbound HTTP call is made.
var ErrValidation = errors.New("invalid graph request")

// APIError describes a non-2xx response from Microsoft Graph or from the
// identity provider token endpoint.
type APIError struct {
	// StatusCode is the upstream HTTP status.
	StatusCode int
	// Code is the OData error code when the upstream body carried one.
	Code string
	// Message is the OData error message, or the raw body when the error
	// envelope could not be parsed.
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("graph: upstream status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("graph: upstream status %d: %s", e.StatusCode, e.Message)
}

// odataError is the Graph API error envelope.
type odataError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
