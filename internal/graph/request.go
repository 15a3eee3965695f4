package graph

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Allowed Graph API versions.
const (
	VersionBeta = "beta"
	VersionV1   = "v1.0"
)

// Request is a declarative descriptor for one Microsoft Graph call.
type Request struct {
	// Endpoint is the Graph resource path, e.g. "/users". Required.
	Endpoint string `json:"endpoint"`
	// Method is one of GET, POST, PUT, PATCH. Defaults to GET.
	Method string `json:"method,omitempty"`
	// Version is "beta" or "v1.0". Defaults to "beta".
	Version string `json:"version,omitempty"`
	// Headers are added to the outbound request after the standard ones.
	Headers map[string]string `json:"headers,omitempty"`
	// Body is JSON-serialized for POST/PUT/PATCH requests.
	Body any `json:"body,omitempty"`
	// QueryParams are percent-encoded into the request URL. Map and slice
	// values are JSON-stringified first.
	QueryParams map[string]any `json:"queryParams,omitempty"`
	// AllData requests transparent @odata.nextLink pagination.
	AllData bool `json:"allData,omitempty"`
}

var allowedMethods = map[string]struct{}{
	"GET":   {},
	"POST":  {},
	"PUT":   {},
	"PATCH": {},
}

// Normalize fills in defaults and forces Endpoint to start with a slash.
// It mutates the receiver.
func (r *Request) Normalize() {
	if r.Method == "" {
		r.Method = "GET"
	} else {
		r.Method = strings.ToUpper(r.Method)
	}
	if r.Version == "" {
		r.Version = VersionBeta
	}
	if r.Endpoint != "" && !strings.HasPrefix(r.Endpoint, "/") {
		r.Endpoint = "/" + r.Endpoint
	}
}

// Validate checks the normalized descriptor against the allowed method and
// version sets. All failures wrap ErrValidation.
func (r *Request) Validate() error {
	if r.Endpoint == "" {
		return fmt.Errorf("%w: endpoint is required", ErrValidation)
	}
	if _, ok := allowedMethods[r.Method]; !ok {
		return fmt.Errorf("%w: method %q not allowed (GET, POST, PUT, PATCH)", ErrValidation, r.Method)
	}
	if r.Version != VersionBeta && r.Version != VersionV1 {
		return fmt.Errorf("%w: version %q not allowed (beta, v1.0)", ErrValidation, r.Version)
	}
	return nil
}

// HasBody reports whether the outbound call should carry a JSON body.
func (r *Request) HasBody() bool {
	return r.Body != nil && r.Method != "GET"
}

// encodeQuery serializes params into a URL query string. Scalar values are
// stringified directly; maps and slices are JSON-encoded before percent
// encoding. Keys are emitted in sorted order.
func encodeQuery(params map[string]any) (string, error) {
	if len(params) == 0 {
		return "", nil
	}

	values := url.Values{}
	for key, val := range params {
		switch v := val.(type) {
		case string:
			values.Set(key, v)
		case nil:
			values.Set(key, "")
		case bool, float64, float32, int, int32, int64:
			values.Set(key, fmt.Sprint(v))
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return "", fmt.Errorf("encode query param %q: %w", key, err)
			}
			values.Set(key, string(encoded))
		}
	}
	return values.Encode(), nil
}
