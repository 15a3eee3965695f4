package graph

import (
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Normalize
// ---------------------------------------------------------------------------

func Test_Normalize_Cases(t *testing.T) {
	tests := []struct {
		name         string
		in           Request
		wantEndpoint string
		wantMethod   string
		wantVersion  string
	}{
		{
			name:         "defaults applied to minimal descriptor",
			in:           Request{Endpoint: "/users"},
			wantEndpoint: "/users",
			wantMethod:   "GET",
			wantVersion:  "beta",
		},
		{
			name:         "missing leading slash is added",
			in:           Request{Endpoint: "users"},
			wantEndpoint: "/users",
			wantMethod:   "GET",
			wantVersion:  "beta",
		},
		{
			name:         "lowercase method is upper-cased",
			in:           Request{Endpoint: "/users", Method: "post"},
			wantEndpoint: "/users",
			wantMethod:   "POST",
			wantVersion:  "beta",
		},
		{
			name:         "explicit version preserved",
			in:           Request{Endpoint: "/users", Version: "v1.0"},
			wantEndpoint: "/users",
			wantMethod:   "GET",
			wantVersion:  "v1.0",
		},
		{
			name:         "empty endpoint left empty for Validate to catch",
			in:           Request{},
			wantEndpoint: "",
			wantMethod:   "GET",
			wantVersion:  "beta",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.in
			r.Normalize()
			if r.Endpoint != tt.wantEndpoint {
				t.Errorf("Endpoint = %q, want %q", r.Endpoint, tt.wantEndpoint)
			}
			if r.Method != tt.wantMethod {
				t.Errorf("Method = %q, want %q", r.Method, tt.wantMethod)
			}
			if r.Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", r.Version, tt.wantVersion)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Validate
// ---------------------------------------------------------------------------

func Test_Validate_Cases(t *testing.T) {
	tests := []struct {
		name        string
		in          Request
		wantErr     bool
		errContains string
	}{
		{
			name:    "valid GET beta",
			in:      Request{Endpoint: "/users", Method: "GET", Version: "beta"},
			wantErr: false,
		},
		{
			name:    "valid PATCH v1.0",
			in:      Request{Endpoint: "/users/1", Method: "PATCH", Version: "v1.0"},
			wantErr: false,
		},
		{
			name:        "missing endpoint rejected",
			in:          Request{Method: "GET", Version: "beta"},
			wantErr:     true,
			errContains: "endpoint is required",
		},
		{
			name:        "DELETE rejected",
			in:          Request{Endpoint: "/users", Method: "DELETE", Version: "beta"},
			wantErr:     true,
			errContains: "method",
		},
		{
			name:        "unknown version rejected",
			in:          Request{Endpoint: "/users", Method: "GET", Version: "v2.0"},
			wantErr:     true,
			errContains: "version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("error %v does not wrap ErrValidation", err)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// encodeQuery
// ---------------------------------------------------------------------------

func Test_encodeQuery_Cases(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{
			name:   "nil params produce empty string",
			params: nil,
			want:   "",
		},
		{
			name:   "string value",
			params: map[string]any{"$select": "displayName,mail"},
			want:   "%24select=displayName%2Cmail",
		},
		{
			name:   "numeric and bool values stringified",
			params: map[string]any{"$top": float64(25), "$count": true},
			want:   "%24count=true&%24top=25",
		},
		{
			name:   "object value is JSON-stringified",
			params: map[string]any{"filter": map[string]any{"dept": "eng"}},
			want:   "filter=%7B%22dept%22%3A%22eng%22%7D",
		},
		{
			name:   "keys emitted in sorted order",
			params: map[string]any{"b": "2", "a": "1"},
			want:   "a=1&b=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeQuery(tt.params)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("encodeQuery(%v) = %q, want %q", tt.params, got, tt.want)
			}
		})
	}
}
