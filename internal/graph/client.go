// Package graph provides an HTTP client that forwards declarative request
// descriptors to the Microsoft Graph REST API using client-credential OAuth.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/mkoepke/msgraph-mcp/internal/config"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultMaxPages = 50
)

// Forwarder dispatches Graph request descriptors. It is implemented by
// Client and by test doubles.
type Forwarder interface {
	Do(ctx context.Context, req Request) (any, error)
}

// Client forwards request descriptors to Microsoft Graph. Bearer tokens are
// obtained through the OAuth2 client-credential flow and refreshed by the
// underlying token source as they expire.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     oauth2.TokenSource
	maxPages   int
}

// NewClient constructs a Client from the provided GraphConfig. It returns an
// error if the tenant or client credentials are missing. When cfg.Timeout is
// zero or negative, a default timeout of 30 seconds is used.
func NewClient(cfg config.GraphConfig) (*Client, error) {
	if cfg.TenantID == "" && cfg.TokenURL == "" {
		return nil, fmt.Errorf("graph: tenant_id is required")
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("graph: client_id is required")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("graph: client_secret is required")
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://graph.microsoft.com"
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID)
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = defaultTimeout
	}

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{baseURL + "/.default"},
	}

	httpClient := &http.Client{Timeout: timeout}

	// The token exchange is an outbound call too; route it through the same
	// timeout-bearing client instead of oauth2's default.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		tokens:     creds.TokenSource(tokenCtx),
		maxPages:   maxPages,
	}, nil
}

// Do validates req, attaches a bearer token, and issues the call. When
// req.AllData is set and the first page carries both a value array and an
// @odata.nextLink, all remaining pages are fetched sequentially and the
// combined Collection is returned. Otherwise the decoded response body is
// returned as-is.
//
// Validation failures wrap ErrValidation and happen before any outbound
// call. Upstream failures are returned as *APIError.
func (c *Client) Do(ctx context.Context, req Request) (any, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query, err := encodeQuery(req.QueryParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	target := c.baseURL + "/" + req.Version + req.Endpoint
	if query != "" {
		target += "?" + query
	}

	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("graph: token exchange failed: %w", err)
	}

	body, err := c.fetch(ctx, req, target, token.AccessToken)
	if err != nil {
		return nil, err
	}

	if req.AllData {
		return c.collectAll(ctx, req, body, token.AccessToken)
	}

	return decodeBody(body)
}

// fetch issues a single upstream call and returns the raw response body.
// Non-2xx responses are converted to *APIError.
func (c *Client) fetch(ctx context.Context, req Request, target, accessToken string) ([]byte, error) {
	var reqBody io.Reader
	if req.HasBody() {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("graph: marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("graph: create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	httpReq.Header.Set("Accept", "application/json")
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, val := range req.Headers {
		httpReq.Header.Set(key, val)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("graph: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("graph: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, upstreamError(resp.StatusCode, data)
	}

	return data, nil
}

// upstreamError builds an *APIError from a non-2xx response, parsing the
// OData error envelope when the body carries one.
func upstreamError(status int, body []byte) *APIError {
	var envelope odataError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &APIError{
			StatusCode: status,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
		}
	}
	return &APIError{
		StatusCode: status,
		Message:    strings.TrimSpace(string(body)),
	}
}

// decodeBody unmarshals raw response bytes. Empty bodies (204 responses)
// decode to nil.
func decodeBody(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("graph: decode response: %w", err)
	}
	return decoded, nil
}
