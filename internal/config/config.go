// Package config provides configuration loading and defaults for the msgraph-mcp server.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EndpointFilter holds allowlist and denylist patterns for Graph endpoint paths.
type EndpointFilter struct {
	Allowlist []string `yaml:"allowlist"`
	Denylist  []string `yaml:"denylist"`
}

// SafetyConfig groups the endpoint filter applied to every forwarded request.
type SafetyConfig struct {
	Endpoints EndpointFilter `yaml:"endpoints"`
}

// AuditConfig controls audit logging behaviour.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	LogPath string `yaml:"log_path"`
}

// ServerConfig holds network and authentication settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
}

// GraphConfig holds connection and credential details for Microsoft Graph.
type GraphConfig struct {
	TenantID     string `yaml:"tenant_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	// BaseURL is the Graph API root, without a version segment.
	BaseURL string `yaml:"base_url"`
	// TokenURL overrides the identity provider token endpoint. When empty it
	// is derived from TenantID.
	TokenURL string `yaml:"token_url"`
	// Timeout is the per-request HTTP timeout in seconds.
	Timeout int `yaml:"timeout"`
	// MaxPages caps how many pages an all-data request may follow.
	MaxPages int `yaml:"max_pages"`
}

// PermissionsConfig lists the Graph application permissions granted to this
// deployment. The permission gate denies any request whose required
// permission is not in this set.
type PermissionsConfig struct {
	Granted []string `yaml:"granted"`
}

// ChatConfig controls the natural-language adapter endpoint.
type ChatConfig struct {
	// FallbackSamples enables canned sample responses when the upstream
	// Graph call fails.
	FallbackSamples bool `yaml:"fallback_samples"`
}

// Config is the top-level configuration structure for the msgraph-mcp server.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Graph       GraphConfig       `yaml:"graph"`
	Permissions PermissionsConfig `yaml:"permissions"`
	Safety      SafetyConfig      `yaml:"safety"`
	Audit       AuditConfig       `yaml:"audit"`
	Chat        ChatConfig        `yaml:"chat"`
}

// LoadConfig reads and parses a YAML configuration file from the given path.
// It returns a pointer to the populated Config and any error encountered.
// On error, nil is returned for the config pointer.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a new Config populated with sensible default values.
// Each call returns a distinct instance.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Graph: GraphConfig{
			BaseURL:  "https://graph.microsoft.com",
			Timeout:  30,
			MaxPages: 50,
		},
		Permissions: PermissionsConfig{
			Granted: []string{
				"User.Read.All",
				"Group.Read.All",
				"Directory.ReadWrite.All",
			},
		},
		Audit: AuditConfig{
			Enabled: true,
			LogPath: "/config/audit.log",
		},
		Chat: ChatConfig{
			FallbackSamples: true,
		},
	}
}

// ApplyEnvOverrides updates cfg in place with values from environment variables.
// Recognized variables:
//   - GRAPH_MCP_AUTH_TOKEN overrides cfg.Server.AuthToken
//   - GRAPH_TENANT_ID overrides cfg.Graph.TenantID
//   - GRAPH_CLIENT_ID overrides cfg.Graph.ClientID
//   - GRAPH_CLIENT_SECRET overrides cfg.Graph.ClientSecret
//   - GRAPH_BASE_URL overrides cfg.Graph.BaseURL
func ApplyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GRAPH_MCP_AUTH_TOKEN"); token != "" {
		cfg.Server.AuthToken = token
	}
	if tenant := os.Getenv("GRAPH_TENANT_ID"); tenant != "" {
		cfg.Graph.TenantID = tenant
	}
	if id := os.Getenv("GRAPH_CLIENT_ID"); id != "" {
		cfg.Graph.ClientID = id
	}
	if secret := os.Getenv("GRAPH_CLIENT_SECRET"); secret != "" {
		cfg.Graph.ClientSecret = secret
	}
	if base := os.Getenv("GRAPH_BASE_URL"); base != "" {
		cfg.Graph.BaseURL = base
	}
}

// EnsureAuthToken generates a random auth token and sets it on cfg if
// cfg.Server.AuthToken is empty. It returns the token (existing or generated)
// and any error encountered during generation.
func EnsureAuthToken(cfg *Config) (string, error) {
	if cfg.Server.AuthToken != "" {
		return cfg.Server.AuthToken, nil
	}
	token, err := GenerateRandomToken()
	if err != nil {
		return "", fmt.Errorf("generate auth token: %w", err)
	}
	cfg.Server.AuthToken = token
	return token, nil
}

// GenerateRandomToken returns a 32-character hex-encoded cryptographically
// random token string.
func GenerateRandomToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}
	return hex.EncodeToString(b), nil
}
