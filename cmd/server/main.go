// Package main is the entry point for the msgraph-mcp server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkoepke/msgraph-mcp/internal/assistant"
	"github.com/mkoepke/msgraph-mcp/internal/auth"
	"github.com/mkoepke/msgraph-mcp/internal/config"
	"github.com/mkoepke/msgraph-mcp/internal/directory"
	"github.com/mkoepke/msgraph-mcp/internal/graph"
	"github.com/mkoepke/msgraph-mcp/internal/httpapi"
	"github.com/mkoepke/msgraph-mcp/internal/permissions"
	"github.com/mkoepke/msgraph-mcp/internal/safety"
	"github.com/mkoepke/msgraph-mcp/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

const defaultConfigPath = "/config/config.yaml"

// writeMethods are the HTTP methods that require a confirmation round-trip
// before a tool call is forwarded.
var writeMethods = []string{"POST", "PUT", "PATCH"}

func main() {
	cfg := loadConfig()
	config.ApplyEnvOverrides(cfg)

	tokenBefore := cfg.Server.AuthToken
	token, err := config.EnsureAuthToken(cfg)
	if err != nil {
		log.Printf("warning: could not generate auth token: %v — running without authentication", err)
	} else if tokenBefore == "" {
		log.Printf("generated auth token (set GRAPH_MCP_AUTH_TOKEN to persist): %s", token)
	}

	// Open audit log writer if enabled.
	var auditLogger *safety.AuditLogger
	if cfg.Audit.Enabled {
		f, err := os.OpenFile(cfg.Audit.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			log.Printf("warning: could not open audit log %q: %v — audit logging disabled", cfg.Audit.LogPath, err)
		} else {
			auditLogger = safety.NewAuditLogger(f)
			defer f.Close()
		}
	}

	// Build safety components.
	endpointFilter := safety.NewFilter(
		cfg.Safety.Endpoints.Allowlist,
		cfg.Safety.Endpoints.Denylist,
	)
	writeConfirm := safety.NewConfirmationTracker(writeMethods)

	// Build the Graph forwarder and permission gate.
	graphClient, err := graph.NewClient(cfg.Graph)
	if err != nil {
		log.Fatalf("failed to create Graph client: %v", err)
	}
	gate := permissions.NewGate(cfg.Permissions.Granted)

	chatService := assistant.NewService(graphClient, gate, cfg.Chat.FallbackSamples)

	// Build MCP server.
	mcpServer := server.NewMCPServer(
		"msgraph-mcp",
		httpapi.Version,
		server.WithToolCapabilities(false),
	)

	tools.RegisterAll(mcpServer, directory.DirectoryTools(directory.Deps{
		Forwarder: graphClient,
		Gate:      gate,
		Filter:    endpointFilter,
		Confirm:   writeConfirm,
		Audit:     auditLogger,
	}))

	// Mount the Streamable HTTP MCP transport and the REST surface on one
	// mux, all behind the bearer-token middleware.
	restServer := httpapi.NewServer(graphClient, gate, endpointFilter, auditLogger, chatService)

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(mcpServer))
	mux.Handle("/", restServer.Router())

	authMiddleware := auth.NewAuthMiddleware(cfg.Server.AuthToken)
	wrappedHandler := authMiddleware(mux)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           wrappedHandler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("msgraph-mcp listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-stop
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
	log.Println("server stopped")
}

// loadConfig attempts to read the config file from the path specified by
// GRAPH_MCP_CONFIG_PATH or the default /config/config.yaml. If the file
// cannot be read, DefaultConfig is returned.
func loadConfig() *config.Config {
	path := os.Getenv("GRAPH_MCP_CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Printf("could not load config from %q (%v), using defaults", path, err)
		return config.DefaultConfig()
	}

	log.Printf("loaded config from %q", path)
	return cfg
}
