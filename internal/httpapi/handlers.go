package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mkoepke/msgraph-mcp/internal/assistant"
	"github.com/mkoepke/msgraph-mcp/internal/auth"
	"github.com/mkoepke/msgraph-mcp/internal/graph"
	"github.com/mkoepke/msgraph-mcp/internal/jsonrepair"
	"github.com/mkoepke/msgraph-mcp/internal/permissions"
	"github.com/mkoepke/msgraph-mcp/internal/safety"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Server holds the collaborators for the REST surface. All fields are set at
// construction; there is no mutable state shared across requests.
type Server struct {
	forwarder graph.Forwarder
	gate      *permissions.Gate
	filter    *safety.Filter
	audit     *safety.AuditLogger
	chat      *assistant.Service
}

// NewServer wires the REST handlers to their collaborators. audit may be
// nil, in which case no audit entries are written.
func NewServer(
	forwarder graph.Forwarder,
	gate *permissions.Gate,
	filter *safety.Filter,
	audit *safety.AuditLogger,
	chat *assistant.Service,
) *Server {
	return &Server{
		forwarder: forwarder,
		gate:      gate,
		filter:    filter,
		audit:     audit,
		chat:      chat,
	}
}

// Router returns the REST route table. The /api/* routes require the
// user-identifying header; /health does not.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/graph", auth.RequireUser(http.HandlerFunc(s.handleGraph)))
	mux.Handle("POST /api/chat", auth.RequireUser(http.HandlerFunc(s.handleChat)))
	mux.HandleFunc("GET /health", s.handleHealth)
	return withRequestID(mux)
}

// handleGraph decodes a Graph request descriptor (with one lenient-repair
// retry), applies the endpoint filter and permission gate, and forwards the
// call.
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeParseError, "could not read request body")
		return
	}

	req, err := decodeDescriptor(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeParseError, err.Error())
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		s.logRequest(r, "api", req, "error: "+err.Error(), start)
		writeError(w, http.StatusBadRequest, codeValidationError, err.Error())
		return
	}

	if !s.filter.IsAllowed(req.Endpoint) {
		s.logRequest(r, "api", req, "error: endpoint filtered", start)
		writeError(w, http.StatusForbidden, codeForbidden, fmt.Sprintf("endpoint %s is not permitted", req.Endpoint))
		return
	}

	if err := s.gate.Check(req.Endpoint, req.Method); err != nil {
		s.logRequest(r, "api", req, "error: "+err.Error(), start)
		writeError(w, http.StatusForbidden, codeForbidden, err.Error())
		return
	}

	result, err := s.forwarder.Do(r.Context(), req)
	if err != nil {
		s.logRequest(r, "api", req, "error: "+err.Error(), start)
		status, code := statusForError(err)
		writeError(w, status, code, err.Error())
		return
	}

	s.logRequest(r, "api", req, "ok", start)
	writeJSON(w, http.StatusOK, result)
}

// chatRequest is the body shape for the chat adapter.
type chatRequest struct {
	Message string `json:"message"`
}

// handleChat runs a chat message through keyword intent extraction and the
// same gate and forwarder as handleGraph.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeParseError, "could not read request body")
		return
	}

	var req chatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		if err := json.Unmarshal([]byte(jsonrepair.Repair(string(body))), &req); err != nil {
			writeError(w, http.StatusBadRequest, codeParseError, "request body is not valid JSON")
			return
		}
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, codeValidationError, "message is required")
		return
	}

	reply, err := s.chat.Respond(r.Context(), req.Message)
	if err != nil {
		s.logRequest(r, "chat", graph.Request{Endpoint: "/chat", Method: "POST"}, "error: "+err.Error(), start)
		switch {
		case errors.Is(err, assistant.ErrNoIntent):
			writeError(w, http.StatusBadRequest, codeValidationError, err.Error())
		case errors.Is(err, permissions.ErrPermission):
			writeError(w, http.StatusForbidden, codeForbidden, err.Error())
		default:
			status, code := statusForError(err)
			writeError(w, status, code, err.Error())
		}
		return
	}

	s.logRequest(r, "chat", graph.Request{Endpoint: "/chat", Method: "POST"}, "ok", start)
	writeJSON(w, http.StatusOK, reply)
}

// handleHealth reports liveness and the server version.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": Version,
	})
}

// decodeDescriptor parses body into a Request, retrying once through the
// lenient JSON repairer when strict parsing fails.
func decodeDescriptor(body []byte) (graph.Request, error) {
	var req graph.Request
	if err := json.Unmarshal(body, &req); err == nil {
		return req, nil
	}

	repaired := jsonrepair.Repair(string(body))
	if err := json.Unmarshal([]byte(repaired), &req); err != nil {
		return graph.Request{}, errors.New("request body is not valid JSON")
	}
	return req, nil
}

// statusForError maps forwarder errors to HTTP statuses per the error
// taxonomy: validation 400, permission 403, everything upstream 500.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, graph.ErrValidation):
		return http.StatusBadRequest, codeValidationError
	case errors.Is(err, permissions.ErrPermission):
		return http.StatusForbidden, codeForbidden
	default:
		var apiErr *graph.APIError
		if errors.As(err, &apiErr) {
			return http.StatusInternalServerError, codeUpstreamError
		}
		return http.StatusInternalServerError, codeInternalError
	}
}

// logRequest writes one audit entry, silently ignoring a nil logger.
func (s *Server) logRequest(r *http.Request, source string, req graph.Request, result string, start time.Time) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Log(safety.AuditEntry{
		Timestamp: start,
		RequestID: r.Header.Get(RequestIDHeader),
		User:      r.Header.Get(auth.UserHeader),
		Source:    source,
		Endpoint:  req.Endpoint,
		Method:    req.Method,
		Result:    result,
		Duration:  time.Since(start),
	})
}
