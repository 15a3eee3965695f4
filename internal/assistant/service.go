package assistant

import (
	"context"
	"errors"

	"github.com/mkoepke/msgraph-mcp/internal/graph"
	"github.com/mkoepke/msgraph-mcp/internal/permissions"
)

// ErrNoIntent is returned when a message matches none of the keyword rules.
var ErrNoIntent = errors.New("assistant: no recognized intent in message")

// Reply is the chat adapter's response envelope.
type Reply struct {
	Intent Intent `json:"intent"`
	// Source is "graph" for live data and "sample" for fallback data.
	Source string `json:"source"`
	Data   any    `json:"data"`
}

// Service turns chat messages into gated Graph calls.
type Service struct {
	forwarder graph.Forwarder
	gate      *permissions.Gate
	fallback  bool
}

// NewService wires the chat adapter to a forwarder and permission gate.
// When fallback is true, failed upstream calls answer with canned sample
// data instead of an error.
func NewService(forwarder graph.Forwarder, gate *permissions.Gate, fallback bool) *Service {
	return &Service{
		forwarder: forwarder,
		gate:      gate,
		fallback:  fallback,
	}
}

// Respond extracts an intent from message, checks the permission gate, and
// forwards the expanded descriptor. Permission denials propagate as-is so
// callers can map them to 403; they are never masked by fallback data.
func (s *Service) Respond(ctx context.Context, message string) (*Reply, error) {
	req, intent, ok := ExtractIntent(message)
	if !ok {
		return nil, ErrNoIntent
	}

	req.Normalize()
	if err := s.gate.Check(req.Endpoint, req.Method); err != nil {
		return nil, err
	}

	result, err := s.forwarder.Do(ctx, req)
	if err != nil {
		if s.fallback {
			if sample := sampleFor(intent); sample != nil {
				return &Reply{Intent: intent, Source: "sample", Data: sample}, nil
			}
		}
		return nil, err
	}

	return &Reply{Intent: intent, Source: "graph", Data: result}, nil
}
