// Package permissions maps Graph endpoints to required application
// permissions and checks them against the set granted to this deployment.
// This is a static lookup policy, not an authorization backend.
package permissions

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPermission marks requests denied by the gate.
var ErrPermission = errors.New("permission denied")

// Permission strings for the supported endpoint prefixes.
const (
	PermUserRead       = "User.Read.All"
	PermUserReadWrite  = "User.ReadWrite.All"
	PermGroupRead      = "Group.Read.All"
	PermGroupReadWrite = "Group.ReadWrite.All"
	PermDirectoryWrite = "Directory.ReadWrite.All"
)

// RequiredPermission returns the permission a call to endpoint with the given
// HTTP method needs. GET is the read class; POST, PUT, and PATCH are the
// write class. Unrecognized endpoints require the directory catch-all.
func RequiredPermission(endpoint, method string) string {
	write := strings.ToUpper(method) != "GET"

	switch {
	case strings.HasPrefix(endpoint, "/users"):
		if write {
			return PermUserReadWrite
		}
		return PermUserRead
	case strings.HasPrefix(endpoint, "/groups"):
		if write {
			return PermGroupReadWrite
		}
		return PermGroupRead
	default:
		return PermDirectoryWrite
	}
}

// Gate holds the granted permission set and answers allow/deny queries.
// The set is fixed at construction; there is no persistence.
type Gate struct {
	granted map[string]struct{}
}

// NewGate builds a Gate from the granted permission list. Comparison is
// exact; duplicates are collapsed.
func NewGate(granted []string) *Gate {
	g := &Gate{granted: make(map[string]struct{}, len(granted))}
	for _, perm := range granted {
		g.granted[perm] = struct{}{}
	}
	return g
}

// Has reports whether perm is in the granted set.
func (g *Gate) Has(perm string) bool {
	_, ok := g.granted[perm]
	return ok
}

// Check returns an error wrapping ErrPermission when the permission required
// for endpoint and method has not been granted.
func (g *Gate) Check(endpoint, method string) error {
	required := RequiredPermission(endpoint, method)
	if !g.Has(required) {
		return fmt.Errorf("%w: %s %s requires %s", ErrPermission, strings.ToUpper(method), endpoint, required)
	}
	return nil
}
