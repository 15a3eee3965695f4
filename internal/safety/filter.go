// Package safety provides endpoint filtering, write confirmation, and audit
// logging for forwarded Microsoft Graph requests.
package safety

import "strings"

// Filter controls which Graph endpoint paths may be forwarded, using an
// allowlist and a denylist. A pattern ending in "*" matches any endpoint
// with that prefix; any other pattern matches exactly.
//
// Rules:
//   - If both lists are empty (or nil), every endpoint is allowed.
//   - Denylist always takes priority over the allowlist.
//   - If a non-empty allowlist is present, an endpoint must match at least
//     one allowlist pattern to be permitted (after the denylist check).
type Filter struct {
	allowlist []string
	denylist  []string
}

// NewFilter constructs a Filter from the provided allowlist and denylist
// pattern slices. Either or both may be nil or empty.
func NewFilter(allowlist, denylist []string) *Filter {
	return &Filter{
		allowlist: allowlist,
		denylist:  denylist,
	}
}

// IsAllowed reports whether endpoint is permitted by this filter.
func (f *Filter) IsAllowed(endpoint string) bool {
	// Denylist wins first.
	for _, pattern := range f.denylist {
		if matchEndpoint(pattern, endpoint) {
			return false
		}
	}

	// If the allowlist is empty (or nil), everything not denied is allowed.
	if len(f.allowlist) == 0 {
		return true
	}

	// Endpoint must match at least one allowlist pattern.
	for _, pattern := range f.allowlist {
		if matchEndpoint(pattern, endpoint) {
			return true
		}
	}

	return false
}

// matchEndpoint returns true when endpoint matches pattern. A trailing "*"
// turns the pattern into a prefix match; otherwise the match is exact.
func matchEndpoint(pattern, endpoint string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(endpoint, prefix)
	}
	return pattern == endpoint
}
