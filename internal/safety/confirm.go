package safety

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

const tokenTTL = 5 * time.Minute

// pendingConfirmation holds the metadata for an outstanding confirmation token.
type pendingConfirmation struct {
	method    string
	endpoint  string
	summary   string
	createdAt time.Time
}

// ConfirmationTracker manages single-use, time-limited confirmation tokens
// for Graph calls that mutate directory data.
type ConfirmationTracker struct {
	guarded map[string]struct{}

	mu     sync.Mutex
	tokens map[string]*pendingConfirmation
}

// NewConfirmationTracker returns a ConfirmationTracker whose set of HTTP
// methods requiring explicit confirmation is defined by guardedMethods. A nil
// or empty slice means no method requires confirmation.
func NewConfirmationTracker(guardedMethods []string) *ConfirmationTracker {
	ct := &ConfirmationTracker{
		guarded: make(map[string]struct{}, len(guardedMethods)),
		tokens:  make(map[string]*pendingConfirmation),
	}
	for _, method := range guardedMethods {
		ct.guarded[method] = struct{}{}
	}
	return ct
}

// NeedsConfirmation reports whether method is in the guarded set.
func (ct *ConfirmationTracker) NeedsConfirmation(method string) bool {
	_, ok := ct.guarded[method]
	return ok
}

// sweepExpired removes all tokens whose age exceeds tokenTTL. The caller must
// hold ct.mu.
func (ct *ConfirmationTracker) sweepExpired() {
	for token, pending := range ct.tokens {
		if time.Since(pending.createdAt) > tokenTTL {
			delete(ct.tokens, token)
		}
	}
}

// RequestConfirmation creates a new confirmation token for the given method,
// endpoint, and summary and returns the opaque token string. Tokens are
// valid for 5 minutes and are single-use.
func (ct *ConfirmationTracker) RequestConfirmation(method, endpoint, summary string) string {
	token := generateToken()

	ct.mu.Lock()
	ct.sweepExpired()
	ct.tokens[token] = &pendingConfirmation{
		method:    method,
		endpoint:  endpoint,
		summary:   summary,
		createdAt: time.Now(),
	}
	ct.mu.Unlock()

	return token
}

// Confirm consumes the given token and returns true if it was valid and
// unexpired. Subsequent calls with the same token return false.
func (ct *ConfirmationTracker) Confirm(token string) bool {
	if token == "" {
		return false
	}

	ct.mu.Lock()
	defer ct.mu.Unlock()

	pending, ok := ct.tokens[token]
	if !ok {
		return false
	}

	// Remove the token immediately (single-use).
	delete(ct.tokens, token)

	// Check expiry.
	if time.Since(pending.createdAt) > tokenTTL {
		return false
	}

	return true
}

// generateToken returns a cryptographically random hex-encoded token string.
func generateToken() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// Fall back to a timestamp-based value if crypto/rand is unavailable.
		// This should never happen in practice.
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b[:])
}
