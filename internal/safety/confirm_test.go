package safety

import (
	"testing"
)

func Test_ConfirmationTracker_NeedsConfirmation_Cases(t *testing.T) {
	guarded := []string{"POST", "PUT", "PATCH"}

	tests := []struct {
		name   string
		method string
		want   bool
	}{
		{name: "POST needs confirmation", method: "POST", want: true},
		{name: "PUT needs confirmation", method: "PUT", want: true},
		{name: "PATCH needs confirmation", method: "PATCH", want: true},
		{name: "GET does not need confirmation", method: "GET", want: false},
		{name: "empty method does not need confirmation", method: "", want: false},
	}

	ct := NewConfirmationTracker(guarded)
	if ct == nil {
		t.Fatal("NewConfirmationTracker() returned nil")
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ct.NeedsConfirmation(tt.method)
			if got != tt.want {
				t.Errorf("NeedsConfirmation(%q) = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}

func Test_ConfirmationTracker_NilGuardedSet(t *testing.T) {
	ct := NewConfirmationTracker(nil)
	if ct.NeedsConfirmation("POST") {
		t.Error("nil guarded set should require no confirmation")
	}
}

func Test_ConfirmationTracker_TokenLifecycle(t *testing.T) {
	ct := NewConfirmationTracker([]string{"POST"})

	t.Run("issued token confirms once", func(t *testing.T) {
		token := ct.RequestConfirmation("POST", "/groups", "create group Engineering")
		if token == "" {
			t.Fatal("RequestConfirmation returned empty token")
		}

		if !ct.Confirm(token) {
			t.Error("first Confirm returned false, want true")
		}
		if ct.Confirm(token) {
			t.Error("second Confirm returned true, want false (single-use)")
		}
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		if ct.Confirm("deadbeefdeadbeefdeadbeefdeadbeef") {
			t.Error("Confirm accepted an unknown token")
		}
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		if ct.Confirm("") {
			t.Error("Confirm accepted an empty token")
		}
	})

	t.Run("distinct requests yield distinct tokens", func(t *testing.T) {
		token1 := ct.RequestConfirmation("POST", "/groups", "a")
		token2 := ct.RequestConfirmation("POST", "/groups", "a")
		if token1 == token2 {
			t.Errorf("two tokens are identical: %q", token1)
		}
	})
}
