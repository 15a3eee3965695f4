package safety

import (
	"testing"
)

func Test_Filter_IsAllowed_Cases(t *testing.T) {
	tests := []struct {
		name      string
		allowlist []string
		denylist  []string
		endpoint  string
		want      bool
	}{
		{
			name:      "empty lists allow everything",
			allowlist: []string{},
			denylist:  []string{},
			endpoint:  "/users",
			want:      true,
		},
		{
			name:      "nil lists allow everything",
			allowlist: nil,
			denylist:  nil,
			endpoint:  "/anything/at/all",
			want:      true,
		},
		{
			name:      "exact allowlist match is allowed",
			allowlist: []string{"/users", "/groups"},
			denylist:  []string{},
			endpoint:  "/users",
			want:      true,
		},
		{
			name:      "not in allowlist is denied",
			allowlist: []string{"/users", "/groups"},
			denylist:  []string{},
			endpoint:  "/sites/root",
			want:      false,
		},
		{
			name:      "prefix pattern matches sub-resources",
			allowlist: []string{"/users*"},
			denylist:  []string{},
			endpoint:  "/users/ada/memberOf",
			want:      true,
		},
		{
			name:      "exact pattern does not match sub-resources",
			allowlist: []string{"/users"},
			denylist:  []string{},
			endpoint:  "/users/ada",
			want:      false,
		},
		{
			name:      "in denylist is denied",
			allowlist: []string{},
			denylist:  []string{"/security*"},
			endpoint:  "/security/alerts",
			want:      false,
		},
		{
			name:      "denylist wins over allowlist",
			allowlist: []string{"/users*"},
			denylist:  []string{"/users/admin*"},
			endpoint:  "/users/admin@example.test",
			want:      false,
		},
		{
			name:      "denied endpoint not in denylist passes through",
			allowlist: []string{},
			denylist:  []string{"/security*"},
			endpoint:  "/groups",
			want:      true,
		},
		{
			name:      "bare star allows everything",
			allowlist: []string{"*"},
			denylist:  []string{},
			endpoint:  "/whatever",
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFilter(tt.allowlist, tt.denylist)
			got := f.IsAllowed(tt.endpoint)
			if got != tt.want {
				t.Errorf("IsAllowed(%q) = %v, want %v", tt.endpoint, got, tt.want)
			}
		})
	}
}
