package safety

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func Test_AuditLogger_Log_Cases(t *testing.T) {
	tests := []struct {
		name     string
		entry    AuditEntry
		validate func(t *testing.T, output string)
	}{
		{
			name: "valid entry is written as one JSON line",
			entry: AuditEntry{
				Timestamp: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
				RequestID: "req-1",
				User:      "ada@example.test",
				Source:    "api",
				Endpoint:  "/users",
				Method:    "GET",
				Result:    "ok",
				Duration:  150 * time.Millisecond,
			},
			validate: func(t *testing.T, output string) {
				t.Helper()
				if !strings.HasSuffix(output, "\n") {
					t.Error("output does not end with newline")
				}
				var decoded AuditEntry
				if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &decoded); err != nil {
					t.Fatalf("output is not valid JSON: %v", err)
				}
				if decoded.Endpoint != "/users" {
					t.Errorf("Endpoint = %q, want /users", decoded.Endpoint)
				}
				if decoded.User != "ada@example.test" {
					t.Errorf("User = %q, want ada@example.test", decoded.User)
				}
				if decoded.Result != "ok" {
					t.Errorf("Result = %q, want ok", decoded.Result)
				}
			},
		},
		{
			name: "entry without optional fields",
			entry: AuditEntry{
				Timestamp: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
				Source:    "tool",
				Endpoint:  "/groups",
				Method:    "POST",
				Result:    "error: denied",
			},
			validate: func(t *testing.T, output string) {
				t.Helper()
				if strings.Contains(output, "request_id") {
					t.Error("empty request_id should be omitted")
				}
				if strings.Contains(output, `"user"`) {
					t.Error("empty user should be omitted")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewAuditLogger(&buf)
			if logger == nil {
				t.Fatal("NewAuditLogger() returned nil")
			}

			if err := logger.Log(tt.entry); err != nil {
				t.Fatalf("Log: %v", err)
			}

			tt.validate(t, buf.String())
		})
	}
}

func Test_AuditLogger_NilSafety(t *testing.T) {
	t.Run("nil writer yields nil logger", func(t *testing.T) {
		if logger := NewAuditLogger(nil); logger != nil {
			t.Error("NewAuditLogger(nil) should return nil")
		}
	})

	t.Run("Log on nil logger returns ErrNilWriter", func(t *testing.T) {
		var logger *AuditLogger
		if err := logger.Log(AuditEntry{}); err != ErrNilWriter {
			t.Errorf("err = %v, want ErrNilWriter", err)
		}
	})
}

func Test_AuditLogger_MultipleEntriesAreSeparateLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewAuditLogger(&buf)

	for i := 0; i < 3; i++ {
		entry := AuditEntry{
			Timestamp: time.Now(),
			Source:    "api",
			Endpoint:  "/users",
			Method:    "GET",
			Result:    "ok",
		}
		if err := logger.Log(entry); err != nil {
			t.Fatalf("Log #%d: %v", i, err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, line := range lines {
		var decoded AuditEntry
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}
