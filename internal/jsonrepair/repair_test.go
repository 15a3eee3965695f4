package jsonrepair

import (
	"encoding/json"
	"reflect"
	"testing"
)

func Test_Repair_Cases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single-quoted object with nested array",
			in:   `{'messages': [{'role': 'user', 'content': 'hi'}]}`,
			want: `{"messages": [{"role": "user", "content": "hi"}]}`,
		},
		{
			name: "already-valid JSON returned unchanged",
			in:   `{"messages":[{"role":"user","content":"hi"}]}`,
			want: `{"messages":[{"role":"user","content":"hi"}]}`,
		},
		{
			name: "outer single quotes stripped",
			in:   `'{"endpoint": "/users"}'`,
			want: `{"endpoint": "/users"}`,
		},
		{
			name: "outer single quotes stripped then inner quotes repaired",
			in:   `'{'endpoint': '/users'}'`,
			want: `{"endpoint": "/users"}`,
		},
		{
			name: "bare identifier keys quoted",
			in:   `{endpoint: "/users", allData: true}`,
			want: `{"endpoint": "/users", "allData": true}`,
		},
		{
			name: "bare key with underscore and dollar",
			in:   `{$select: "id", display_name: "x"}`,
			want: `{"$select": "id", "display_name": "x"}`,
		},
		{
			name: "mixed quoted and bare keys",
			in:   `{"method": "GET", version: 'beta'}`,
			want: `{"method": "GET", "version": "beta"}`,
		},
		{
			name: "colon inside double-quoted value untouched",
			in:   `{url: "https://graph.microsoft.com/beta"}`,
			want: `{"url": "https://graph.microsoft.com/beta"}`,
		},
		{
			name: "single-quoted string closes on single quote",
			in:   `{'a': 'x', 'b': 'y'}`,
			want: `{"a": "x", "b": "y"}`,
		},
		{
			name: "escaped single quote unescaped inside rewritten string",
			in:   `{'note': 'it\'s fine'}`,
			want: `{"note": "it's fine"}`,
		},
		{
			name: "double quote escaped inside single-quoted string",
			in:   `{'say': 'he said "hi"'}`,
			want: `{"say": "he said \"hi\""}`,
		},
		{
			name: "irreparable unbalanced braces returned unchanged",
			in:   `{'messages': [`,
			want: `{'messages': [`,
		},
		{
			name: "plain prose returned unchanged",
			in:   `not json at all`,
			want: `not json at all`,
		},
		{
			name: "empty string returned unchanged",
			in:   ``,
			want: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Repair(tt.in)
			if got != tt.want {
				t.Errorf("Repair(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func Test_Repair_GoldenCaseSemantics(t *testing.T) {
	got := Repair(`{'messages': [{'role': 'user', 'content': 'hi'}]}`)

	var decoded any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("repaired output is not valid JSON: %v", err)
	}

	want := map[string]any{
		"messages": []any{
			map[string]any{"role": "user", "content": "hi"},
		},
	}
	if !reflect.DeepEqual(decoded, want) {
		t.Errorf("decoded = %v, want %v", decoded, want)
	}
}

func Test_Repair_Idempotent(t *testing.T) {
	inputs := []string{
		`{"a":1}`,
		`{'a': 1}`,
		`{b: 'two'}`,
	}

	for _, in := range inputs {
		once := Repair(in)
		twice := Repair(once)
		if once != twice {
			t.Errorf("Repair not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
