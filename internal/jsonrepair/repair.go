// Package jsonrepair rewrites single-quoted or bare-key JSON-like text into
// valid JSON on a best-effort basis. Callers must re-parse the output and
// treat continued failure as a client error; repair is not a guarantee.
package jsonrepair

import (
	"encoding/json"
	"strings"
)

// Repair attempts to turn s into valid JSON. It returns a valid JSON string
// when repair succeeds, and the original input unchanged when s is already
// valid or when no parseable output could be produced.
func Repair(s string) string {
	if json.Valid([]byte(s)) {
		return s
	}

	candidate := stripOuterSingleQuotes(strings.TrimSpace(s))

	if json.Valid([]byte(candidate)) {
		return candidate
	}

	repaired := rewrite(candidate)
	if json.Valid([]byte(repaired)) {
		return repaired
	}

	// Repair gave up; hand the input back untouched.
	return s
}

// stripOuterSingleQuotes removes a single matching pair of single quotes
// wrapping the whole string.
func stripOuterSingleQuotes(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

// rewrite scans s left to right, replacing single-quoted strings with
// double-quoted ones and wrapping bare identifier keys before a colon in
// double quotes. The scanner remembers which delimiter opened the current
// string, so a string opened by a substituted single quote closes on the
// next unescaped single quote, not on a double quote inside it.
func rewrite(s string) string {
	buf := make([]byte, 0, len(s)+16)
	var open byte // delimiter that opened the current string, 0 outside strings

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if open != 0 {
			switch ch {
			case '\\':
				// JSON has no \' escape; unescape it inside a rewritten string.
				if open == '\'' && i+1 < len(s) && s[i+1] == '\'' {
					i++
					buf = append(buf, '\'')
					continue
				}
				// Carry the escaped character through verbatim.
				buf = append(buf, ch)
				if i+1 < len(s) {
					i++
					buf = append(buf, s[i])
				}
			case open:
				buf = append(buf, '"')
				open = 0
			case '"':
				// Bare double quote inside a single-quoted string.
				buf = append(buf, '\\', '"')
			default:
				buf = append(buf, ch)
			}
			continue
		}

		switch ch {
		case '"', '\'':
			open = ch
			buf = append(buf, '"')
		case ':':
			buf = quoteBareKey(buf)
			buf = append(buf, ch)
		default:
			buf = append(buf, ch)
		}
	}

	return string(buf)
}

// quoteBareKey wraps the identifier run at the end of buf in double quotes,
// leaving buf unchanged when the run is empty or already quoted.
func quoteBareKey(buf []byte) []byte {
	end := len(buf)
	start := end
	for start > 0 && isIdentChar(buf[start-1]) {
		start--
	}
	if start == end {
		return buf
	}
	if start > 0 && buf[start-1] == '"' {
		return buf
	}

	quoted := make([]byte, 0, len(buf)+2)
	quoted = append(quoted, buf[:start]...)
	quoted = append(quoted, '"')
	quoted = append(quoted, buf[start:end]...)
	quoted = append(quoted, '"')
	return quoted
}

// isIdentChar reports whether c may appear in a bare JSON-ish key.
func isIdentChar(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == '$'
}
