// Package llmjson pulls structured data out of untrusted model output.
//
// Models wrap JSON in prose, code fences or both, and sometimes emit
// half-finished objects. Extract scans for the first balanced object that
// actually decodes, instead of parsing the whole string strictly.
package llmjson

import (
	"encoding/json"
	"strings"
)

// Kind tags the outcome of an extraction.
type Kind int

const (
	// Unparseable means no decodable JSON object was found.
	Unparseable Kind = iota
	// Parsed means Object holds the first decodable JSON object.
	Parsed
)

func (k Kind) String() string {
	if k == Parsed {
		return "parsed"
	}
	return "unparseable"
}

// Result is the tagged extraction outcome.
type Result struct {
	kind   Kind
	object map[string]any
	raw    string
}

// Kind returns Parsed or Unparseable.
func (r Result) Kind() Kind { return r.kind }

// Object returns the decoded object, nil when Unparseable.
func (r Result) Object() map[string]any { return r.object }

// Raw returns the JSON text the object was decoded from.
func (r Result) Raw() string { return r.raw }

// Scan bounds. Each candidate start rescans the rest of the input, so both the
// input size and the number of candidates are capped.
const (
	MaxInput      = 64 << 10
	maxCandidates = 256
)

// Extract returns the first balanced, decodable JSON object in text.
// Only the first MaxInput bytes are considered.
func Extract(text string) Result {
	if len(text) > MaxInput {
		text = text[:MaxInput]
	}
	tries := 0
	for start := strings.IndexByte(text, '{'); start >= 0 && tries < maxCandidates; tries++ {
		end := matchBrace(text[start:])
		if end > 0 {
			candidate := text[start : start+end]
			var obj map[string]any
			if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
				return Result{kind: Parsed, object: obj, raw: candidate}
			}
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return Result{kind: Unparseable}
}

// matchBrace returns the length of the balanced {...} prefix of s, or 0 when
// the braces never close. Braces inside string literals are ignored.
func matchBrace(s string) int {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return 0
}

// Bool reads a boolean field, accepting JSON booleans and "true"/"false" strings.
func Bool(obj map[string]any, key string) (bool, bool) {
	switch v := obj[key].(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// String reads a non-empty string field.
func String(obj map[string]any, key string) (string, bool) {
	s, ok := obj[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// Object reads a nested object field. A missing or null field yields an empty
// map and ok=true; any other non-object value yields ok=false.
func Object(obj map[string]any, key string) (map[string]any, bool) {
	switch v := obj[key].(type) {
	case nil:
		return map[string]any{}, true
	case map[string]any:
		return v, true
	default:
		return nil, false
	}
}
