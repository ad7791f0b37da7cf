package testcases

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/insightqa/insightqa/internal/domain/ragModel"
)

var (
	fenceRe         = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")
	trailingComma   = regexp.MustCompile(`,\s*]`)
	trailingCommaOb = regexp.MustCompile(`,\s*}`)
)

// ExtractTestCases locates and parses a JSON array inside raw model output.
// Tolerated malformations: surrounding code fences, prose before the first
// '[' and after the last ']', trailing commas, and Python-style literals
// (None/True/False, single-quoted strings) as a last-resort fallback.
func ExtractTestCases(raw string) ([]ragModel.TestCase, error) {
	s := strings.TrimSpace(raw)

	if m := fenceRe.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return nil, errors.New("no JSON array found")
	}
	candidate := s[start : end+1]

	candidate = trailingComma.ReplaceAllString(candidate, "]")
	candidate = trailingCommaOb.ReplaceAllString(candidate, "}")

	var out []ragModel.TestCase
	if err := json.Unmarshal([]byte(candidate), &out); err == nil {
		return out, nil
	}

	loose := literalToJSON(candidate)
	if err := json.Unmarshal([]byte(loose), &out); err != nil {
		return nil, fmt.Errorf("json remained invalid: %w", err)
	}
	return out, nil
}

// literalToJSON rewrites Python-literal text into JSON: single-quoted strings
// become double-quoted and bare None/True/False tokens become their JSON
// spellings. Content inside strings is left alone.
func literalToJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	const (
		outside = iota
		inDouble
		inSingle
	)
	state := outside
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		switch state {
		case inDouble:
			b.WriteByte(ch)
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				state = outside
			}
		case inSingle:
			if escaped {
				escaped = false
				b.WriteByte(ch)
			} else if ch == '\\' {
				escaped = true
				b.WriteByte(ch)
			} else if ch == '\'' {
				b.WriteByte('"')
				state = outside
			} else if ch == '"' {
				b.WriteString(`\"`)
			} else {
				b.WriteByte(ch)
			}
		default:
			switch {
			case ch == '"':
				b.WriteByte(ch)
				state = inDouble
			case ch == '\'':
				b.WriteByte('"')
				state = inSingle
			case hasToken(s, i, "None"):
				b.WriteString("null")
				i += len("None") - 1
			case hasToken(s, i, "True"):
				b.WriteString("true")
				i += len("True") - 1
			case hasToken(s, i, "False"):
				b.WriteString("false")
				i += len("False") - 1
			default:
				b.WriteByte(ch)
			}
		}
	}
	return b.String()
}

func hasToken(s string, i int, token string) bool {
	if !strings.HasPrefix(s[i:], token) {
		return false
	}
	if i > 0 && isWordByte(s[i-1]) {
		return false
	}
	after := i + len(token)
	return after >= len(s) || !isWordByte(s[after])
}

func isWordByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
