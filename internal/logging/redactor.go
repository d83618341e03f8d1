package logging

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

const (
	redacted = "[REDACTED]"
	// sessionPrefix is how many characters of a journal session ID reach the log.
	sessionPrefix = 8
)

// redactor rewrites values of sensitive keys in key-value pairs. Secrets and
// journal payloads are dropped; journal session IDs are shortened.
type redactor struct {
	hidden    map[string]bool
	shortened map[string]bool
}

func newRedactor() *redactor {
	return &redactor{
		hidden:    wordSet("secret", "password", "token", "auth", "credential", "payload"),
		shortened: wordSet("session"),
	}
}

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// redact walks flattened key-value pairs and returns a rewritten copy.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	result := make([]any, len(pairs))
	copy(result, pairs)
	for i := 0; i+1 < len(result); i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}
		switch {
		case r.matches(r.hidden, key):
			result[i+1] = redacted
		case r.matches(r.shortened, key):
			result[i+1] = shorten(result[i+1])
		}
	}
	return result
}

// matches reports whether any segment of key, split on non-alphanumerics, is in words.
func (r *redactor) matches(words map[string]bool, key string) bool {
	for _, part := range nonAlphanumeric.Split(strings.ToLower(key), -1) {
		if words[part] {
			return true
		}
	}
	return false
}

func shorten(value any) any {
	s, ok := value.(string)
	if !ok {
		stringer, isStringer := value.(fmt.Stringer)
		if !isStringer {
			return value
		}
		s = stringer.String()
	}
	if len(s) <= sessionPrefix {
		return s
	}
	return s[:sessionPrefix] + "…"
}
