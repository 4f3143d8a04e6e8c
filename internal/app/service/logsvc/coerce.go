package logsvc

import (
	"strings"
	"time"

	"github.com/dalemusser/squadlog/internal/app/system/apperr"
	"github.com/dalemusser/squadlog/internal/app/system/normalize"
)

const dateOnly = "2006-01-02"

// CoerceBool reads a loosely typed JSON flag: true, "true" and 1 are
// true, anything else is false.
func CoerceBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return strings.EqualFold(strings.TrimSpace(x), "true")
	case float64:
		return x == 1
	case int:
		return x == 1
	}
	return false
}

// CoerceTags reads a JSON tag list. Non-array values yield no tags and
// non-string elements are dropped before normalizing.
func CoerceTags(v any) []string {
	var raw []string
	switch x := v.(type) {
	case []any:
		for _, el := range x {
			if s, ok := el.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = x
	}
	return normalize.Tags(raw)
}

// ParseTime accepts RFC 3339 (with or without fractional seconds) or a
// bare date, which means midnight UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func parseTimestamp(s string, field string) (time.Time, error) {
	t, ok := ParseTime(s)
	if !ok {
		return time.Time{}, apperr.InvalidInput(field + " must be an RFC 3339 timestamp or YYYY-MM-DD date")
	}
	return t, nil
}
