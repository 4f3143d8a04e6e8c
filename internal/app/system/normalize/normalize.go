// Package normalize canonicalizes user-supplied strings before they are
// stored or compared.
package normalize

import (
	"strings"
	"unicode/utf8"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name or group name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Code trims and uppercases a group join code.
func Code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Tag trims and lowercases a single tag.
func Tag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tags normalizes each tag, drops empties and removes duplicates while
// keeping first-seen order. A nil or empty input yields an empty, non-nil
// slice so stored documents always carry an array.
func Tags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = Tag(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Length counts runes, which is how minimum and maximum lengths are
// enforced for names and comments.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
