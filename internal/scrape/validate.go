package scrape

import (
	"strings"
	"unicode/utf8"
)

// IsValidName reports whether text looks like real header content rather
// than a placeholder, a button label or a timestamp.
func IsValidName(text string, r NameRules) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	n := utf8.RuneCountInString(lower)
	if n < r.MinLen || n > r.MaxLen {
		return false
	}
	for _, p := range r.Placeholders {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.Contains(lower, p) {
			return false
		}
	}
	if strings.Contains(lower, ":") && n < r.TimestampLen {
		return false
	}
	return true
}
