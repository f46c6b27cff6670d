package slug

import (
	"fmt"
	"strings"
	"unicode"
)

// Make lowercases the name and collapses every run of non-alphanumeric
// characters into a single hyphen: "Marketing  Team!" -> "marketing-team".
func Make(name string) string {
	var b strings.Builder
	lastHyphen := true // trim leading hyphens
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	s := strings.TrimRight(b.String(), "-")
	if s == "" {
		s = "workspace"
	}
	return s
}

// WithSuffix returns the base slug unchanged for attempt 0 and a numbered
// variant ("marketing-2", "marketing-3", ...) for collision retries.
func WithSuffix(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt+1)
}
