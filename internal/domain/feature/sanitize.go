package feature

import (
	"strings"
	"unicode"
)

// Sanitize converts free-form text into a branch-safe fragment: lowercase
// ASCII alphanumerics separated by single hyphens, with no leading or
// trailing hyphen, truncated to maxLength. Whitespace runs become one hyphen
// and every other disallowed character is dropped. The result may be empty
// when the input contains nothing retainable; callers treat that as a
// validation failure.
func Sanitize(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = MaxFragmentLength
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r) || r == '-':
			pendingHyphen = true
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		}
	}

	fragment := b.String()
	if len(fragment) > maxLength {
		fragment = strings.TrimRight(fragment[:maxLength], "-")
	}
	return fragment
}
