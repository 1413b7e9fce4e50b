package glossary

import (
	"strings"
	"unicode"
)

// Anchor derives the stable anchor name for a term reference on a page.
// The scheme is shared by the multi-page and the single-page output modes,
// so markers emitted for one resolve in the other: both concatenate the
// slugs of the page id and the term value under a fixed prefix.
func Anchor(pageID, termValue string) string {
	if pageID == "" {
		return "def-" + slug(termValue)
	}
	return "def-" + slug(pageID) + "-" + slug(termValue)
}

// slug lowers a value and reduces it to letters, digits and single
// hyphens. Anchor names survive HTML attributes and URLs unescaped.
func slug(value string) string {
	var sb strings.Builder
	pending := false
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			pending = false
			sb.WriteRune(r)
			continue
		}
		pending = true
	}
	return sb.String()
}
