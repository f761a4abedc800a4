package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeLine is for single-line fields such as titles and venues.
func NormalizeLine(s string) string {
	return TrimAndNormalize(s)
}

// NormalizeText is for free-form fields; line breaks inside are kept.
func NormalizeText(s string) string {
	return strings.TrimSpace(s)
}
