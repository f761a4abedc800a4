package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reSlugStrip    = regexp.MustCompile(`[^\w\s-]`)
	reSlugCollapse = regexp.MustCompile(`[\s_-]+`)

	slugPipeline = Pipeline{
		unifySpaces,
		lower,
		strings.TrimSpace,
		func(s string) string { return reSlugStrip.ReplaceAllString(s, "") },
		func(s string) string { return reSlugCollapse.ReplaceAllString(s, "-") },
		func(s string) string { return strings.Trim(s, "-") },
	}

	emailPipeline = Pipeline{
		strings.TrimSpace,
		lower,
	}
)

func lower(s string) string {
	return strings.ToLower(s)
}

// unifySpaces maps every Unicode space to ' '. RE2's \s only covers ASCII
// whitespace and excludes \v.
func unifySpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}

// Slugify derives the URL key of a title. Characters outside [A-Za-z0-9_],
// Unicode whitespace and '-' are dropped; separators collapse to a single hyphen.
// The result may be empty.
func Slugify(title string) string {
	return slugPipeline.Apply(title)
}

func NormalizeEmail(email string) string {
	return emailPipeline.Apply(email)
}

func NormalizeMode(mode string) string {
	return emailPipeline.Apply(mode)
}
