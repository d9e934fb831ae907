package structurer

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Normalize reconstructs flowing text from wrapped lines: soft hyphens are
// removed, hyphenated line breaks are joined, remaining line breaks become
// spaces and runs of whitespace collapse to one space. headerRe, when
// non-nil, strips residual running-header text that survived into the body
// stream.
func Normalize(s string, headerRe *regexp.Regexp) string {
	s = strings.ReplaceAll(s, "\u00ad", "") // soft hyphen
	s = strings.ReplaceAll(s, "-\n", "")
	s = strings.ReplaceAll(s, "\n", " ")
	if headerRe != nil {
		s = headerRe.ReplaceAllString(s, " ")
	}
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
