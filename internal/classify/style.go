package classify

import (
	"regexp"
	"strings"

	"github.com/dgallion1/docstruct/internal/layout"
)

// Thresholds control the style-based classifier. The defaults match the
// typography of the ECB supervisory guides this tool was written for:
// chapter titles around 20pt, section headings around 14pt, footnotes in
// small type.
type Thresholds struct {
	TitleMinPt    float64 // at or above: chapter title
	HeadingMinPt  float64 // at or above: section/subsection heading
	FootnoteMaxPt float64 // below: footnote text
	MaxTitleLen   int     // titles longer than this are body text
	HeadingDepth  int     // deepest heading level to distinguish
	TablePrefixes []string
}

// DefaultThresholds returns the values used by the reference extraction.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TitleMinPt:    18.0,
		HeadingMinPt:  12.5,
		FootnoteMaxPt: 8.5,
		MaxTitleLen:   200,
		HeadingDepth:  2,
		TablePrefixes: []string{"Table ", "Relevant regulatory references"},
	}
}

// Heading label shapes: "1 Overarching principles", "A Credit risk",
// "1.2 Guidelines at consolidated level", "A.1 Scope".
var (
	subsecNumDotRe   = regexp.MustCompile(`^\s*\d+\.\d+\s+\S`)
	subsecAlphaDotRe = regexp.MustCompile(`^\s*[A-Z]\.\d+\s+\S`)
	secNumRe         = regexp.MustCompile(`^\s*\d+\s+\S`)
	secAlphaRe       = regexp.MustCompile(`^\s*[A-Z]\s+\S`)
)

// StyleClassifier labels lines by font size and label shape. It satisfies
// the layout.Classifier contract for sources that carry style metadata.
type StyleClassifier struct {
	th Thresholds
}

func NewStyleClassifier(th Thresholds) *StyleClassifier {
	if th.TitleMinPt <= 0 || th.HeadingMinPt <= 0 || th.FootnoteMaxPt <= 0 {
		def := DefaultThresholds()
		if th.TitleMinPt <= 0 {
			th.TitleMinPt = def.TitleMinPt
		}
		if th.HeadingMinPt <= 0 {
			th.HeadingMinPt = def.HeadingMinPt
		}
		if th.FootnoteMaxPt <= 0 {
			th.FootnoteMaxPt = def.FootnoteMaxPt
		}
	}
	if th.MaxTitleLen <= 0 {
		th.MaxTitleLen = 200
	}
	if th.HeadingDepth <= 0 {
		th.HeadingDepth = 2
	}
	return &StyleClassifier{th: th}
}

// Classify implements layout.Classifier. A line with no usable font metadata
// cannot be classified; that is surfaced rather than defaulted to body.
func (c *StyleClassifier) Classify(ln layout.Line) (layout.Class, int, error) {
	if ln.FontSize <= 0 {
		return "", 0, &layout.ClassificationUnavailableError{
			Reason: "line carries no font size metadata",
		}
	}

	txt := ln.Text

	if c.isTable(ln) {
		return layout.ClassTable, 0, nil
	}

	if ln.FontSize >= c.th.TitleMinPt &&
		len(txt) < c.th.MaxTitleLen &&
		!strings.EqualFold(strings.TrimSpace(txt), "contents") {
		return layout.ClassTitle, 0, nil
	}

	if ln.FontSize >= c.th.HeadingMinPt {
		if level := headingLevel(txt); level > 0 {
			if level > c.th.HeadingDepth {
				level = c.th.HeadingDepth
			}
			return layout.ClassHeading, level, nil
		}
		// Large type with no recognizable label: running header or stray
		// emphasis. Treat as body and let normalization strip headers.
		return layout.ClassBody, 0, nil
	}

	if ln.FontSize < c.th.FootnoteMaxPt {
		return layout.ClassFootnote, 0, nil
	}

	return layout.ClassBody, 0, nil
}

func (c *StyleClassifier) isTable(ln layout.Line) bool {
	if ln.ColumnGaps >= 2 {
		return true
	}
	for _, pfx := range c.th.TablePrefixes {
		if strings.HasPrefix(ln.Text, pfx) {
			return true
		}
	}
	return false
}

// headingLevel maps a heading label shape to its depth: "1.2" or "A.1" is
// level 2, a bare "1" or "A" is level 1. Single-word lines are never
// headings (guards against list markers and stray capitals).
func headingLevel(txt string) int {
	switch {
	case subsecNumDotRe.MatchString(txt), subsecAlphaDotRe.MatchString(txt):
		return 2
	case secNumRe.MatchString(txt), secAlphaRe.MatchString(txt):
		if len(strings.Fields(txt)) > 2 {
			return 1
		}
	}
	return 0
}
