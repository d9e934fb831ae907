// Package structurer turns a classified, paginated document into an ordered
// sequence of paragraph records. It is a single forward pass: heading
// context and the open paragraph are carried in an accumulator owned by the
// pass, so output order always equals document reading order.
package structurer

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/dgallion1/docstruct/internal/layout"
	"github.com/dgallion1/docstruct/internal/record"
)

// paraLabelRe matches the document's own printed paragraph labels at the
// start of a line: "12." and letter-suffixed forms like "12a.".
var paraLabelRe = regexp.MustCompile(`^\s*(\d+[a-z]?)\.(?:\s+|$)`)

// labelNumRe extracts the numeric part of a label for regression warnings.
var labelNumRe = regexp.MustCompile(`^(\d+)`)

// Options configures a single extraction pass.
type Options struct {
	// HeaderPattern strips running-header remnants from accumulated text.
	HeaderPattern *regexp.Regexp
	Logger        *slog.Logger
}

// Stats attributes every text unit in the requested range to exactly one
// class, so no unit is dropped without being accountable.
type Stats struct {
	Pages             int `json:"pages"`
	Records           int `json:"records"`
	HeadingBlocks     int `json:"heading_blocks"`
	BodyBlocks        int `json:"body_blocks"`
	FootnotesExcluded int `json:"footnotes_excluded"`
	TablesExcluded    int `json:"tables_excluded"`
	UnanchoredBody    int `json:"unanchored_body"`
}

// Result is the output of one extraction pass. Warnings carry conditions
// worth surfacing (label regressions) that do not invalidate the output.
type Result struct {
	Records  []record.ParagraphRecord
	Stats    Stats
	Warnings []string
}

// state is the carried-forward accumulator threaded from one page's
// processing to the next.
type state struct {
	title      string
	section    string
	subsection string

	open    *record.ParagraphRecord
	buf     []string
	lastNum int
	hasNum  bool
}

// Extract walks pages start..end (inclusive, printed page numbers) in
// reading order and returns the paragraph records found there. It is
// all-or-nothing: on any error no records are returned.
func Extract(doc layout.Document, start, end int, opts Options) (*Result, error) {
	first, last := doc.Bounds()
	if start > end || start < first || end > last {
		return nil, &layout.OutOfRangeError{Start: start, End: end, First: first, Last: last}
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	res := &Result{}
	st := &state{
		title:      record.NotApplicable,
		section:    record.NotApplicable,
		subsection: record.NotApplicable,
	}

	for page := start; page <= end; page++ {
		blocks, err := doc.Page(page)
		if err != nil {
			return nil, err
		}
		if blocks == nil {
			continue
		}
		res.Stats.Pages++

		for _, b := range blocks {
			switch b.Class {
			case layout.ClassTitle:
				st.flush(res, opts.HeaderPattern)
				st.title = b.Text
				st.section = record.NotApplicable
				st.subsection = record.NotApplicable
				res.Stats.HeadingBlocks++

			case layout.ClassHeading:
				st.flush(res, opts.HeaderPattern)
				if b.Level <= 1 {
					st.section = b.Text
					st.subsection = record.NotApplicable
				} else {
					st.subsection = b.Text
				}
				res.Stats.HeadingBlocks++

			case layout.ClassFootnote:
				// Excluded at the stream level: footnote text never reaches
				// the accumulator and never advances heading state.
				res.Stats.FootnotesExcluded++

			case layout.ClassTable:
				res.Stats.TablesExcluded++

			case layout.ClassBody:
				st.body(b.Text, page, res, opts.HeaderPattern, log)

			default:
				return nil, &layout.ClassificationUnavailableError{
					Page:   page,
					Reason: fmt.Sprintf("unknown block class %q", b.Class),
				}
			}
		}
	}

	st.flush(res, opts.HeaderPattern)
	return res, nil
}

// body handles one body block: a leading paragraph label opens a new
// record, anything else appends to the open one. Body text arriving before
// any label in the range is counted, not silently lost.
func (st *state) body(text string, page int, res *Result, headerRe *regexp.Regexp, log *slog.Logger) {
	m := paraLabelRe.FindStringSubmatch(text)
	if m == nil {
		if st.open == nil {
			res.Stats.UnanchoredBody++
			log.Debug("body text before first paragraph label", "page", page)
			return
		}
		st.buf = append(st.buf, text)
		res.Stats.BodyBlocks++
		return
	}

	st.flush(res, headerRe)

	label := m[1]
	st.checkLabel(label, page, res, log)

	rec := record.ParagraphRecord{
		Title:           st.title,
		Section:         st.section,
		Subsection:      st.subsection,
		ParagraphNumber: label,
		Page:            page,
	}
	st.open = &rec
	if rest := text[len(m[0]):]; rest != "" {
		st.buf = append(st.buf, rest)
	}
	res.Stats.BodyBlocks++
}

// flush closes the open record, normalizing its accumulated text. Records
// whose text normalizes to nothing are dropped (a bare label with no body
// is not locatable content).
func (st *state) flush(res *Result, headerRe *regexp.Regexp) {
	if st.open == nil {
		return
	}
	var joined string
	for i, part := range st.buf {
		if i > 0 {
			joined += "\n"
		}
		joined += part
	}
	text := Normalize(joined, headerRe)
	if text != "" {
		st.open.Text = text
		res.Records = append(res.Records, *st.open)
		res.Stats.Records++
	}
	st.open = nil
	st.buf = nil
}

// checkLabel warns when the numeric part of a paragraph label repeats or
// decreases. The label is still accepted: printed numbering is an opaque
// locator, but a regression usually means misparsed source.
func (st *state) checkLabel(label string, page int, res *Result, log *slog.Logger) {
	nm := labelNumRe.FindStringSubmatch(label)
	if nm == nil {
		return
	}
	n, err := strconv.Atoi(nm[1])
	if err != nil {
		return
	}
	if st.hasNum && n <= st.lastNum {
		w := fmt.Sprintf("paragraph label %q on page %d does not advance (previous %d)", label, page, st.lastNum)
		res.Warnings = append(res.Warnings, w)
		log.Warn("paragraph label regression", "label", label, "page", page, "previous", st.lastNum)
	}
	st.lastNum = n
	st.hasNum = true
}
