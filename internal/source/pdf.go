package source

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/docstruct/internal/layout"
	pdflib "github.com/ledongthuc/pdf"
)

const (
	// Runs whose baselines differ by less than this belong to one visual line.
	lineYTolerance = 2.0
	// A horizontal jump this wide between runs on a line is a column gap;
	// two or more gaps mark tabular layout.
	columnGapPt = 18.0
)

// OpenPDF reads a PDF into a paginated layout document, classifying every
// visual line through the configured classifier. Pages are addressed by
// printed page number when a header pattern is supplied, by physical index
// otherwise.
func OpenPDF(r io.Reader, filename string, opts Options) (layout.Document, error) {
	if opts.Classifier == nil {
		return nil, &layout.ClassificationUnavailableError{
			Reason: "no layout classifier configured for PDF input",
		}
	}

	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docstruct-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	return readPDF(tmpPath, filename, opts)
}

func readPDF(path, name string, opts Options) (doc layout.Document, err error) {
	// The pdf library panics on some malformed files; surface that as an
	// unreadable source instead of crashing the extraction.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &layout.SourceUnreadableError{Name: name, Err: fmt.Errorf("pdf parser panic: %v", r)}
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, &layout.SourceUnreadableError{Name: name, Err: err}
	}
	defer f.Close()

	pd := &pagedDocument{name: name, pages: make(map[int][]layout.Block)}

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		lines := collectLines(page.Content().Text)
		if len(lines) == 0 {
			continue
		}

		printed := i
		if opts.HeaderPattern != nil {
			if n, ok := printedPageNumber(lines, opts.HeaderPattern); ok {
				printed = n
			}
		}
		if _, dup := pd.pages[printed]; dup {
			continue
		}

		blocks, cerr := classifyLines(lines, printed, opts.Classifier)
		if cerr != nil {
			return nil, cerr
		}
		pd.pages[printed] = blocks

		if pd.first == 0 || printed < pd.first {
			pd.first = printed
		}
		if printed > pd.last {
			pd.last = printed
		}
	}

	if len(pd.pages) == 0 {
		return nil, &layout.SourceUnreadableError{Name: name, Err: errors.New("no extractable text content")}
	}
	return pd, nil
}

// collectLines groups a page's text runs into visual lines in reading
// order: top to bottom, left to right. PDF Y coordinates grow upward, so
// larger Y sorts first.
func collectLines(runs []pdflib.Text) []layout.Line {
	if len(runs) == 0 {
		return nil
	}
	sorted := make([]pdflib.Text, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y-sorted[j].Y) > lineYTolerance {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var lines []layout.Line
	var sb strings.Builder
	var cur layout.Line
	var lastEnd float64
	started := false

	flush := func() {
		if !started {
			return
		}
		cur.Text = strings.TrimSpace(sb.String())
		if cur.Text != "" {
			lines = append(lines, cur)
		}
		sb.Reset()
	}

	for _, run := range sorted {
		if !started || math.Abs(run.Y-cur.Y) > lineYTolerance {
			flush()
			cur = layout.Line{Y: run.Y, FontSize: run.FontSize}
			lastEnd = run.X
			started = true
		}
		gap := run.X - lastEnd
		if gap > columnGapPt {
			cur.ColumnGaps++
			sb.WriteString(" ")
		} else if gap > run.FontSize*0.25 {
			sb.WriteString(" ")
		}
		sb.WriteString(run.S)
		if run.FontSize > cur.FontSize {
			cur.FontSize = run.FontSize
		}
		lastEnd = run.X + run.W
	}
	flush()
	return lines
}

// printedPageNumber scans a page's lines for the running-header pattern and
// returns the captured page number from the first match.
func printedPageNumber(lines []layout.Line, headerRe *regexp.Regexp) (int, bool) {
	for _, ln := range lines {
		m := headerRe.FindStringSubmatch(ln.Text)
		if len(m) > 1 {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

func classifyLines(lines []layout.Line, page int, cls layout.Classifier) ([]layout.Block, error) {
	blocks := make([]layout.Block, 0, len(lines))
	for _, ln := range lines {
		class, level, err := cls.Classify(ln)
		if err != nil {
			var cerr *layout.ClassificationUnavailableError
			if errors.As(err, &cerr) && cerr.Page == 0 {
				cerr.Page = page
			}
			return nil, err
		}
		blocks = append(blocks, layout.Block{Text: ln.Text, Class: class, Level: level})
	}
	return blocks, nil
}
