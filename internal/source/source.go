// Package source opens documents as paginated streams of classified layout
// blocks. Each format adapter is responsible for pagination and for running
// its text units through the layout classification contract before the
// structurer ever sees them.
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dgallion1/docstruct/internal/layout"
)

// Options carries the capabilities a source may need: the layout classifier
// for style-based formats, and a running-header pattern whose first capture
// group is the printed page number.
type Options struct {
	Classifier    layout.Classifier
	HeaderPattern *regexp.Regexp
}

// SupportedExtensions lists file extensions this service can structure.
// Plain text and CSV are deliberately absent: they carry no layout metadata,
// so the classification contract cannot be satisfied for them.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// Open returns the appropriate layout document for a filename.
func Open(r io.Reader, filename string, opts Options) (layout.Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return OpenPDF(r, filename, opts)
	case ".md", ".markdown":
		return OpenMarkdown(r, filename)
	case ".html", ".htm":
		return OpenHTML(r, filename)
	case ".txt", ".csv":
		return nil, &layout.ClassificationUnavailableError{
			Reason: fmt.Sprintf("%s input carries no layout metadata to distinguish headings, footnotes and tables", ext),
		}
	default:
		return nil, &layout.SourceUnreadableError{
			Name: filename,
			Err:  fmt.Errorf("unsupported file extension: %s", ext),
		}
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// pagedDocument is the shared layout.Document implementation: all adapters
// materialize their pages eagerly at open time, so page access never does
// I/O and repeated extraction over the same document is deterministic.
type pagedDocument struct {
	name        string
	first, last int
	pages       map[int][]layout.Block
}

func (d *pagedDocument) Bounds() (int, int) { return d.first, d.last }

// Page returns nil for printed page numbers inside the bounds that the
// document skips; the structurer treats those as empty.
func (d *pagedDocument) Page(n int) ([]layout.Block, error) {
	return d.pages[n], nil
}
