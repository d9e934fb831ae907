package layout

// Class labels a text unit by its role on the page.
type Class string

const (
	ClassTitle    Class = "title"
	ClassHeading  Class = "heading"
	ClassBody     Class = "body"
	ClassFootnote Class = "footnote"
	ClassTable    Class = "table"
)

// Block is one classified text unit in reading order. Level is the 1-based
// heading depth for ClassHeading blocks (1 = section, 2 = subsection) and
// zero otherwise.
type Block struct {
	Text  string
	Class Class
	Level int
}

// Document is a paginated source whose pages yield classified blocks in
// reading order. Pages are addressed by printed page number; Page returns
// nil blocks for a printed number inside Bounds that the document skips
// (e.g. unnumbered insert pages).
type Document interface {
	// Bounds returns the first and last printed page numbers, inclusive.
	Bounds() (first, last int)
	// Page returns the classified blocks of printed page n in reading order.
	Page(n int) ([]Block, error)
}

// Line is a raw visual line with the layout metadata a classifier needs:
// the dominant font size, the baseline distance from the page bottom, and
// the number of wide horizontal gaps between runs on the line.
type Line struct {
	Text       string
	FontSize   float64
	Y          float64
	ColumnGaps int
}

// Classifier labels a line as title, heading (with depth), body, footnote
// or table. Implementations must fail with ClassificationUnavailableError
// when they cannot decide, never silently default to body.
type Classifier interface {
	Classify(ln Line) (Class, int, error)
}
