package layout

import "fmt"

// OutOfRangeError reports a requested page range outside the document's
// bounds, or a start page after the end page.
type OutOfRangeError struct {
	Start, End  int
	First, Last int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("page range %d-%d out of range (document pages %d-%d)",
		e.Start, e.End, e.First, e.Last)
}

// SourceUnreadableError reports a document that cannot be opened or parsed
// at all.
type SourceUnreadableError struct {
	Name string
	Err  error
}

func (e *SourceUnreadableError) Error() string {
	return fmt.Sprintf("source %s unreadable: %v", e.Name, e.Err)
}

func (e *SourceUnreadableError) Unwrap() error { return e.Err }

// ClassificationUnavailableError reports that the layout capability cannot
// distinguish heading/footnote/table/body for a text unit. Degrading to
// "everything is body text" would corrupt traceability silently, so this
// is fatal.
type ClassificationUnavailableError struct {
	Page   int
	Reason string
}

func (e *ClassificationUnavailableError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("layout classification unavailable on page %d: %s", e.Page, e.Reason)
	}
	return fmt.Sprintf("layout classification unavailable: %s", e.Reason)
}
