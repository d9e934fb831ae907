package record

import (
	"encoding/json"
	"io"
)

// NotApplicable is the literal marker emitted for heading levels that are
// not in effect at a paragraph. Downstream consumers rely on every record
// carrying the full field set, so absent levels are never omitted.
const NotApplicable = "N/A"

// ParagraphRecord is one structured unit of output: a single numbered
// paragraph with its full heading context and source locator. The
// (Page, ParagraphNumber) pair is sufficient to locate the source text.
type ParagraphRecord struct {
	Title           string `json:"title"`
	Section         string `json:"section"`
	Subsection      string `json:"subsection"`
	ParagraphNumber string `json:"paragraph_number"`
	Page            int    `json:"page"`
	Text            string `json:"text"`
}

// New returns a record with all heading fields set to NotApplicable.
func New() ParagraphRecord {
	return ParagraphRecord{
		Title:      NotApplicable,
		Section:    NotApplicable,
		Subsection: NotApplicable,
	}
}

// WriteJSON serializes records as a single indented JSON array in sequence
// order. An empty slice serializes as [], never null, and repeated calls on
// the same input produce byte-identical output.
func WriteJSON(w io.Writer, records []ParagraphRecord) error {
	if records == nil {
		records = []ParagraphRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

// MarshalJSONBytes returns the serialized array as a byte slice.
func MarshalJSONBytes(records []ParagraphRecord) ([]byte, error) {
	if records == nil {
		records = []ParagraphRecord{}
	}
	return json.MarshalIndent(records, "", "  ")
}
