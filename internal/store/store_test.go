package store

import (
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/docstruct/internal/record"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func sampleManifest(docID string) Manifest {
	return Manifest{
		DocID:       docID,
		Filename:    "guide.pdf",
		ContentHash: "abc123",
		StartPage:   5,
		EndPage:     10,
		Records:     2,
		CreatedAt:   time.Now().UTC(),
	}
}

func sampleRecords() []record.ParagraphRecord {
	return []record.ParagraphRecord{
		{Title: "Foreword", Section: record.NotApplicable, Subsection: record.NotApplicable, ParagraphNumber: "1", Page: 5, Text: "First."},
		{Title: "Foreword", Section: record.NotApplicable, Subsection: record.NotApplicable, ParagraphNumber: "2", Page: 6, Text: "Second."},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := newStore(t)
	if err := s.Save(sampleManifest("doc1"), sampleRecords()); err != nil {
		t.Fatalf("save: %v", err)
	}

	recs, err := s.LoadRecords("doc1")
	if err != nil {
		t.Fatalf("load records: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].ParagraphNumber != "1" || recs[0].Page != 5 {
		t.Errorf("record 0 round trip: %+v", recs[0])
	}

	m, err := s.LoadManifest("doc1")
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if m.DocID != "doc1" || m.StartPage != 5 || m.EndPage != 10 {
		t.Errorf("manifest round trip: %+v", m)
	}
}

func TestStore_NotFound(t *testing.T) {
	s := newStore(t)
	if _, err := s.LoadRecords("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadRecords: expected ErrNotFound, got %v", err)
	}
	if _, err := s.LoadManifest("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadManifest: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestStore_InvalidDocID(t *testing.T) {
	s := newStore(t)
	for _, id := range []string{"", "../escape", "a/b", "a b"} {
		if err := s.Save(sampleManifest(id), nil); err == nil {
			t.Errorf("Save(%q): expected error", id)
		}
		if _, err := s.LoadRecords(id); err == nil || errors.Is(err, ErrNotFound) {
			t.Errorf("LoadRecords(%q): expected validation error, got %v", id, err)
		}
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	s := newStore(t)

	older := sampleManifest("older")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := sampleManifest("newer")
	newer.CreatedAt = time.Now().UTC()

	if err := s.Save(older, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(newer, nil); err != nil {
		t.Fatal(err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 manifests, got %d", len(list))
	}
	if list[0].DocID != "newer" || list[1].DocID != "older" {
		t.Errorf("expected newest first, got %s then %s", list[0].DocID, list[1].DocID)
	}
}

func TestStore_Delete(t *testing.T) {
	s := newStore(t)
	if err := s.Save(sampleManifest("doc1"), sampleRecords()); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("doc1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.LoadRecords("doc1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStore_FindByHash(t *testing.T) {
	s := newStore(t)
	m := sampleManifest("doc1")
	m.ContentHash = "deadbeef"
	if err := s.Save(m, nil); err != nil {
		t.Fatal(err)
	}

	if id, ok := s.FindByHash("deadbeef"); !ok || id != "doc1" {
		t.Errorf("expected (doc1, true), got (%s, %v)", id, ok)
	}
	if _, ok := s.FindByHash("unknown"); ok {
		t.Error("expected no match for unknown hash")
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := newStore(t)
	if err := s.Save(sampleManifest("doc1"), sampleRecords()); err != nil {
		t.Fatal(err)
	}

	m := sampleManifest("doc1")
	m.Records = 1
	if err := s.Save(m, sampleRecords()[:1]); err != nil {
		t.Fatal(err)
	}

	recs, err := s.LoadRecords("doc1")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Errorf("expected 1 record after overwrite, got %d", len(recs))
	}
}
