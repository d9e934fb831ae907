// Package store persists extraction artifacts on the local filesystem: one
// directory per document holding the serialized record array and a manifest
// describing its provenance.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/dgallion1/docstruct/internal/record"
	"github.com/dgallion1/docstruct/internal/structurer"
)

const (
	recordsFile  = "records.json"
	manifestFile = "manifest.json"
)

var docIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ErrNotFound is returned when a document has no stored artifacts.
var ErrNotFound = errors.New("document not found")

// Manifest describes one stored extraction.
type Manifest struct {
	DocID       string           `json:"doc_id"`
	Filename    string           `json:"filename"`
	ContentHash string           `json:"content_hash"`
	StartPage   int              `json:"start_page"`
	EndPage     int              `json:"end_page"`
	Records     int              `json:"records"`
	Stats       structurer.Stats `json:"stats"`
	Warnings    []string         `json:"warnings"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Store is a write-once artifact store rooted at a data directory.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes the record array and manifest for a document. Both files are
// written atomically so a reader never sees a truncated artifact.
func (s *Store) Save(m Manifest, records []record.ParagraphRecord) error {
	dir, err := s.docDir(m.DocID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create doc dir: %w", err)
	}

	data, err := record.MarshalJSONBytes(records)
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}
	if err := writeAtomic(filepath.Join(dir, recordsFile), data); err != nil {
		return err
	}

	meta, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return writeAtomic(filepath.Join(dir, manifestFile), meta)
}

// LoadRecords returns the stored record array for a document.
func (s *Store) LoadRecords(docID string) ([]record.ParagraphRecord, error) {
	dir, err := s.docDir(docID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, recordsFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var records []record.ParagraphRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return records, nil
}

// LoadManifest returns the manifest for a document.
func (s *Store) LoadManifest(docID string) (*Manifest, error) {
	dir, err := s.docDir(docID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	return &m, nil
}

// List returns the manifests of all stored documents, newest first.
func (s *Store) List() ([]Manifest, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []Manifest
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m, err := s.LoadManifest(e.Name())
		if err != nil {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a document's artifacts.
func (s *Store) Delete(docID string) error {
	dir, err := s.docDir(docID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return ErrNotFound
	}
	return os.RemoveAll(dir)
}

// FindByHash returns the doc ID of a stored document with the given content
// hash, for duplicate detection.
func (s *Store) FindByHash(hash string) (string, bool) {
	manifests, err := s.List()
	if err != nil {
		return "", false
	}
	for _, m := range manifests {
		if m.ContentHash == hash {
			return m.DocID, true
		}
	}
	return "", false
}

func (s *Store) docDir(docID string) (string, error) {
	if !docIDRe.MatchString(docID) {
		return "", fmt.Errorf("invalid doc id %q", docID)
	}
	return filepath.Join(s.dir, docID), nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
