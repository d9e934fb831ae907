package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/docstruct/internal/record"
	"github.com/dgallion1/docstruct/internal/store"
	"github.com/dgallion1/docstruct/internal/wordfreq"
)

// handleListDocuments lists stored extraction manifests, newest first.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	manifests, err := s.orchestrator.Store().List()
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if manifests == nil {
		manifests = []store.Manifest{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": manifests})
}

func (s *Server) handleDocumentRecords(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	records, err := s.orchestrator.Store().LoadRecords(docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to load records: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := record.WriteJSON(w, records); err != nil {
		s.log.Error("write records", "doc_id", docID, "error", err)
	}
}

// handleDocumentTerms returns the top terms across a document's paragraph
// text, for downstream frequency analysis.
func (s *Server) handleDocumentTerms(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	records, err := s.orchestrator.Store().LoadRecords(docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to load records: "+err.Error(), http.StatusInternalServerError)
		return
	}

	top := 50
	if v := r.URL.Query().Get("top"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			top = n
		}
	}

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Text
	}
	freqs := wordfreq.Count(texts, wordfreq.Config{
		ExtraStopwords: s.profile.ExtraStopwords,
		MinTokenLen:    2,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"doc_id": docID,
		"terms":  wordfreq.Top(freqs, top),
	})
}

// handleDeleteDocument deletes a document's stored artifacts.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.orchestrator.Store().Delete(docID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			jsonError(w, "document not found", http.StatusNotFound)
			return
		}
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": docID})
}
