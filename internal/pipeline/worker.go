package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docstruct/internal/source"
	"github.com/dgallion1/docstruct/internal/store"
	"github.com/dgallion1/docstruct/internal/structurer"
)

// Worker processes a single extraction job. One job is one strictly
// sequential forward pass over the document; concurrency exists only
// across jobs.
type Worker struct {
	store   *store.Store
	log     *slog.Logger
	srcOpts source.Options
}

func NewWorker(st *store.Store, log *slog.Logger, srcOpts source.Options) *Worker {
	return &Worker{
		store:   st,
		log:     log,
		srcOpts: srcOpts,
	}
}

// Process runs the full extraction pipeline for a job. Extraction is
// all-or-nothing: any failure leaves no partial artifacts.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "cancelled")
		return
	}

	data := job.FileData()
	hash := ContentHashHex(data)
	job.SetContentHash(hash)

	// Dedup: an identical file already extracted over the same page range
	// needs no second pass.
	if !job.Force() {
		if docID, ok := w.findDuplicate(hash, job.StartPage, job.EndPage); ok {
			log.Info("duplicate document, skipping", "existing_doc_id", docID)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "opening document")
	doc, err := source.Open(bytes.NewReader(data), job.Filename, w.srcOpts)
	if err != nil {
		log.Error("open failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Structure
	job.SetStatus(StatusStructuring, "extracting paragraphs")
	res, err := structurer.Extract(doc, job.StartPage, job.EndPage, structurer.Options{
		HeaderPattern: w.srcOpts.HeaderPattern,
		Logger:        log,
	})
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "structuring")
		return
	}

	job.SetResult(res.Stats.Pages, res.Stats.Records,
		res.Stats.FootnotesExcluded, res.Stats.TablesExcluded, res.Warnings)
	log.Info("extraction complete",
		"pages", res.Stats.Pages,
		"records", res.Stats.Records,
		"footnotes_excluded", res.Stats.FootnotesExcluded,
		"tables_excluded", res.Stats.TablesExcluded,
		"warnings", len(res.Warnings),
	)

	// Phase 3: Store
	job.SetStatus(StatusStoring, "writing artifacts")
	manifest := store.Manifest{
		DocID:       job.DocID,
		Filename:    job.Filename,
		ContentHash: hash,
		StartPage:   job.StartPage,
		EndPage:     job.EndPage,
		Records:     len(res.Records),
		Stats:       res.Stats,
		Warnings:    res.Warnings,
		CreatedAt:   time.Now().UTC(),
	}
	if err := w.store.Save(manifest, res.Records); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}

	job.SetStatus(StatusCompleted, "done")
}

// findDuplicate reports a stored document with the same content hash and
// page range.
func (w *Worker) findDuplicate(hash string, start, end int) (string, bool) {
	manifests, err := w.store.List()
	if err != nil {
		return "", false
	}
	for _, m := range manifests {
		if m.ContentHash == hash && m.StartPage == start && m.EndPage == end {
			return m.DocID, true
		}
	}
	return "", false
}
