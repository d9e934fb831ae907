package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/pipeline"
	"github.com/dgallion1/docstruct/internal/record"
	"github.com/dgallion1/docstruct/internal/source"
	"github.com/dgallion1/docstruct/internal/store"
)

const testAPIKey = "test-key"

const testMarkdown = `# Foreword

1. This guide sets out the supervisory expectations.

---

# Overarching principles for internal models

## Documentation of internal models

2. Institutions should maintain a full inventory.
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Config{
		APIKey:         testAPIKey,
		WorkerCount:    1,
		MaxQueueSize:   10,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
		DataDir:        t.TempDir(),
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := pipeline.NewOrchestrator(cfg, st, source.Options{}, log)
	ctx, cancel := context.WithCancel(context.Background())
	orch.Start(ctx)
	t.Cleanup(func() {
		cancel()
		orch.Stop()
	})

	srv := NewServer(orch, log, cfg, config.DefaultProfile())
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func uploadRequest(t *testing.T, url, filename, start, end string, body []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(body)
	mw.WriteField("start", start)
	mw.WriteField("end", end)
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, url+"/api/extract", &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	return req
}

func authedGet(t *testing.T, url string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func waitForCompletion(t *testing.T, ts *httptest.Server, jobID string) pipeline.JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp := authedGet(t, ts.URL+"/api/extract/"+jobID+"/status")
		var snap pipeline.JobSnapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		resp.Body.Close()
		switch snap.Status {
		case pipeline.StatusCompleted, pipeline.StatusFailed, pipeline.StatusDupSkipped:
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return pipeline.JobSnapshot{}
}

func TestExtractEndToEnd(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL, "guide.md", "1", "2", []byte(testMarkdown)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 202, got %d: %s", resp.StatusCode, body)
	}

	var accepted struct {
		JobID  string `json:"job_id"`
		DocID  string `json:"doc_id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		t.Fatalf("decode accept: %v", err)
	}
	if accepted.JobID == "" || accepted.DocID == "" {
		t.Fatalf("missing identifiers: %+v", accepted)
	}

	snap := waitForCompletion(t, ts, accepted.JobID)
	if snap.Status != pipeline.StatusCompleted {
		t.Fatalf("expected completed, got %s (errors %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.Records != 2 {
		t.Errorf("expected 2 records, got %d", snap.Progress.Records)
	}

	recResp := authedGet(t, ts.URL+"/api/extract/"+accepted.JobID+"/records")
	defer recResp.Body.Close()
	if recResp.StatusCode != http.StatusOK {
		t.Fatalf("records: expected 200, got %d", recResp.StatusCode)
	}
	var records []record.ParagraphRecord
	if err := json.NewDecoder(recResp.Body).Decode(&records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "Foreword" || records[0].Page != 1 {
		t.Errorf("record 0: %+v", records[0])
	}
	if records[1].Section != "Documentation of internal models" {
		t.Errorf("record 1 section: %q", records[1].Section)
	}
}

func TestExtract_DuplicateSkipped(t *testing.T) {
	ts := newTestServer(t)

	submit := func() string {
		resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL, "guide.md", "1", "2", []byte(testMarkdown)))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var accepted struct {
			JobID string `json:"job_id"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
			t.Fatal(err)
		}
		return accepted.JobID
	}

	first := waitForCompletion(t, ts, submit())
	if first.Status != pipeline.StatusCompleted {
		t.Fatalf("first job: expected completed, got %s", first.Status)
	}
	second := waitForCompletion(t, ts, submit())
	if second.Status != pipeline.StatusDupSkipped {
		t.Errorf("second job: expected duplicate_skipped, got %s", second.Status)
	}
}

func TestExtract_RequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	req := uploadRequest(t, ts.URL, "guide.md", "1", "2", []byte(testMarkdown))
	req.Header.Del("Authorization")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestExtract_InvalidPageRange(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL, "guide.md", "10", "5", []byte(testMarkdown)))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestExtract_UnsupportedFileType(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL, "notes.txt", "1", "2", []byte("plain text")))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestExtract_RecordsBeforeCompletion(t *testing.T) {
	ts := newTestServer(t)

	resp := authedGet(t, ts.URL+"/api/extract/nonexistent/records")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown job, got %d", resp.StatusCode)
	}
}

func TestHealthIsPublic(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestDocumentEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL, "guide.md", "1", "2", []byte(testMarkdown)))
	if err != nil {
		t.Fatal(err)
	}
	var accepted struct {
		JobID string `json:"job_id"`
		DocID string `json:"doc_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&accepted); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if snap := waitForCompletion(t, ts, accepted.JobID); snap.Status != pipeline.StatusCompleted {
		t.Fatalf("expected completed, got %s", snap.Status)
	}

	listResp := authedGet(t, ts.URL+"/api/documents")
	defer listResp.Body.Close()
	var listing struct {
		Documents []store.Manifest `json:"documents"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&listing); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listing.Documents) != 1 || listing.Documents[0].DocID != accepted.DocID {
		t.Errorf("list: %+v", listing.Documents)
	}

	termsResp := authedGet(t, ts.URL+"/api/documents/"+accepted.DocID+"/terms?top=5")
	defer termsResp.Body.Close()
	if termsResp.StatusCode != http.StatusOK {
		t.Fatalf("terms: expected 200, got %d", termsResp.StatusCode)
	}

	delReq, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/documents/"+accepted.DocID, nil)
	delReq.Header.Set("Authorization", "Bearer "+testAPIKey)
	delResp, err := http.DefaultClient.Do(delReq)
	if err != nil {
		t.Fatal(err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK && delResp.StatusCode != http.StatusNoContent {
		t.Errorf("delete: got %d", delResp.StatusCode)
	}

	missing := authedGet(t, ts.URL+"/api/documents/"+accepted.DocID+"/records")
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", missing.StatusCode)
	}
}
