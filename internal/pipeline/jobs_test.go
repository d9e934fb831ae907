package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex(t *testing.T) {
	cases := []struct {
		data []byte
		want string
	}{
		{[]byte("hello world"), "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"},
		{[]byte{}, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
	}
	for _, tc := range cases {
		if got := ContentHashHex(tc.data); got != tc.want {
			t.Errorf("ContentHashHex(%q): expected %s, got %s", tc.data, tc.want, got)
		}
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("doc1", "guide.pdf", 5, 10, []byte("data"), true)

	if job.ID == "" {
		t.Error("expected a job ID")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status queued, got %s", job.Status)
	}
	if job.DocID != "doc1" || job.Filename != "guide.pdf" {
		t.Errorf("identity fields: %+v", job)
	}
	if job.StartPage != 5 || job.EndPage != 10 {
		t.Errorf("page range: got (%d, %d)", job.StartPage, job.EndPage)
	}
	if string(job.FileData()) != "data" {
		t.Errorf("file data: got %q", job.FileData())
	}
	if !job.Force() {
		t.Error("expected force flag set")
	}
}

func TestJob_StatusTransitions(t *testing.T) {
	job := NewJob("doc1", "guide.pdf", 1, 2, nil, false)
	before := job.UpdatedAt

	time.Sleep(time.Millisecond)
	job.SetStatus(StatusParsing, "parsing")
	if job.Status != StatusParsing || job.Phase != "parsing" {
		t.Errorf("expected parsing, got %s/%s", job.Status, job.Phase)
	}
	if !job.UpdatedAt.After(before) {
		t.Error("expected UpdatedAt to advance")
	}

	job.SetStatus(StatusStructuring, "structuring")
	job.SetStatus(StatusStoring, "storing")
	job.SetStatus(StatusCompleted, "done")
	if job.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", job.Status)
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob("doc1", "guide.pdf", 1, 2, nil, false)
	job.AddError("first failure")
	job.AddError("second failure")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "first failure" {
		t.Errorf("expected first error preserved, got %q", snap.Progress.Errors[0])
	}
}

func TestJob_SetResult(t *testing.T) {
	job := NewJob("doc1", "guide.pdf", 1, 2, nil, false)
	job.SetResult(6, 42, 7, 3, []string{"label regression"})

	snap := job.Snapshot()
	p := snap.Progress
	if p.Pages != 6 || p.Records != 42 || p.FootnotesExcluded != 7 || p.TablesExcluded != 3 {
		t.Errorf("progress: %+v", p)
	}
	if len(p.Warnings) != 1 || p.Warnings[0] != "label regression" {
		t.Errorf("warnings: %v", p.Warnings)
	}
}

func TestJob_SnapshotNonNilSlices(t *testing.T) {
	job := NewJob("doc1", "guide.pdf", 1, 2, nil, false)
	snap := job.Snapshot()
	if snap.Progress.Warnings == nil || snap.Progress.Errors == nil {
		t.Error("snapshot slices must never be nil")
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("doc1", "guide.pdf", 1, 2, nil, false)
	store.Put(job)

	if got := store.Get(job.ID); got != job {
		t.Error("expected to get back the stored job")
	}
	if got := store.Get("missing"); got != nil {
		t.Errorf("expected nil for unknown id, got %v", got)
	}
}

func TestJobStore_Cleanup(t *testing.T) {
	store := NewJobStore(10 * time.Millisecond)

	expired := NewJob("old", "guide.pdf", 1, 2, nil, false)
	expired.UpdatedAt = time.Now().Add(-time.Minute)
	fresh := NewJob("new", "guide.pdf", 1, 2, nil, false)

	store.Put(expired)
	store.Put(fresh)
	store.Cleanup()

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job evicted")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job retained")
	}
}
