package pipeline

import (
	"testing"
	"time"

	"github.com/avigne/traintix/internal/ticket"
)

func TestContentHashHex(t *testing.T) {
	got := ContentHashHex([]byte("hello"))
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Errorf("hash mismatch:\ngot  %s\nwant %s", got, want)
	}

	empty := ContentHashHex(nil)
	wantEmpty := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if empty != wantEmpty {
		t.Errorf("empty hash mismatch:\ngot  %s\nwant %s", empty, wantEmpty)
	}
}

func TestNewJob(t *testing.T) {
	data := []byte("<html></html>")
	job := NewJob("order.html", data)

	if job.ID == "" {
		t.Error("expected a generated job ID")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected queued, got %s", job.Status)
	}
	if job.ContentHash != ContentHashHex(data) {
		t.Error("content hash does not match document bytes")
	}
	if string(job.FileData()) != string(data) {
		t.Error("expected the document bytes retained until parsed")
	}
}

func TestJobLifecycle(t *testing.T) {
	job := NewJob("order.html", []byte("doc"))

	job.SetStatus(StatusParsing)
	if job.Snapshot().Status != StatusParsing {
		t.Fatalf("expected parsing, got %s", job.Snapshot().Status)
	}

	tk := &ticket.Ticket{Status: "ok"}
	job.SetResult(tk)
	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", snap.Status)
	}
	if job.Result() != tk {
		t.Error("expected the stored ticket back")
	}
	if job.FileData() != nil {
		t.Error("expected document bytes released after completion")
	}
}

func TestJobFail(t *testing.T) {
	job := NewJob("order.html", []byte("doc"))
	job.Fail("tree build failed")

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("expected failed, got %s", snap.Status)
	}
	if snap.Error != "tree build failed" {
		t.Errorf("expected the failure message, got %q", snap.Error)
	}
	if job.Result() != nil {
		t.Error("expected no result on a failed job")
	}
}

func TestMarkDuplicate(t *testing.T) {
	job := NewJob("order.html", []byte("doc"))
	job.MarkDuplicate("original-id")

	snap := job.Snapshot()
	if snap.Status != StatusDuplicate {
		t.Errorf("expected duplicate_skipped, got %s", snap.Status)
	}
	if snap.DuplicateOf != "original-id" {
		t.Errorf("expected the original job ID, got %q", snap.DuplicateOf)
	}
	if job.FileData() != nil {
		t.Error("expected document bytes released on duplicates")
	}
}

func TestJobStore(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := NewJob("order.html", []byte("doc"))
	store.Put(job)

	if store.Get(job.ID) != job {
		t.Fatal("expected the stored job back")
	}
	if store.Get("missing") != nil {
		t.Error("expected nil for an unknown ID")
	}
}

func TestFindCompletedByHash(t *testing.T) {
	store := NewJobStore(time.Hour)
	data := []byte("doc")

	pending := NewJob("a.html", data)
	store.Put(pending)
	if store.FindCompletedByHash(pending.ContentHash) != nil {
		t.Fatal("queued jobs must not satisfy dedup lookups")
	}

	done := NewJob("b.html", data)
	done.SetResult(&ticket.Ticket{Status: "ok"})
	store.Put(done)
	if got := store.FindCompletedByHash(done.ContentHash); got != done {
		t.Errorf("expected the completed job, got %+v", got)
	}
	if store.FindCompletedByHash(ContentHashHex([]byte("other"))) != nil {
		t.Error("expected nil for an unseen document hash")
	}
}

func TestJobStoreCleanup(t *testing.T) {
	store := NewJobStore(time.Minute)

	fresh := NewJob("fresh.html", []byte("a"))
	stale := NewJob("stale.html", []byte("b"))
	stale.UpdatedAt = time.Now().Add(-2 * time.Minute)
	store.Put(fresh)
	store.Put(stale)

	store.Cleanup()

	if store.Get(fresh.ID) == nil {
		t.Error("expected the fresh job kept")
	}
	if store.Get(stale.ID) != nil {
		t.Error("expected the stale job evicted")
	}
}
