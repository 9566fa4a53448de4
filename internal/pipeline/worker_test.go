package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/avigne/traintix/internal/extract"
)

const minimalConfirmation = `<html><body>
<h1 id="intro-title">Confirmation de votre commande</h1>
<div id="block-command"></div>
<div id="block-travel"></div>
</body></html>`

func testWorker() (*Worker, *extract.ParseStats) {
	stats := extract.NewParseStats(0)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWorker(log, stats), stats
}

func TestWorkerProcess(t *testing.T) {
	w, stats := testWorker()
	job := NewJob("order.html", []byte(minimalConfirmation))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (error %q)", snap.Status, snap.Error)
	}
	tk := job.Result()
	if tk == nil || tk.Status != "ok" {
		t.Fatalf("expected an ok ticket, got %+v", tk)
	}
	if stats.Snapshot().Count != 1 {
		t.Errorf("expected one recorded parse, got %d", stats.Snapshot().Count)
	}
}

func TestWorkerProcessExtractionFailure(t *testing.T) {
	w, _ := testWorker()
	doc := `<html><body><h1 id="intro-title">Panier</h1></body></html>`
	job := NewJob("order.html", []byte(doc))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", snap.Status)
	}
	if snap.Error == "" {
		t.Error("expected the extraction error recorded on the job")
	}
}

func TestWorkerProcessCanceledContext(t *testing.T) {
	w, stats := testWorker()
	job := NewJob("order.html", []byte(minimalConfirmation))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Process(ctx, job)

	if job.Snapshot().Status != StatusFailed {
		t.Fatalf("expected failed, got %s", job.Snapshot().Status)
	}
	if stats.Snapshot().Count != 0 {
		t.Error("expected no parse recorded for a canceled job")
	}
}
