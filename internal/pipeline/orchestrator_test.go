package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/avigne/traintix/internal/config"
	"github.com/avigne/traintix/internal/ticket"
)

func testOrchestrator(queueSize int) *Orchestrator {
	cfg := config.Config{
		WorkerCount:  1,
		MaxQueueSize: queueSize,
		JobTTL:       time.Hour,
		StatsWindow:  time.Hour,
	}
	return NewOrchestrator(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubmitDeduplicates(t *testing.T) {
	// Workers stay stopped so job states are fully under the test's control.
	o := testOrchestrator(4)
	data := []byte(minimalConfirmation)

	first := NewJob("a.html", data)
	if err := o.Submit(first, false); err != nil {
		t.Fatalf("submit: %v", err)
	}
	first.SetResult(&ticket.Ticket{Status: "ok"})

	second := NewJob("b.html", data)
	if err := o.Submit(second, false); err != nil {
		t.Fatalf("submit duplicate: %v", err)
	}
	snap := second.Snapshot()
	if snap.Status != StatusDuplicate {
		t.Fatalf("expected duplicate_skipped, got %s", snap.Status)
	}
	if snap.DuplicateOf != first.ID {
		t.Errorf("expected duplicate of %s, got %s", first.ID, snap.DuplicateOf)
	}

	resolved := o.ResolveResult(second.ID)
	if resolved == nil || resolved.ID != first.ID {
		t.Error("expected the duplicate to resolve to the original job")
	}
}

func TestSubmitForceBypassesDedup(t *testing.T) {
	o := testOrchestrator(4)
	data := []byte(minimalConfirmation)

	first := NewJob("a.html", data)
	if err := o.Submit(first, false); err != nil {
		t.Fatalf("submit: %v", err)
	}
	first.SetResult(&ticket.Ticket{Status: "ok"})

	second := NewJob("b.html", data)
	if err := o.Submit(second, true); err != nil {
		t.Fatalf("forced submit: %v", err)
	}
	if second.Snapshot().Status != StatusQueued {
		t.Errorf("expected the forced job queued, got %s", second.Snapshot().Status)
	}
}

func TestSubmitQueueFull(t *testing.T) {
	o := testOrchestrator(1)

	if err := o.Submit(NewJob("a.html", []byte("one")), false); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	overflow := NewJob("b.html", []byte("two"))
	if err := o.Submit(overflow, false); err == nil {
		t.Fatal("expected an error when the queue is full")
	}
	if overflow.Snapshot().Status != StatusFailed {
		t.Errorf("expected the overflow job failed, got %s", overflow.Snapshot().Status)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestOrchestratorProcessesJobs(t *testing.T) {
	o := testOrchestrator(4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	o.Start(ctx)
	defer o.Stop()

	job := NewJob("order.html", []byte(minimalConfirmation))
	if err := o.Submit(job, false); err != nil {
		t.Fatalf("submit: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		snap := job.Snapshot()
		if snap.Status == StatusCompleted {
			break
		}
		if snap.Status == StatusFailed {
			t.Fatalf("job failed: %s", snap.Error)
		}
		select {
		case <-deadline:
			t.Fatalf("job never completed, still %s", snap.Status)
		case <-time.After(10 * time.Millisecond):
		}
	}

	if o.Stats().Count != 1 {
		t.Errorf("expected one recorded parse, got %d", o.Stats().Count)
	}
}
