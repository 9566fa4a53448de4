package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/avigne/traintix/internal/config"
	"github.com/avigne/traintix/internal/extract"
)

// Orchestrator manages the parse job queue and worker pool.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	stats *extract.ParseStats
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		stats: extract.NewParseStats(cfg.StatsWindow),
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines and the job store cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.cfg.WorkerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.log, o.stats)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing. Unless force is set, a document
// already parsed and still in the store short-circuits to a duplicate job
// pointing at the original.
func (o *Orchestrator) Submit(job *Job, force bool) error {
	if !force {
		if existing := o.jobs.FindCompletedByHash(job.ContentHash); existing != nil {
			job.MarkDuplicate(existing.ID)
			o.jobs.Put(job)
			return nil
		}
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// ResolveResult returns the ticket for a job, following the duplicate link
// when the job was deduplicated.
func (o *Orchestrator) ResolveResult(id string) *Job {
	job := o.jobs.Get(id)
	if job == nil {
		return nil
	}
	if snap := job.Snapshot(); snap.Status == StatusDuplicate && snap.DuplicateOf != "" {
		if original := o.jobs.Get(snap.DuplicateOf); original != nil {
			return original
		}
	}
	return job
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns a snapshot of recent parse durations.
func (o *Orchestrator) Stats() extract.StatsSnapshot {
	return o.stats.Snapshot()
}
