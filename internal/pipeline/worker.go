package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/avigne/traintix/internal/extract"
	"github.com/avigne/traintix/internal/htmldoc"
)

// Worker runs one parse job end-to-end: tidy pre-pass, tree build,
// extraction. Each job owns its whole working set, so workers share nothing
// but the stats aggregator.
type Worker struct {
	log   *slog.Logger
	stats *extract.ParseStats
}

func NewWorker(log *slog.Logger, stats *extract.ParseStats) *Worker {
	return &Worker{log: log, stats: stats}
}

// Process parses the job's document and stores the resulting ticket. A
// failure of any phase fails the whole job; no partial result is kept.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	if ctx.Err() != nil {
		job.Fail("canceled before parsing")
		return
	}

	job.SetStatus(StatusParsing)
	start := time.Now()

	root, err := htmldoc.LoadTidy(job.FileData())
	if err != nil {
		log.Error("tree build failed", "error", err)
		job.Fail(err.Error())
		return
	}

	tk, err := extract.FromDocument(root)
	durationMs := time.Since(start).Milliseconds()
	w.stats.Record(durationMs)
	if err != nil {
		log.Error("extraction failed", "error", err)
		job.Fail(err.Error())
		return
	}

	job.SetResult(tk)
	log.Info("parse completed", "duration_ms", durationMs, "trips", len(tk.Result.Trips))
}
