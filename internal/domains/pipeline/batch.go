package pipeline

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/xpanvictor/omniscribe/internal/domains/transcript"
	"github.com/xpanvictor/omniscribe/pkg/Logger"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 3

// Executor runs one job to a terminal state. *Sequencer satisfies it.
type Executor interface {
	Execute(ctx context.Context, job Job, emit func(Event)) (*transcript.Transcript, error)
}

// Outcome is the terminal state of one batch item.
type Outcome struct {
	Transcript *transcript.Transcript
	Err        error
}

// Controller fans a batch out over at most limit concurrent executions.
type Controller struct {
	exec   Executor
	limit  int
	logger *Logger.Logger
}

func NewController(exec Executor, limit int, logger *Logger.Logger) *Controller {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Controller{exec: exec, limit: limit, logger: logger}
}

// Execute runs every job and returns their outcomes in input order. Workers
// share a cursor and each claims the next unclaimed index when it frees
// up. One item failing never cancels its siblings. emit is serialized.
func (c *Controller) Execute(ctx context.Context, jobs []Job, emit func(Event)) []Outcome {
	outcomes := make([]Outcome, len(jobs))
	if len(jobs) == 0 {
		return outcomes
	}

	var mu sync.Mutex
	serialized := func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		emit(ev)
	}

	var cursor atomic.Int64
	var g errgroup.Group
	for w := 0; w < min(c.limit, len(jobs)); w++ {
		g.Go(func() error {
			for {
				i := int(cursor.Add(1) - 1)
				if i >= len(jobs) {
					return nil
				}
				job := jobs[i]
				if job.Meta == nil {
					job.Meta = &FileMeta{FileName: job.Input.FileName, FileIndex: i, FileCount: len(jobs)}
				}
				t, err := c.exec.Execute(ctx, job, serialized)
				outcomes[i] = Outcome{Transcript: t, Err: err}
				if err != nil {
					c.logger.Warnf("batch item %d (%s) failed: %v", i, job.Input.FileName, err)
				}
			}
		})
	}
	_ = g.Wait()
	return outcomes
}

// Run executes the batch in the background and returns its event
// sequence: interleaved per-file progress, then one aggregate result.
func (c *Controller) Run(ctx context.Context, jobs []Job) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		send := func(ev Event) {
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		}
		outcomes := c.Execute(ctx, jobs, send)
		send(BatchEvent(Succeeded(outcomes)))
	}()
	return out
}

// Succeeded keeps the successful transcripts in input order. Failed items
// are absent.
func Succeeded(outcomes []Outcome) []transcript.Transcript {
	results := make([]transcript.Transcript, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err == nil && o.Transcript != nil {
			results = append(results, *o.Transcript)
		}
	}
	return results
}
