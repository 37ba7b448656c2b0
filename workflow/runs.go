package workflow

import (
	"context"
	"sync"

	"github.com/getsentry/sentry-go"

	"sareeapi/models"
	"sareeapi/pkg/logger"
)

// runRegistry tracks the cancel functions of in-flight stage runs.
type runRegistry struct {
	mu      sync.Mutex
	next    int
	cancels map[int]context.CancelFunc
	wg      sync.WaitGroup
}

func newRunRegistry() *runRegistry {
	return &runRegistry{cancels: make(map[int]context.CancelFunc)}
}

func (r *runRegistry) begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	r.mu.Lock()
	id := r.next
	r.next++
	r.cancels[id] = cancel
	r.mu.Unlock()
	r.wg.Add(1)

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.cancels, id)
			r.mu.Unlock()
			cancel()
			r.wg.Done()
		})
	}
}

func (r *runRegistry) cancelAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cancel := range r.cancels {
		cancel()
	}
	return len(r.cancels)
}

func (r *runRegistry) active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cancels)
}

// CancelRuns cancels every running batch of the session and returns how many were running.
func (w *Workflow) CancelRuns() int {
	n := w.runs.cancelAll()
	if n > 0 {
		w.log.Info("Cancelled stage runs", logger.Fields{"runs": n})
		w.publish(Event{Type: EventRun, Status: "cancelled"})
	}
	return n
}

func (w *Workflow) ActiveRuns() int {
	return w.runs.active()
}

// Wait blocks until every background run has finished.
func (w *Workflow) Wait() {
	w.runs.wg.Wait()
}

// Close cancels running batches and waits for them to stop.
func (w *Workflow) Close() {
	w.runs.cancelAll()
	w.Wait()
}

// background runs fn detached from the caller's request.
func (w *Workflow) background(stage models.Stage, fn func(ctx context.Context) error) {
	ctx, done := w.runs.begin(context.Background())
	w.publish(Event{Type: EventRun, Stage: stage.String(), Status: "started"})
	go func() {
		defer done()
		defer func() {
			if r := recover(); r != nil {
				sentry.CurrentHub().Recover(r)
				w.log.Warn("Stage run panicked", logger.Fields{"stage": stage.String()})
			}
		}()
		status := "finished"
		if err := fn(ctx); err != nil {
			status = "cancelled"
			if ctx.Err() == nil {
				status = "failed"
				sentry.CaptureException(err)
				w.log.Error("Stage run failed", err, logger.Fields{"stage": stage.String()})
			}
		}
		w.publish(Event{Type: EventRun, Stage: stage.String(), Status: status})
	}()
}
