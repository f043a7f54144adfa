package runtime

import (
	"context"
	"fmt"

	"github.com/fetiche/engine/internal/core"
)

// Worker runs one Runnable task, wiring its input/output channels and
// reporting its final Stats snapshot when it returns. Grounded on
// internal/pipeline/pipeline.go's captureLoop/processLoop goroutine pair,
// collapsed into one type since every task kind here shares the same
// read-process-write shape rather than a fixed capture/decode/parse split.
type Worker struct {
	Name string
	Task Runnable
	In   <-chan string // nil for a producer
	Out  chan<- string // nil for a terminal consumer
}

// Run executes the worker's task to completion. It always closes Out (if
// non-nil) before returning — including on error or cancellation — so a
// downstream worker's range over In terminates instead of blocking
// forever, per spec.md §5's "a cancelled worker closes its output
// channel" rule.
func (w *Worker) Run(ctx context.Context) (core.Stats, error) {
	stats := core.Stats{}
	defer func() {
		if w.Out != nil {
			close(w.Out)
		}
	}()

	if err := w.Task.Execute(ctx, w.In, w.Out, &stats); err != nil {
		stats.Err++
		return stats, fmt.Errorf("task %s: %w", w.Name, err)
	}
	return stats, nil
}
