package runs

import (
	"context"
	"sync"
	"time"
)

// Run is one in-flight pipeline execution.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	Preset    string    `json:"preset" yaml:"preset"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	cancel   context.CancelFunc
	done     chan struct{}
	finished *sync.Once
}

// Done returns a channel that is closed when the run has finished or been
// canceled.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// finish cancels the run context and closes done. Safe to call repeatedly.
func (r *Run) finish() {
	r.finished.Do(func() {
		r.cancel()
		close(r.done)
	})
}
