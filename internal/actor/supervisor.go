package actor

import (
	"context"
	"log/slog"
	"time"
)

// supervisorMaxBackoff caps the restart delay for a streaming source at
// 30s, per spec.md §4.4 ("restart with exponential backoff, cap 30s").
// internal/sites's own reconnectLoop caps its transport-level retries at
// 60s; this is the outer restart policy for the goroutine running that
// loop, should it exit instead of looping forever.
const supervisorMaxBackoff = 30 * time.Second

// Restartable is anything the supervisor can run-and-restart: a streaming
// source's Stream call, wrapped by the caller into a zero-argument thunk
// that blocks until the stream ends or ctx is cancelled.
type Restartable func(ctx context.Context) error

// Supervisor restarts a Restartable with exponential backoff (cap 30s)
// whenever it returns a non-nil error, until ctx is cancelled. Grounded on
// internal/daemon/daemon.go's serialized lifecycle ownership, adapted from
// "one daemon, start once" to "one restart policy per streaming source".
type Supervisor struct {
	name string
}

// NewSupervisor names the Supervisor for its log lines.
func NewSupervisor(name string) *Supervisor {
	return &Supervisor{name: name}
}

// Run restarts fn after each error until ctx is cancelled; it returns as
// soon as fn returns nil. Tasks within a job are never
// restarted by this type — only streaming sources are, per spec.md §4.4's
// "tasks within a job are not restarted" rule; job-level failure handling
// lives in internal/job instead.
func (s *Supervisor) Run(ctx context.Context, fn Restartable) {
	attempt := 0
	for {
		if ctx.Err() != nil {
			return
		}

		started := time.Now()
		err := fn(ctx)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			return
		}

		if time.Since(started) >= time.Minute {
			attempt = 0
		}
		attempt++

		backoff := time.Duration(1) << uint(min(attempt, 5)) * time.Second
		if backoff > supervisorMaxBackoff {
			backoff = supervisorMaxBackoff
		}

		slog.Warn("restarting source", "source", s.name, "error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
	}
}
