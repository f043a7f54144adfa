// Package job assembles a core.JobMeta's task list into wired
// runtime.Worker instances and runs them to completion, grounded on
// internal/task/manager.go's phased Create (validate, resolve, construct,
// wire, start) collapsed into the three phases this domain needs:
// validate, wire, run.
package job

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fetiche/engine/internal/actor"
	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/runtime"
)

// Job owns one task graph from construction through completion, per
// spec.md §3's ownership rule ("A Job exclusively owns its task graph
// until run() returns").
type Job struct {
	mu    sync.Mutex
	meta  core.JobMeta
	deps  Dependencies
	cancel context.CancelFunc
}

// New returns a Job in state Created with the given id and name. Tasks are
// appended with Add; nothing is validated until Run.
func New(id uint64, name string, deps Dependencies) *Job {
	return &Job{
		meta: core.JobMeta{
			ID:        id,
			Name:      name,
			CreatedAt: deps.Now(),
			State:     core.StateCreated,
		},
		deps: deps,
	}
}

// ID returns the job's monotonic identifier.
func (j *Job) ID() uint64 { return j.meta.ID }

// State returns the job's current lifecycle state.
func (j *Job) State() core.JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.meta.State
}

// Add appends a task spec. Per spec.md §4.2, full ordering validation is
// deferred to Run — Add only rejects a job that has already started.
func (j *Job) Add(spec core.TaskSpec) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.meta.State != core.StateCreated && j.meta.State != core.StateQueued {
		return fmt.Errorf("job %d: %w", j.meta.ID, core.ErrJobIsRunning)
	}
	j.meta.Tasks = append(j.meta.Tasks, spec)
	return nil
}

// Cancel sets the job's cancellation token. Safe to call concurrently with
// Run; a call made before Run has started has no effect on a later Run.
func (j *Job) Cancel() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cancel != nil {
		j.cancel()
	}
}

// validate checks the invariants spec.md §3 lists, returning the exact
// error kind spec.md §7 names.
func validate(tasks []core.TaskSpec) error {
	if len(tasks) < 2 {
		return core.ErrNoFirstProducer
	}
	if tasks[0].Capability != core.Producer {
		return core.ErrNoFirstProducer
	}
	last := tasks[len(tasks)-1]
	if last.Capability != core.Consumer && last.Capability != core.Filter {
		return core.ErrNoLastConsumer
	}
	for _, t := range tasks[1 : len(tasks)-1] {
		if t.Capability == core.Producer || t.Capability == core.Consumer {
			return fmt.Errorf("task %q: intermediate task cannot be %s", t.Kind, t.Capability)
		}
	}
	return nil
}

// Run validates the task list, constructs pairwise channels, spawns one
// worker per task via golang.org/x/sync/errgroup (grounded on the wider
// example pack's use of errgroup for spawn-wait-first-error), and returns
// the job's Stats once every worker has returned: Pkts and Bytes are the
// final task's, the other counters are summed over all tasks. On any worker error
// the group's context is cancelled, so every other worker observes it on
// its next channel operation and unwinds per spec.md §5.
func (j *Job) Run(ctx context.Context) (core.Stats, error) {
	j.mu.Lock()
	if err := validate(j.meta.Tasks); err != nil {
		j.meta.State = core.StateFailed
		j.mu.Unlock()
		return core.Stats{}, err
	}
	runCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.meta.State = core.StateRunning
	tasks := append([]core.TaskSpec(nil), j.meta.Tasks...)
	j.mu.Unlock()
	defer cancel()

	workers, err := j.wire(tasks)
	if err != nil {
		j.setState(core.StateFailed)
		return core.Stats{}, err
	}

	g, gctx := errgroup.WithContext(runCtx)
	results := make([]core.Stats, len(workers))
	for i, w := range workers {
		i, w := i, w
		tag := tagFor(tasks[i])
		g.Go(func() error {
			s, err := w.Run(gctx)
			results[i] = s
			if j.deps.Stats != nil {
				j.deps.Stats <- actor.StatsMsg{Kind: actor.StatsMerge, Tag: tag, Stats: s}
			}
			return err
		})
	}

	runErr := g.Wait()

	total := core.Stats{TM: j.deps.Now().Unix()}
	for _, s := range results {
		total = total.Add(s)
	}
	// Every stage forwards the same records, so Pkts and Bytes come from the
	// final task alone; summing them would count each record once per task.
	last := results[len(results)-1]
	total.Pkts, total.Bytes = last.Pkts, last.Bytes

	if runErr != nil {
		j.setState(core.StateFailed)
		return total, runErr
	}
	j.setState(core.StateCompleted)
	return total, nil
}

func (j *Job) setState(s core.JobState) {
	j.mu.Lock()
	j.meta.State = s
	j.mu.Unlock()
}

// tagFor identifies the stats actor tag a task's merged Stats are filed
// under: the site a Fetch/Stream task talks to, the area a Store/Record
// task writes into, or the task kind itself for everything else.
func tagFor(spec core.TaskSpec) string {
	if site := spec.Params["site"]; site != "" {
		return site
	}
	if area := spec.Params["area"]; area != "" {
		return area
	}
	return spec.Kind
}

// wire builds one runtime.Worker per task, connected by string channels
// sized per runtime.BufferSize. The first worker (the producer) gets no
// input channel: its In stays nil and nothing is sent to prime it.
func (j *Job) wire(tasks []core.TaskSpec) ([]*runtime.Worker, error) {
	channels := make([]chan string, len(tasks)-1)
	for i := range channels {
		streaming := tasks[i].Kind == "Stream"
		channels[i] = make(chan string, runtime.BufferSize(tasks[i].Capability, streaming))
	}

	workers := make([]*runtime.Worker, len(tasks))
	for i, spec := range tasks {
		runnable, err := j.deps.Build(spec)
		if err != nil {
			return nil, fmt.Errorf("task %d (%s): %w", i, spec.Kind, err)
		}
		w := &runtime.Worker{Name: fmt.Sprintf("%s[%d]", spec.Kind, i)}
		if i > 0 {
			w.In = channels[i-1]
		}
		if i < len(channels) {
			w.Out = channels[i]
		}
		w.Task = runnable
		workers[i] = w
	}
	return workers, nil
}
