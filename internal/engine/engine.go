// Package engine is the process-wide facade wiring the site/storage
// registries, the job engine, and the five actors together into the
// public operations spec.md §4.7 names: CreateJob, Submit, ListSources,
// Versions, Schedule. Grounded on internal/otus/otus.go's AppContext (a
// thin façade gluing config, registry, and task manager together) and
// internal/daemon/manager.go's ensure-running/stop lifecycle, collapsed
// from a package-level singleton into a single constructed value so tests
// can build an isolated Engine per case.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/fetiche/engine/internal/actor"
	"github.com/fetiche/engine/internal/config"
	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/job"
	"github.com/fetiche/engine/internal/sites"
	"github.com/fetiche/engine/internal/storage"
)

// version is the engine's own reported version (Versions' "engine" entry).
const version = "0.1.0"

// Config is everything New needs to assemble an Engine beyond the
// already-built site/storage registries: the resolved sites.hcl entries,
// the informational databases.hcl catalogue, and where to persist the job
// queue state file.
type Config struct {
	BaseDir   string
	Sites     map[string]core.Site
	Databases []config.Database
	StatePath string // defaults to <BaseDir>/state.json
}

// Engine is the public entry point a CLI or any future control surface
// calls into. It owns no task-graph state directly — every Job it creates
// is handed back to the caller, who submits or schedules it through the
// same Engine value.
type Engine struct {
	sitesByName map[string]core.Site
	databases   []config.Database
	sites       *sites.Registry
	storage     *storage.Registry
	deps        job.Dependencies

	nextID atomic.Uint64

	stats      *actor.StatsActor
	state      *actor.StateActor
	results    *actor.ResultsActor
	scheduler  *actor.SchedulerActor
	supervisor *actor.Supervisor

	mu        sync.Mutex
	scheduled map[uint64]*job.Job
}

// New builds an Engine from cfg plus the site/storage registries a caller
// has already populated (sites.RegisterBuiltins for production, a stub
// registry in tests). It starts the stats, state, results, and scheduler
// actor goroutines; New itself never blocks.
func New(cfg Config, siteReg *sites.Registry, areas *storage.Registry) (*Engine, error) {
	statePath := cfg.StatePath
	if statePath == "" {
		statePath = filepath.Join(cfg.BaseDir, "state.json")
	}

	stateActor, err := actor.NewStateActor(statePath, 32)
	if err != nil {
		return nil, fmt.Errorf("engine: state actor: %w", err)
	}

	e := &Engine{
		sitesByName: cfg.Sites,
		databases:   cfg.Databases,
		sites:       siteReg,
		storage:     areas,
		stats:       actor.NewStatsActor(64, nil),
		state:       stateActor,
		results:     actor.NewResultsActor(64),
		supervisor:  actor.NewSupervisor("engine"),
		scheduled:   make(map[uint64]*job.Job),
	}
	e.nextID.Store(stateActor.LastID())
	e.scheduler = actor.NewSchedulerActor(64, e.dispatch)
	e.deps = job.Dependencies{
		Sites:   siteReg,
		Storage: areas,
		SiteOf:  e.siteOf,
		Stats:   e.stats.Mailbox(),
	}

	go e.stats.Run()
	go e.state.Run()
	go e.results.Run()
	go e.scheduler.Run()

	return e, nil
}

func (e *Engine) siteOf(name string) (core.Site, error) {
	site, ok := e.sitesByName[name]
	if !ok {
		return core.Site{}, fmt.Errorf("site %q: %w", name, core.ErrSiteNotFound)
	}
	return site, nil
}

// CreateJob returns a new, empty Job with the next monotonic id, ready for
// Add calls followed by Submit or Schedule.
func (e *Engine) CreateJob(name string) *job.Job {
	id := e.nextID.Add(1)
	return job.New(id, name, e.deps)
}

// Submit validates and runs j to completion, recording its final Stats in
// the results actor and its membership in the durable job queue (added
// before running, removed and synced to disk once it returns) per
// spec.md §4.4's state-actor contract.
func (e *Engine) Submit(ctx context.Context, j *job.Job) (core.Stats, error) {
	e.state.Mailbox() <- actor.StateMsg{Kind: actor.StateAdd, JobID: j.ID()}

	stats, runErr := j.Run(ctx)

	e.results.Mailbox() <- actor.ResultsMsg{Kind: actor.ResultsSubmit, JobID: j.ID(), Stats: stats}
	e.state.Mailbox() <- actor.StateMsg{Kind: actor.StateRemove, JobID: j.ID()}

	done := make(chan error, 1)
	e.state.Mailbox() <- actor.StateMsg{Kind: actor.StateSync, Done: done}
	if err := <-done; err != nil {
		slog.Warn("engine: state sync failed", "job", j.ID(), "error", err)
	}

	return stats, runErr
}

// Schedule registers j with the scheduler actor under when's fire policy
// and returns j's id. The job runs asynchronously through Submit each time
// it fires; callers observe the outcome through the results actor's
// mailbox, returned by Results.
func (e *Engine) Schedule(j *job.Job, when actor.When) int {
	e.mu.Lock()
	e.scheduled[j.ID()] = j
	e.mu.Unlock()

	e.scheduler.Mailbox() <- actor.SchedulerMsg{Kind: actor.SchedulerSchedule, JobID: j.ID(), When: when}
	return int(j.ID())
}

// Cancel removes a previously Scheduled job so it no longer fires.
func (e *Engine) Cancel(jobID uint64) {
	e.scheduler.Mailbox() <- actor.SchedulerMsg{Kind: actor.SchedulerCancel, JobID: jobID}
	e.mu.Lock()
	delete(e.scheduled, jobID)
	e.mu.Unlock()
}

// Tick drives the scheduler actor's fire check. The engine has no ticker of
// its own: scheduled jobs fire only when a caller invokes Tick, and nothing
// in cmd/ does.
func (e *Engine) Tick() {
	e.scheduler.Mailbox() <- actor.SchedulerMsg{Kind: actor.SchedulerTick}
}

// dispatch is the scheduler actor's fire callback: it must not block, so
// the actual run happens on its own goroutine via Submit.
func (e *Engine) dispatch(jobID uint64) {
	e.mu.Lock()
	j, ok := e.scheduled[jobID]
	e.mu.Unlock()
	if !ok {
		return
	}
	go func() {
		if _, err := e.Submit(context.Background(), j); err != nil {
			slog.Warn("engine: scheduled job failed", "job", jobID, "error", err)
		}
	}()
}

// ListSources returns every configured site name, sorted.
func (e *Engine) ListSources() []string {
	names := make([]string, 0, len(e.sitesByName))
	for name := range e.sitesByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListDatabases returns the catalogue databases.hcl declares.
func (e *Engine) ListDatabases() []config.Database {
	return e.databases
}

// Versions reports the engine's own version plus every vendor format the
// source registry can decode, grounded on the teacher's plugin
// Metadata{Version} field and the original engined binary's version()
// helper — each registered source type is a fixed wire dialect, so its
// reported version tracks this module's release, not a per-adapter value.
func (e *Engine) Versions() map[string]string {
	versions := map[string]string{"engine": version}
	for _, t := range e.sites.Types() {
		versions[t] = version
	}
	return versions
}

// Stats returns the stats actor's mailbox, so callers can
// query or print per-tag counters without the engine exposing its
// internal actor types directly.
func (e *Engine) Stats() chan<- actor.StatsMsg { return e.stats.Mailbox() }

// Results returns the results actor's mailbox, so callers can fetch a
// completed job's recorded Stats by id.
func (e *Engine) Results() chan<- actor.ResultsMsg { return e.results.Mailbox() }
