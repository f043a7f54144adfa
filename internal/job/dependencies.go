package job

import (
	"fmt"
	"time"

	"github.com/fetiche/engine/internal/actor"
	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/runtime"
	"github.com/fetiche/engine/internal/sites"
	"github.com/fetiche/engine/internal/storage"
)

// Dependencies is everything a task needs to resolve itself from a
// declarative core.TaskSpec into a runnable runtime.Runnable: the source
// registry (for Fetch/Stream), the storage registry (for Store), and a
// clock (overridable in tests). Stats is the stats actor's mailbox, left
// nil in tests that don't care about out-of-band reporting (Run only
// forwards to it when non-nil).
type Dependencies struct {
	Sites   *sites.Registry
	Storage *storage.Registry
	SiteOf  func(name string) (core.Site, error)
	Clock   func() time.Time
	Stats   chan<- actor.StatsMsg
}

// Now returns the current time via Clock, defaulting to time.Now.
func (d Dependencies) Now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

// Build resolves spec into a concrete runtime.Runnable, per spec.md §4.2's
// task-kind catalogue.
func (d Dependencies) Build(spec core.TaskSpec) (runtime.Runnable, error) {
	switch spec.Kind {
	case "Fetch":
		return newFetchTask(d, spec)
	case "Read":
		return newReadTask(spec)
	case "Stream":
		return newStreamTask(d, spec)
	case "Convert":
		return newConvertTask(spec)
	case "Copy":
		return newCopyTask(spec)
	case "Message":
		return newMessageTask(spec)
	case "Tee":
		return newTeeTask(spec)
	case "Nothing":
		return newNothingTask(spec)
	case "Save":
		return newSaveTask(spec)
	case "Store":
		return newStoreTask(d, spec)
	case "Record":
		return newRecordTask(d, spec)
	case "Stdout":
		return newStdoutTask(spec)
	default:
		return nil, fmt.Errorf("unknown task kind %q", spec.Kind)
	}
}
