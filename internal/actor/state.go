package actor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateFile is the on-disk shape spec.md §6 mandates: `{tm, last, queue}`.
type StateFile struct {
	TM    int64    `json:"tm"`
	Last  uint64   `json:"last"`
	Queue []uint64 `json:"queue"`
}

// StateKind enumerates the state actor's message kinds, per spec.md §4.4.
type StateKind int

const (
	StateAdd StateKind = iota
	StateRemove
	StateSync
)

// StateMsg is the state actor's mailbox message type.
type StateMsg struct {
	Kind  StateKind
	JobID uint64
	Done  chan error // optional: Sync replies here when it returns
}

// StateActor owns the durable job queue and last-id counter, written to
// path with write-temp+rename only when a Sync message arrives (there is no
// timer-driven sync), grounded on
// internal/task/store.go's FileTaskStore persistence shape, adapted from
// one-file-per-task to one file for the whole queue+counter.
type StateActor struct {
	mailbox chan StateMsg
	path    string
	state   StateFile
}

// NewStateActor loads path if it exists (a missing file starts empty) and
// returns a StateActor ready to Run.
func NewStateActor(path string, buffer int) (*StateActor, error) {
	a := &StateActor{mailbox: make(chan StateMsg, buffer), path: path}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &a.state); err != nil {
			return nil, fmt.Errorf("state actor: unmarshal %q: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("state actor: read %q: %w", path, err)
	}
	return a, nil
}

// Mailbox returns the channel callers send StateMsg on.
func (a *StateActor) Mailbox() chan<- StateMsg { return a.mailbox }

// LastID returns the highest job id recorded in the loaded state file. Only
// safe to call before Run starts — callers use it to seed their own job-id
// counter from wherever the previous process left off.
func (a *StateActor) LastID() uint64 { return a.state.Last }

// Run drains the mailbox until it is closed.
func (a *StateActor) Run() {
	for msg := range a.mailbox {
		a.handle(msg)
	}
}

func (a *StateActor) handle(msg StateMsg) {
	switch msg.Kind {
	case StateAdd:
		a.state.Queue = append(a.state.Queue, msg.JobID)
		if msg.JobID > a.state.Last {
			a.state.Last = msg.JobID
		}
	case StateRemove:
		a.state.Queue = removeID(a.state.Queue, msg.JobID)
	case StateSync:
		err := a.sync()
		if msg.Done != nil {
			msg.Done <- err
		}
	}
}

func removeID(queue []uint64, id uint64) []uint64 {
	out := queue[:0]
	for _, q := range queue {
		if q != id {
			out = append(out, q)
		}
	}
	return out
}

// sync writes the full {tm, last, queue} snapshot to a.path via
// os.CreateTemp + os.Rename, the pattern internal/task/store.go's Save
// uses for crash safety. All preceding Add/Remove are visible in the file
// once this returns, per spec.md §5's "serialization barrier" guarantee.
func (a *StateActor) sync() error {
	a.state.TM = time.Now().Unix()

	data, err := json.Marshal(a.state)
	if err != nil {
		return fmt.Errorf("state actor: marshal: %w", err)
	}

	dir := filepath.Dir(a.path)
	tmp, err := os.CreateTemp(dir, ".state-*.tmp")
	if err != nil {
		return fmt.Errorf("state actor: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("state actor: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("state actor: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, a.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("state actor: rename into place: %w", err)
	}
	return nil
}
