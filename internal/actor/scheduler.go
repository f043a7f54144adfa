package actor

import (
	"time"

	"github.com/fetiche/engine/internal/core"
)

// When is the fire-time policy for a scheduled job: either a single
// absolute timestamp or a recurring period, per spec.md §4.4
// ("When ∈ {Once(ts), Every(duration)}").
type When struct {
	Once  time.Time
	Every time.Duration // zero means this is a Once
}

// Recurring reports whether w fires more than once.
func (w When) Recurring() bool { return w.Every > 0 }

// SchedulerKind enumerates the scheduler actor's message kinds.
type SchedulerKind int

const (
	SchedulerSchedule SchedulerKind = iota
	SchedulerCancel
	SchedulerTick
)

// SchedulerMsg is the scheduler actor's mailbox message type.
type SchedulerMsg struct {
	Kind  SchedulerKind
	JobID uint64
	When  When
}

// entry is one scheduled job's next-fire bookkeeping.
type entry struct {
	when When
	next time.Time
}

// SchedulerActor wakes on every Tick (driven externally, once a second per
// spec.md §4.5) and dispatches jobs whose next fire time has passed.
// Dispatch itself is handed off to dispatch so Tick processing never
// blocks on job execution.
type SchedulerActor struct {
	mailbox  chan SchedulerMsg
	entries  map[uint64]*entry
	dispatch func(jobID uint64)
}

// NewSchedulerActor returns a SchedulerActor ready to Run. dispatch is
// called (from the actor's own goroutine, so it must not block) once per
// fire; the caller is expected to hand the job off to a worker goroutine
// immediately.
func NewSchedulerActor(buffer int, dispatch func(jobID uint64)) *SchedulerActor {
	return &SchedulerActor{
		mailbox:  make(chan SchedulerMsg, buffer),
		entries:  make(map[uint64]*entry),
		dispatch: dispatch,
	}
}

// Mailbox returns the channel callers send SchedulerMsg on.
func (a *SchedulerActor) Mailbox() chan<- SchedulerMsg { return a.mailbox }

// Run drains the mailbox until it is closed.
func (a *SchedulerActor) Run() {
	for msg := range a.mailbox {
		a.handle(msg)
	}
}

func (a *SchedulerActor) handle(msg SchedulerMsg) {
	switch msg.Kind {
	case SchedulerSchedule:
		next := msg.When.Once
		if msg.When.Recurring() {
			next = time.Now().Add(msg.When.Every)
		}
		a.entries[msg.JobID] = &entry{when: msg.When, next: next}
	case SchedulerCancel:
		delete(a.entries, msg.JobID)
	case SchedulerTick:
		a.tick()
	}
}

func (a *SchedulerActor) tick() {
	now := time.Now()
	var fired []uint64
	for id, e := range a.entries {
		if !e.next.After(now) {
			fired = append(fired, id)
		}
	}
	for _, id := range fired {
		e := a.entries[id]
		if e.when.Recurring() {
			e.next = e.next.Add(e.when.Every)
		} else {
			delete(a.entries, id)
		}
		a.dispatch(id)
	}
}

// ParseWhenEvery parses a recurring rotation spec (spec.md §4.5 grammar)
// into a When.
func ParseWhenEvery(spec string) (When, error) {
	d, err := core.ParseRotation(spec)
	if err != nil {
		return When{}, err
	}
	return When{Every: d}, nil
}
