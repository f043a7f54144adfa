// Package actor implements the five message-loop goroutines that
// coordinate job lifecycle outside the hot data path: per-source
// statistics, durable queue state, per-job results, process supervision,
// and the rotation/once scheduler. Each actor owns its state exclusively
// and is only ever touched through its typed mailbox channel, grounded on
// the teacher's single-threaded ownership model
// (internal/daemon/daemon.go's serialized Start/Stop/Reload).
package actor

import (
	"go.uber.org/atomic"

	"github.com/fetiche/engine/internal/core"
)

// tagCounters holds one set of atomically-updated counters per source tag.
// go.uber.org/atomic is promoted here from the teacher's indirect require
// (pulled in transitively via viper) to a direct dependency, since the
// stats actor exercises it on every message it handles.
type tagCounters struct {
	pkts, bytes, hits, miss, empty, errs, reconnect atomic.Uint64
}

func (c *tagCounters) snapshot() core.Stats {
	return core.Stats{
		Pkts:      c.pkts.Load(),
		Bytes:     c.bytes.Load(),
		Hits:      c.hits.Load(),
		Miss:      c.miss.Load(),
		Empty:     c.empty.Load(),
		Err:       c.errs.Load(),
		Reconnect: c.reconnect.Load(),
	}
}

// StatsMsg is the stats actor's mailbox message type: exactly one of the
// event kinds below, plus an optional reply channel for Get.
type StatsMsg struct {
	Kind  StatsKind
	Tag   string
	N     uint64          // for Bytes
	Stats core.Stats      // for Merge
	Reply chan core.Stats // for Get
}

// StatsKind enumerates the stats actor's message kinds, per spec.md §4.4.
type StatsKind int

const (
	StatsNew StatsKind = iota
	StatsPkts
	StatsBytes
	StatsHit
	StatsMiss
	StatsEmpty
	StatsError
	StatsReconnect
	StatsMerge
	StatsGet
	StatsReset
	StatsPrint
)

// StatsActor owns one map[tag]*tagCounters, touched only from its own
// goroutine via Run.
type StatsActor struct {
	mailbox chan StatsMsg
	tags    map[string]*tagCounters
	printer func(tag string, s core.Stats)
}

// NewStatsActor returns a StatsActor whose mailbox has the given buffer
// size. printer is called on StatsPrint for every known tag; pass nil to
// use a no-op (tests don't want console noise).
func NewStatsActor(buffer int, printer func(tag string, s core.Stats)) *StatsActor {
	if printer == nil {
		printer = func(string, core.Stats) {}
	}
	return &StatsActor{
		mailbox: make(chan StatsMsg, buffer),
		tags:    make(map[string]*tagCounters),
		printer: printer,
	}
}

// Mailbox returns the channel callers send StatsMsg on.
func (a *StatsActor) Mailbox() chan<- StatsMsg { return a.mailbox }

// Run drains the mailbox until it is closed. Intended to be started with
// `go a.Run()` once at process start.
func (a *StatsActor) Run() {
	for msg := range a.mailbox {
		a.handle(msg)
	}
}

func (a *StatsActor) handle(msg StatsMsg) {
	c := a.ensure(msg.Tag)
	switch msg.Kind {
	case StatsNew:
		// ensure already created it; nothing further to do.
	case StatsPkts:
		c.pkts.Inc()
	case StatsBytes:
		c.bytes.Add(msg.N)
	case StatsHit:
		c.hits.Inc()
	case StatsMiss:
		c.miss.Inc()
	case StatsEmpty:
		c.empty.Inc()
	case StatsError:
		c.errs.Inc()
	case StatsReconnect:
		c.reconnect.Inc()
	case StatsMerge:
		c.pkts.Add(msg.Stats.Pkts)
		c.bytes.Add(msg.Stats.Bytes)
		c.hits.Add(msg.Stats.Hits)
		c.miss.Add(msg.Stats.Miss)
		c.empty.Add(msg.Stats.Empty)
		c.errs.Add(msg.Stats.Err)
		c.reconnect.Add(msg.Stats.Reconnect)
	case StatsGet:
		if msg.Reply != nil {
			msg.Reply <- c.snapshot()
		}
	case StatsReset:
		a.tags[msg.Tag] = &tagCounters{}
	case StatsPrint:
		for tag, tc := range a.tags {
			a.printer(tag, tc.snapshot())
		}
	}
}

func (a *StatsActor) ensure(tag string) *tagCounters {
	c, ok := a.tags[tag]
	if !ok {
		c = &tagCounters{}
		a.tags[tag] = c
	}
	return c
}
