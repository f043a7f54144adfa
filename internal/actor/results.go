package actor

import "github.com/fetiche/engine/internal/core"

// ResultsKind enumerates the results actor's message kinds.
type ResultsKind int

const (
	ResultsSubmit ResultsKind = iota
	ResultsFetch
)

// ResultsMsg is the results actor's mailbox message type.
type ResultsMsg struct {
	Kind  ResultsKind
	JobID uint64
	Stats core.Stats
	Reply chan core.Stats // for Fetch
}

// ResultsActor holds the final Stats of every job that has run, keyed by
// job id, for the life of the actor; a Fetch reads an entry without
// removing it.
type ResultsActor struct {
	mailbox chan ResultsMsg
	results map[uint64]core.Stats
}

// NewResultsActor returns a ResultsActor ready to Run.
func NewResultsActor(buffer int) *ResultsActor {
	return &ResultsActor{
		mailbox: make(chan ResultsMsg, buffer),
		results: make(map[uint64]core.Stats),
	}
}

// Mailbox returns the channel callers send ResultsMsg on.
func (a *ResultsActor) Mailbox() chan<- ResultsMsg { return a.mailbox }

// Run drains the mailbox until it is closed.
func (a *ResultsActor) Run() {
	for msg := range a.mailbox {
		switch msg.Kind {
		case ResultsSubmit:
			a.results[msg.JobID] = msg.Stats
		case ResultsFetch:
			if msg.Reply != nil {
				msg.Reply <- a.results[msg.JobID]
			}
		}
	}
}
