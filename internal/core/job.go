package core

import "time"

// JobState is the lifecycle state of a Job.
type JobState string

const (
	StateCreated   JobState = "Created"
	StateQueued    JobState = "Queued"
	StateReady     JobState = "Ready"
	StateRunning   JobState = "Running"
	StateCompleted JobState = "Completed"
	StateFailed    JobState = "Failed"
	StateZombie    JobState = "Zombie"
)

// TaskSpec is the serializable description of one pipeline stage, as loaded
// from a job definition. The concrete Runnable behind a TaskSpec is built by
// the job engine (internal/job) via a switch on Kind in Dependencies.Build.
type TaskSpec struct {
	Kind       string            // "Fetch", "Read", "Stream", "Convert", "Copy", "Message", "Tee", "Nothing", "Save", "Store", "Record", "Stdout"
	Capability Capability        // declared capability of Kind, supplied with the spec; job validation reads it
	Params     map[string]string // kind-specific parameters (path, site, format, area, ...)
}

// JobMeta is the persisted, non-running description of a Job: identity and
// lifecycle state. The live task graph (internal/job.Job) holds a JobMeta.
type JobMeta struct {
	ID        uint64
	Name      string
	Tasks     []TaskSpec
	CreatedAt time.Time
	State     JobState
}

// Result is the outcome of a finished job, as stored by the results actor.
type Result struct {
	State      JobState
	Stats      Stats
	FirstError error
}
