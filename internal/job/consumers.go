package job

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/runtime"
	"github.com/fetiche/engine/internal/storage"
)

// saveTask is the Save consumer: writes each record's decoded payload,
// one per line, to a fresh file at path, per spec.md §8 scenario 1
// ("out.json contains 3 JSON objects").
type saveTask struct {
	path string
}

func newSaveTask(spec core.TaskSpec) (runtime.Runnable, error) {
	path := spec.Params["path"]
	if path == "" {
		return nil, core.ErrNoPathDefined
	}
	return &saveTask{path: path}, nil
}

func (*saveTask) Capability() core.Capability { return core.Consumer }

func (t *saveTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	f, err := os.OpenFile(t.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("save task: open %q: %w", t.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for msg := range in {
		env, err := decodeEnvelope(msg)
		if err != nil {
			stats.Err++
			continue
		}
		if _, err := w.Write(append(append([]byte(nil), env.payload...), '\n')); err != nil {
			return fmt.Errorf("save task: write %q: %w", t.path, err)
		}
		stats.Pkts++
		stats.Bytes += uint64(len(env.payload))
	}
	return w.Flush()
}

// storeTask is the Store consumer: appends each record's payload to a
// named storage.Area (Directory, Cache or Hive), per spec.md §4.6.
type storeTask struct {
	area storage.Area
	tag  string
}

func newStoreTask(d Dependencies, spec core.TaskSpec) (runtime.Runnable, error) {
	name := spec.Params["area"]
	if name == "" {
		return nil, fmt.Errorf("store task: no storage area named")
	}
	area, err := d.Storage.Get(name)
	if err != nil {
		return nil, fmt.Errorf("store task: %w", err)
	}
	tag := spec.Params["tag"]
	if tag == "" {
		tag = name
	}
	return &storeTask{area: area, tag: tag}, nil
}

func (*storeTask) Capability() core.Capability { return core.Consumer }

func (t *storeTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	for msg := range in {
		env, err := decodeEnvelope(msg)
		if err != nil {
			stats.Err++
			continue
		}
		if err := t.area.Write(ctx, t.tag, env.payload); err != nil {
			return fmt.Errorf("store task: %w", err)
		}
		stats.Pkts++
		stats.Bytes += uint64(len(env.payload))
	}
	return nil
}

// recordTask is the Record consumer: insertion into a table. Per
// spec.md §9's note that Record is "present but unfinished in the
// source... write semantics equivalent to Store, pending schema
// specification", this delegates to the same storage.Registry a Store
// task uses, keyed by a "table" param instead of "area".
type recordTask struct {
	area storage.Area
	tag  string
}

func newRecordTask(d Dependencies, spec core.TaskSpec) (runtime.Runnable, error) {
	name := spec.Params["table"]
	if name == "" {
		return nil, fmt.Errorf("record task: no table named")
	}
	area, err := d.Storage.Get(name)
	if err != nil {
		return nil, fmt.Errorf("record task: %w", err)
	}
	return &recordTask{area: area, tag: name}, nil
}

func (*recordTask) Capability() core.Capability { return core.Consumer }

func (t *recordTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	for msg := range in {
		env, err := decodeEnvelope(msg)
		if err != nil {
			stats.Err++
			continue
		}
		if err := t.area.Write(ctx, t.tag, env.payload); err != nil {
			return fmt.Errorf("record task: %w", err)
		}
		stats.Pkts++
		stats.Bytes += uint64(len(env.payload))
	}
	return nil
}

// stdoutTask is the Stdout consumer: writes each record's payload to
// standard output, one per line.
type stdoutTask struct{}

func newStdoutTask(spec core.TaskSpec) (runtime.Runnable, error) { return &stdoutTask{}, nil }

func (*stdoutTask) Capability() core.Capability { return core.Consumer }

func (*stdoutTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	w := bufio.NewWriter(os.Stdout)
	for msg := range in {
		env, err := decodeEnvelope(msg)
		if err != nil {
			stats.Err++
			continue
		}
		if _, err := w.Write(append(append([]byte(nil), env.payload...), '\n')); err != nil {
			return fmt.Errorf("stdout task: %w", err)
		}
		stats.Pkts++
		stats.Bytes += uint64(len(env.payload))
	}
	return w.Flush()
}
