package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/runtime"
)

// convertTask is the Convert filter: decodes an incoming envelope (vendor
// or already-canonical) into its canonical record and re-emits it, per
// spec.md §8 scenario 1 (Aeroscope -> Cat21). A "to" param of cat21-csv
// additionally re-encodes a Cat21 record as a CSV row instead of a JSON
// object.
type convertTask struct {
	to core.Format
}

func newConvertTask(spec core.TaskSpec) (runtime.Runnable, error) {
	to := core.Format(spec.Params["to"])
	if to == "" {
		to = core.FormatCat21
	}
	return &convertTask{to: to}, nil
}

func (*convertTask) Capability() core.Capability { return core.Filter }

func (t *convertTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	for msg := range in {
		env, err := decodeEnvelope(msg)
		if err != nil {
			stats.Err++
			continue
		}
		records, err := decodeVendorToCanonicalJSON(env.format, env.payload)
		if err != nil {
			stats.Err++
			continue
		}
		if len(records) == 0 {
			stats.Empty++
			continue
		}
		outFormat := canonicalFormatFor(env.format)
		for _, rec := range records {
			payload := rec
			if t.to == formatCat21CSV {
				payload, err = toCat21CSV(rec)
				if err != nil {
					stats.Err++
					continue
				}
			}
			select {
			case out <- encodeEnvelope(outFormat, payload):
				stats.Pkts++
				stats.Bytes += uint64(len(payload))
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

func toCat21CSV(rec []byte) ([]byte, error) {
	var c core.Cat21
	if err := json.Unmarshal(rec, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrBadPacketData, err)
	}
	var buf bytes.Buffer
	if err := core.EncodeCat21CSV(&buf, c); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// copyTask is the Copy filter: forwards every envelope unchanged.
type copyTask struct{}

func newCopyTask(spec core.TaskSpec) (runtime.Runnable, error) { return &copyTask{}, nil }

func (*copyTask) Capability() core.Capability { return core.Filter }

func (*copyTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	return passThrough(ctx, in, out, stats)
}

// nothingTask is the Nothing filter: a named no-op, identical in behavior
// to Copy but kept distinct so job graphs can express "wire this stage
// through without converting or side-effecting" explicitly.
type nothingTask struct{}

func newNothingTask(spec core.TaskSpec) (runtime.Runnable, error) { return &nothingTask{}, nil }

func (*nothingTask) Capability() core.Capability { return core.Filter }

func (*nothingTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	return passThrough(ctx, in, out, stats)
}

func passThrough(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	for msg := range in {
		select {
		case out <- msg:
			stats.Pkts++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// messageTask is the Message filter: replaces every incoming record with
// a fixed literal, one literal per input consumed.
type messageTask struct {
	text string
}

func newMessageTask(spec core.TaskSpec) (runtime.Runnable, error) {
	return &messageTask{text: spec.Params["text"]}, nil
}

func (*messageTask) Capability() core.Capability { return core.Filter }

func (t *messageTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	for range in {
		select {
		case out <- encodeEnvelope(core.Format("message"), []byte(t.text)):
			stats.Pkts++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// teeTask is the Tee filter: mirrors every record's decoded payload to a
// side file, then forwards the record unchanged.
type teeTask struct {
	path string
	file *os.File
}

func newTeeTask(spec core.TaskSpec) (runtime.Runnable, error) {
	path := spec.Params["path"]
	if path == "" {
		return nil, core.ErrNoPathDefined
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf("tee task: open %q: %w", path, err)
	}
	return &teeTask{path: path, file: f}, nil
}

func (*teeTask) Capability() core.Capability { return core.Filter }

func (t *teeTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	defer t.file.Close()
	for msg := range in {
		if env, err := decodeEnvelope(msg); err == nil {
			if _, err := t.file.Write(append(append([]byte(nil), env.payload...), '\n')); err != nil {
				return fmt.Errorf("tee task: write %q: %w", t.path, err)
			}
		}
		select {
		case out <- msg:
			stats.Pkts++
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
