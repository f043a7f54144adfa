package job

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/runtime"
	"github.com/fetiche/engine/internal/sites"
)

// fetchTask is the Fetch producer: one bounded request against a
// registered site, decoded into canonical records. Grounded on spec.md
// §8 scenario 2 (Opensky fetch) and the source subsystem's Fetchable
// capability interface.
type fetchTask struct {
	site   core.Site
	fetch  sites.Fetchable
	filter string
}

func newFetchTask(d Dependencies, spec core.TaskSpec) (runtime.Runnable, error) {
	name := spec.Params["site"]
	if name == "" {
		return nil, fmt.Errorf("fetch task: %w", core.ErrNoSiteDefined)
	}
	site, err := d.SiteOf(name)
	if err != nil {
		return nil, fmt.Errorf("fetch task %q: %w", name, err)
	}
	fetchable, _, err := d.Sites.Build(site)
	if err != nil {
		return nil, fmt.Errorf("fetch task %q: %w", name, err)
	}
	if fetchable == nil {
		return nil, &core.NotFetchable{Name: name}
	}
	return &fetchTask{site: site, fetch: fetchable, filter: spec.Params["filter"]}, nil
}

func (t *fetchTask) Capability() core.Capability { return core.Producer }

// Execute issues one fetch, retrying exactly once on core.ErrAuthExpired
// per spec.md §8's "≤ 1 + number of Expired responses" bound, then decodes
// and forwards every resulting canonical record.
func (t *fetchTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	blobs, err := t.fetch.Fetch(ctx, t.filter)
	if errors.Is(err, core.ErrAuthExpired) {
		blobs, err = t.fetch.Fetch(ctx, t.filter)
	}
	if err != nil {
		return fmt.Errorf("fetch %s: %w", t.site.Name, err)
	}
	for _, blob := range blobs {
		if err := emitDecoded(ctx, out, stats, t.site.Format, blob); err != nil {
			return err
		}
	}
	return nil
}

// streamTask is the Stream producer: a long-lived session whose
// adapter owns reconnection (internal/sites' reconnectLoop). Stats.Reconnect
// is incremented by the adapter itself, not here.
type streamTask struct {
	site   core.Site
	stream sites.Streamable
}

func newStreamTask(d Dependencies, spec core.TaskSpec) (runtime.Runnable, error) {
	name := spec.Params["site"]
	if name == "" {
		return nil, fmt.Errorf("stream task: %w", core.ErrNoSiteDefined)
	}
	site, err := d.SiteOf(name)
	if err != nil {
		return nil, fmt.Errorf("stream task %q: %w", name, err)
	}
	_, streamable, err := d.Sites.Build(site)
	if err != nil {
		return nil, fmt.Errorf("stream task %q: %w", name, err)
	}
	if streamable == nil {
		return nil, &core.NotStreamable{Name: name}
	}
	return &streamTask{site: site, stream: streamable}, nil
}

func (t *streamTask) Capability() core.Capability { return core.Producer }

func (t *streamTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	raw := make(chan []byte, runtime.BufferSize(core.Producer, true))
	errCh := make(chan error, 1)
	go func() {
		defer close(raw)
		errCh <- t.stream.Stream(ctx, raw, stats)
	}()

	for blob := range raw {
		if err := emitDecoded(ctx, out, stats, t.site.Format, blob); err != nil {
			return err
		}
	}
	return <-errCh
}

// readTask is the Read producer: a local file, line- (or CSV-row-)
// delimited per format, used by fixture jobs and tests, per spec.md §8
// scenario 1.
type readTask struct {
	path   string
	format core.Format
}

func newReadTask(spec core.TaskSpec) (runtime.Runnable, error) {
	path := spec.Params["path"]
	if path == "" {
		return nil, core.ErrUninitialisedRead
	}
	format := core.Format(spec.Params["format"])
	if format == "" {
		format = core.FormatCat21
	}
	return &readTask{path: path, format: format}, nil
}

func (t *readTask) Capability() core.Capability { return core.Producer }

func (t *readTask) Execute(ctx context.Context, in <-chan string, out chan<- string, stats *core.Stats) error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", t.path, err)
	}
	defer f.Close()

	if t.format == core.FormatAeroscope {
		return t.readAeroscopeCSV(ctx, f, out, stats)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if err := emitDecoded(ctx, out, stats, t.format, append([]byte(nil), line...)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (t *readTask) readAeroscopeCSV(ctx context.Context, f *os.File, out chan<- string, stats *core.Stats) error {
	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", t.path, err)
		}
		var buf bytes.Buffer
		cw := csv.NewWriter(&buf)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("read %s: %w", t.path, err)
		}
		cw.Flush()
		if err := emitDecoded(ctx, out, stats, t.format, bytes.TrimRight(buf.Bytes(), "\n")); err != nil {
			return err
		}
	}
}

// emitDecoded decodes raw (in format) into its canonical record(s) and
// pushes each one onto out as an envelope. A decode error drops the
// single record and counts it in stats.Err rather than failing the whole
// task, per spec.md §5's "a malformed record is dropped, not fatal" rule.
func emitDecoded(ctx context.Context, out chan<- string, stats *core.Stats, format core.Format, raw []byte) error {
	records, err := decodeVendorToCanonicalJSON(format, raw)
	if err != nil {
		stats.Err++
		return nil
	}
	if len(records) == 0 {
		stats.Empty++
		return nil
	}
	canonical := canonicalFormatFor(format)
	for _, rec := range records {
		select {
		case out <- encodeEnvelope(canonical, rec):
			stats.Pkts++
			stats.Bytes += uint64(len(raw))
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
