package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DirectoryArea writes `<path>/<tag>-<yyyyMMddHH>` files, rotating onto a
// new file when the rotation boundary (spec.md §4.5 grammar) is crossed.
// Each tag gets its own open *os.File so concurrent Store tasks for
// different tags never contend, matching spec.md §5's "each file is
// written by at most one Store task at a time" rule (enforced here by
// giving each tag its own mutex instead of a single registry-wide lock).
type DirectoryArea struct {
	path     string
	rotation time.Duration

	mu      sync.Mutex
	writers map[string]*rotatingWriter
}

type rotatingWriter struct {
	mu       sync.Mutex
	file     *os.File
	openedAt time.Time
}

// NewDirectoryArea returns a DirectoryArea rooted at path, creating it if
// necessary, rotating each tag's file every rotation.
func NewDirectoryArea(path string, rotation time.Duration) (*DirectoryArea, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("directory area: create %q: %w", path, err)
	}
	return &DirectoryArea{path: path, rotation: rotation, writers: make(map[string]*rotatingWriter)}, nil
}

// Write appends payload (plus a trailing newline) to tag's current file,
// rotating first if the rotation boundary has passed. A single write() of
// a newline-terminated line is assumed atomic up to page size, per
// spec.md §4.6's filesystem layout invariant.
func (a *DirectoryArea) Write(ctx context.Context, tag string, payload []byte) error {
	w := a.writerFor(tag)
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil || time.Since(w.openedAt) >= a.rotation {
		if w.file != nil {
			_ = w.file.Close()
		}
		name := fmt.Sprintf("%s-%s", tag, time.Now().Format("2006010215"))
		f, err := os.OpenFile(filepath.Join(a.path, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err != nil {
			return fmt.Errorf("directory area: open %q: %w", name, err)
		}
		w.file = f
		w.openedAt = time.Now()
	}

	line := append(append([]byte(nil), payload...), '\n')
	if _, err := w.file.Write(line); err != nil {
		return fmt.Errorf("directory area: write %q: %w", tag, err)
	}
	return nil
}

func (a *DirectoryArea) writerFor(tag string) *rotatingWriter {
	a.mu.Lock()
	defer a.mu.Unlock()
	w, ok := a.writers[tag]
	if !ok {
		w = &rotatingWriter{}
		a.writers[tag] = w
	}
	return w
}

// Close closes every tag's open file.
func (a *DirectoryArea) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	var first error
	for tag, w := range a.writers {
		w.mu.Lock()
		if w.file != nil {
			if err := w.file.Close(); err != nil && first == nil {
				first = fmt.Errorf("directory area: close %q: %w", tag, err)
			}
		}
		w.mu.Unlock()
	}
	return first
}
