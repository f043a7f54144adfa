// Package token persists per-source authentication tokens with expiry,
// one file per source, so a token survives process restart and is shared
// across any job that authenticates against the same source.
package token

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// expiryWidth is the fixed width of the zero-padded decimal Unix-seconds
// expiry prefix every on-disk token carries (spec.md §9 Open Question 2:
// resolved as 10-byte decimal expiry + opaque value).
const expiryWidth = 10

// Store persists tokens as individual files under a directory. Writes use
// temp-file + atomic rename, grounded on internal/task/store.go's
// FileTaskStore, adapted from one-JSON-file-per-task to one
// fixed-prefix-binary-file-per-source.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("token store: create directory %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Put writes value for site with the given expiry, overwriting any prior
// token for that site.
func (s *Store) Put(site string, value string, expiresAt time.Time) error {
	prefix := fmt.Sprintf("%0*d", expiryWidth, expiresAt.Unix())
	if len(prefix) != expiryWidth {
		return fmt.Errorf("token store: expiry %d overflows %d-byte prefix", expiresAt.Unix(), expiryWidth)
	}
	data := []byte(prefix + value)

	tmp, err := os.CreateTemp(s.dir, "."+site+".*.tmp")
	if err != nil {
		return fmt.Errorf("token store: create temp file for %q: %w", site, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("token store: write temp file for %q: %w", site, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("token store: close temp file for %q: %w", site, err)
	}
	if err := os.Rename(tmpName, s.path(site)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("token store: rename into place for %q: %w", site, err)
	}
	return nil
}

// ErrExpired is returned by Get when a token exists on disk but its expiry
// has passed; the caller (internal/sites' authenticate helper) treats this
// the same as a cache miss and re-authenticates.
var ErrExpired = errors.New("token store: token expired")

// Get reads the cached token for site. Returns os.ErrNotExist (via
// errors.Is) when no token has ever been stored, and ErrExpired when the
// stored token's expiry has passed.
func (s *Store) Get(site string) (string, error) {
	data, err := os.ReadFile(s.path(site))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("token store: %q: %w", site, os.ErrNotExist)
		}
		return "", fmt.Errorf("token store: read %q: %w", site, err)
	}
	if len(data) < expiryWidth {
		return "", fmt.Errorf("token store: %q: truncated token file", site)
	}
	expSecs, err := strconv.ParseInt(string(data[:expiryWidth]), 10, 64)
	if err != nil {
		return "", fmt.Errorf("token store: %q: bad expiry prefix: %w", site, err)
	}
	value := string(data[expiryWidth:])
	if time.Now().After(time.Unix(expSecs, 0)) {
		return value, ErrExpired
	}
	return value, nil
}

// Delete removes the cached token for site, if any.
func (s *Store) Delete(site string) error {
	err := os.Remove(s.path(site))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("token store: delete %q: %w", site, err)
	}
	return nil
}

func (s *Store) path(site string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(site, string(filepath.Separator), "_")+".tok")
}
