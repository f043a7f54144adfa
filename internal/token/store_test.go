package token

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGetRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	exp := time.Now().Add(time.Hour)
	require.NoError(t, s.Put("opensky", "secret-token", exp))

	got, err := s.Get("opensky")
	require.NoError(t, err)
	assert.Equal(t, "secret-token", got)
}

func TestGetMissing(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	_, err = s.Get("unknown")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestGetExpired(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put("opensky", "stale-token", time.Now().Add(-time.Minute)))

	_, err = s.Get("opensky")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExpired))
}

func TestDeleteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Delete("never-existed"))

	require.NoError(t, s.Put("opensky", "tok", time.Now().Add(time.Hour)))
	require.NoError(t, s.Delete("opensky"))
	require.NoError(t, s.Delete("opensky"))

	_, err = s.Get("opensky")
	require.Error(t, err)
}

func TestOnDiskFormatIs10ByteDecimalPrefix(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	exp := time.Unix(1999999999, 0)
	require.NoError(t, s.Put("asd", "abc", exp))

	data, err := os.ReadFile(s.path("asd"))
	require.NoError(t, err)
	require.Len(t, data, 10+len("abc"))
	assert.Equal(t, "1999999999", string(data[:10]))
	assert.Equal(t, "abc", string(data[10:]))
}
