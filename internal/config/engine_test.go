package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetiche/engine/internal/core"
)

func TestLoadEngineBuildsDirectoryAndHiveAreas(t *testing.T) {
	dir := t.TempDir()
	hive := t.TempDir()
	base := t.TempDir()

	path := writeHCL(t, "engine.hcl", `
version = 2
basedir = "`+base+`"

storage "archive" {
  directory {
    path     = "`+dir+`"
    rotation = "1h"
  }
}

storage "lake" {
  hive {
    path = "`+hive+`"
  }
}
`)

	eng, err := LoadEngine(path)
	require.NoError(t, err)
	assert.Equal(t, base, eng.BaseDir)
	assert.Equal(t, []string{"archive", "lake"}, eng.Storage.Names())

	area, err := eng.Storage.Get("archive")
	require.NoError(t, err)
	assert.NoError(t, area.Close())
}

func TestLoadEngineBuildsCacheArea(t *testing.T) {
	path := writeHCL(t, "engine.hcl", `
version = 2
basedir = "/tmp"

storage "hot" {
  cache {
    url = "redis://127.0.0.1:6379/0"
    ttl = "30m"
  }
}
`)

	eng, err := LoadEngine(path)
	require.NoError(t, err)
	area, err := eng.Storage.Get("hot")
	require.NoError(t, err)
	assert.NoError(t, area.Close())
}

func TestLoadEngineRejectsEmptyStorageBlock(t *testing.T) {
	path := writeHCL(t, "engine.hcl", `
version = 2
basedir = "/tmp"

storage "broken" {
}
`)

	_, err := LoadEngine(path)
	assert.Error(t, err)
}

func TestLoadEngineBadVersionRejected(t *testing.T) {
	path := writeHCL(t, "engine.hcl", `
version = 1
basedir = "/tmp"
`)

	_, err := LoadEngine(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrBadConfigVersion))
}
