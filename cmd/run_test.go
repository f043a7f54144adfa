package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetiche/engine/internal/core"
)

func writeConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "sources.hcl"), []byte(`
version = 3

site "local" {
  type     = "dronepoint"
  base_url = "http://127.0.0.1:9000"
  format   = "dronepoint"
}
`), 0o640))

	storageDir := filepath.Join(dir, "archive")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "engine.hcl"), []byte(`
version = 2
basedir = "`+dir+`"

storage "archive" {
  directory {
    path     = "`+storageDir+`"
    rotation = "1h"
  }
}
`), 0o640))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "databases.hcl"), []byte(`
version = 1
`), 0o640))

	return dir
}

func TestRunJobEndToEnd(t *testing.T) {
	cfgDir := writeConfigDir(t)

	dataDir := t.TempDir()
	in := filepath.Join(dataDir, "in.ndjson")
	out := filepath.Join(dataDir, "out.ndjson")
	record := `{"sac":1,"sic":2,"aircraft_addr":"abc","callsign":"CLI1","latitude":1,"longitude":2,"alt_geo_ft":3,"alt_baro_ft":4,"ground_speed_kt":5,"track_angle":6,"time_of_day":"2026-07-29T10:00:00Z","emitter_category":1,"on_ground":false}`
	require.NoError(t, os.WriteFile(in, []byte(record+"\n"), 0o640))

	jf := jobFile{
		Name: "cli-job",
		Tasks: []core.TaskSpec{
			{Kind: "Read", Capability: core.Producer, Params: map[string]string{"path": in, "format": "cat21"}},
			{Kind: "Save", Capability: core.Consumer, Params: map[string]string{"path": out}},
		},
	}
	jobData, err := json.Marshal(jf)
	require.NoError(t, err)
	jobPath := filepath.Join(dataDir, "job.json")
	require.NoError(t, os.WriteFile(jobPath, jobData, 0o640))

	var buf bytes.Buffer
	err = runJob(context.Background(), cfgDir, jobPath, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "pkts=1")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CLI1")
}
