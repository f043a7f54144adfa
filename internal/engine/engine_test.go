package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetiche/engine/internal/actor"
	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/sites"
	"github.com/fetiche/engine/internal/storage"
	"github.com/fetiche/engine/internal/token"
)

func newTestEngine(t *testing.T, sitesByName map[string]core.Site) *Engine {
	t.Helper()
	dir := t.TempDir()
	tokens, err := token.New(filepath.Join(dir, "tokens"))
	require.NoError(t, err)
	siteReg := sites.NewRegistry()
	sites.RegisterBuiltins(siteReg, tokens)

	e, err := New(Config{
		BaseDir:   dir,
		Sites:     sitesByName,
		StatePath: filepath.Join(dir, "state.json"),
	}, siteReg, storage.NewRegistry())
	require.NoError(t, err)
	return e
}

func cat21Line(callsign string) string {
	return `{"sac":1,"sic":2,"aircraft_addr":"abc123","callsign":"` + callsign +
		`","latitude":50.1,"longitude":4.2,"alt_geo_ft":1000,"alt_baro_ft":990,` +
		`"ground_speed_kt":120,"track_angle":90,"time_of_day":"2026-07-29T10:00:00Z",` +
		`"emitter_category":3,"on_ground":false}`
}

func TestEngineSubmitReadSaveEndToEnd(t *testing.T) {
	e := newTestEngine(t, nil)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.ndjson")
	out := filepath.Join(dir, "out.ndjson")
	content := cat21Line("KLM123") + "\n" + cat21Line("KLM124") + "\n"
	require.NoError(t, os.WriteFile(in, []byte(content), 0o640))

	j := e.CreateJob("ingest")
	require.NoError(t, j.Add(core.TaskSpec{
		Kind: "Read", Capability: core.Producer,
		Params: map[string]string{"path": in, "format": "cat21"},
	}))
	require.NoError(t, j.Add(core.TaskSpec{
		Kind: "Save", Capability: core.Consumer,
		Params: map[string]string{"path": out},
	}))

	stats, err := e.Submit(context.Background(), j)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), stats.Pkts)
	assert.Equal(t, core.StateCompleted, j.State())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "KLM123")
}

func TestEngineListSourcesSorted(t *testing.T) {
	e := newTestEngine(t, map[string]core.Site{
		"zeta":  {Name: "zeta", Format: core.FormatOpensky},
		"alpha": {Name: "alpha", Format: core.FormatSafesky},
	})
	assert.Equal(t, []string{"alpha", "zeta"}, e.ListSources())
}

func TestEngineVersionsIncludesEngineAndFormats(t *testing.T) {
	e := newTestEngine(t, nil)
	versions := e.Versions()
	assert.Equal(t, "0.1.0", versions["engine"])
	assert.Contains(t, versions, "opensky")
	assert.Contains(t, versions, "aeroscope")
}

func TestEngineScheduleDispatchesOnTick(t *testing.T) {
	e := newTestEngine(t, nil)

	dir := t.TempDir()
	in := filepath.Join(dir, "in.ndjson")
	out := filepath.Join(dir, "out.ndjson")
	require.NoError(t, os.WriteFile(in, []byte(cat21Line("SCHED1")+"\n"), 0o640))

	j := e.CreateJob("scheduled")
	require.NoError(t, j.Add(core.TaskSpec{
		Kind: "Read", Capability: core.Producer,
		Params: map[string]string{"path": in, "format": "cat21"},
	}))
	require.NoError(t, j.Add(core.TaskSpec{
		Kind: "Save", Capability: core.Consumer,
		Params: map[string]string{"path": out},
	}))

	id := e.Schedule(j, actor.When{Once: time.Now().Add(-time.Second)})
	assert.Equal(t, int(j.ID()), id)
	e.Tick()

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && strings.Contains(string(data), "SCHED1")
	}, 2*time.Second, 20*time.Millisecond)
}

func TestEngineSiteOfReportsSiteNotFound(t *testing.T) {
	e := newTestEngine(t, nil)
	_, err := e.siteOf("missing")
	assert.ErrorIs(t, err, core.ErrSiteNotFound)
}
