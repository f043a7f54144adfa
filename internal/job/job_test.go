package job

import (
	"context"
	"errors"
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
)

var errSiteNotFound = errors.New("job test: site not found")

func testDeps(t *testing.T) Dependencies {
	t.Helper()
	return Dependencies{
		Sites:   sites.NewRegistry(),
		Storage: storage.NewRegistry(),
		SiteOf: func(name string) (core.Site, error) {
			return core.Site{}, errSiteNotFound
		},
	}
}

func TestJobValidateNoFirstProducer(t *testing.T) {
	j := New(1, "bad", testDeps(t))
	require.NoError(t, j.Add(core.TaskSpec{Kind: "Save", Capability: core.Consumer, Params: map[string]string{"path": "x"}}))

	_, err := j.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrNoFirstProducer)
	assert.Equal(t, core.StateFailed, j.State())
}

func TestJobValidateNoLastConsumer(t *testing.T) {
	j := New(2, "bad", testDeps(t))
	require.NoError(t, j.Add(core.TaskSpec{Kind: "Read", Capability: core.Producer, Params: map[string]string{"path": "x"}}))
	require.NoError(t, j.Add(core.TaskSpec{Kind: "Read", Capability: core.Producer, Params: map[string]string{"path": "y"}}))

	_, err := j.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrNoLastConsumer)
}

func TestJobValidateIntermediateProducerRejected(t *testing.T) {
	j := New(3, "bad", testDeps(t))
	require.NoError(t, j.Add(core.TaskSpec{Kind: "Read", Capability: core.Producer, Params: map[string]string{"path": "x"}}))
	require.NoError(t, j.Add(core.TaskSpec{Kind: "Read", Capability: core.Producer, Params: map[string]string{"path": "y"}}))
	require.NoError(t, j.Add(core.TaskSpec{Kind: "Stdout", Capability: core.Consumer}))

	_, err := j.Run(context.Background())
	require.Error(t, err)
}

// TestJobReadConvertSaveEndToEnd implements spec.md §8 scenario 1: convert
// a local Aeroscope CSV to Cat-21 JSON.
func TestJobReadConvertSaveEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.json")

	rows := []string{
		aeroscopeRow("drone1", "flight1", "48.85", "2.35", "100", "5"),
		aeroscopeRow("drone2", "flight2", "48.86", "2.36", "120", "6"),
		aeroscopeRow("drone3", "flight3", "48.87", "2.37", "140", "7"),
	}
	require.NoError(t, os.WriteFile(in, []byte(joinLines(rows)), 0o640))

	j := New(10, "convert-local", testDeps(t))
	require.NoError(t, j.Add(core.TaskSpec{
		Kind: "Read", Capability: core.Producer,
		Params: map[string]string{"path": in, "format": string(core.FormatAeroscope)},
	}))
	require.NoError(t, j.Add(core.TaskSpec{
		Kind: "Convert", Capability: core.Filter,
		Params: map[string]string{"to": string(core.FormatCat21)},
	}))
	require.NoError(t, j.Add(core.TaskSpec{
		Kind: "Save", Capability: core.Consumer,
		Params: map[string]string{"path": out},
	}))

	stats, err := j.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(3), stats.Pkts)
	assert.Equal(t, core.StateCompleted, j.State())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := nonEmptyLines(string(data))
	assert.Len(t, lines, 3)
	for _, line := range lines {
		assert.Contains(t, line, `"callsign"`)
	}
}

// TestJobRunForwardsStatsToActor implements spec.md §2's "Stats are
// written out-of-band to the stats actor" for a job whose Dependencies
// name one: each task's finished Stats should land under its own tag
// rather than only in the aggregate value Run returns.
func TestJobRunForwardsStatsToActor(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.json")
	require.NoError(t, os.WriteFile(in, []byte(joinLines([]string{
		aeroscopeRow("drone1", "flight1", "48.85", "2.35", "100", "5"),
	})), 0o640))

	a := actor.NewStatsActor(8, nil)
	go a.Run()

	deps := testDeps(t)
	deps.Stats = a.Mailbox()

	j := New(20, "stats-forward", deps)
	require.NoError(t, j.Add(core.TaskSpec{
		Kind: "Read", Capability: core.Producer,
		Params: map[string]string{"path": in, "format": string(core.FormatAeroscope)},
	}))
	require.NoError(t, j.Add(core.TaskSpec{Kind: "Convert", Capability: core.Filter}))
	require.NoError(t, j.Add(core.TaskSpec{
		Kind: "Save", Capability: core.Consumer,
		Params: map[string]string{"path": out},
	}))

	_, err := j.Run(context.Background())
	require.NoError(t, err)

	reply := make(chan core.Stats, 1)
	a.Mailbox() <- actor.StatsMsg{Kind: actor.StatsGet, Tag: "Read", Reply: reply}
	assert.Equal(t, uint64(1), (<-reply).Pkts)
}

func TestJobCancelStopsRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	require.NoError(t, os.WriteFile(in, []byte(joinLines([]string{
		aeroscopeRow("drone1", "flight1", "48.85", "2.35", "100", "5"),
	})), 0o640))

	j := New(11, "cancel-me", testDeps(t))
	require.NoError(t, j.Add(core.TaskSpec{Kind: "Read", Capability: core.Producer, Params: map[string]string{"path": in, "format": string(core.FormatAeroscope)}}))
	require.NoError(t, j.Add(core.TaskSpec{Kind: "Convert", Capability: core.Filter}))
	require.NoError(t, j.Add(core.TaskSpec{Kind: "Stdout", Capability: core.Consumer}))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _ = j.Run(ctx)
}

func TestJobAddRejectedOnceRunning(t *testing.T) {
	j := New(12, "locked", testDeps(t))
	j.meta.State = core.StateRunning
	err := j.Add(core.TaskSpec{Kind: "Nothing", Capability: core.Filter})
	assert.ErrorIs(t, err, core.ErrJobIsRunning)
}

// aeroscopeRow builds one 17-field CSV row in the exact column order
// internal/codec.DecodeAeroscopeCSV expects (aeroscope_id, aeroscope_lat,
// aeroscope_lon, altitude, azimuth, coordinate_lat, coordinate_lon,
// distance, drone_id, drone_type, flight_id, home_lat, home_lon,
// pilot_lat, pilot_lon, receive_date, speed).
func aeroscopeRow(droneID, flightID, lat, lon, alt, speed string) string {
	fields := []string{
		"antenna1", "48.80", "2.30", alt, "0", lat, lon, "0",
		droneID, "quad", flightID, "0", "0", "0", "0",
		"2026-07-29 10:00:00", speed,
	}
	return strings.Join(fields, ",")
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

func nonEmptyLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	return lines
}
