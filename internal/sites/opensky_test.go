package sites

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetiche/engine/internal/core"
)

func newOpenskySite(t *testing.T, srv *httptest.Server) *openskySite {
	t.Helper()
	site := core.Site{
		Name:    "opensky",
		Format:  core.FormatOpensky,
		BaseURL: srv.URL,
		Routes:  core.Routes{Fetch: "/states/own"},
	}
	f, s, err := newOpensky(site)
	require.NoError(t, err)
	require.NotNil(t, f)
	require.NotNil(t, s)
	return s.(*openskySite)
}

// TestOpenskyStreamSkipsDuplicateStateLists implements the original
// source's caching note: two StateLists sharing the same time are the
// same list, so the second poll's duplicate must not reach out.
func TestOpenskyStreamSkipsDuplicateStateLists(t *testing.T) {
	var polls atomic.Int64
	bodies := []string{
		`{"time":100,"states":[]}`,
		`{"time":100,"states":[]}`,
		`{"time":200,"states":[]}`,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/states/own", func(w http.ResponseWriter, r *http.Request) {
		n := polls.Add(1) - 1
		if int(n) >= len(bodies) {
			n = int64(len(bodies)) - 1
		}
		w.Write([]byte(bodies[n]))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newOpenskySite(t, srv)
	s.pollInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan []byte, 8)
	stats := &core.Stats{}

	done := make(chan error, 1)
	go func() { done <- s.Stream(ctx, out, stats) }()

	var received []string
	require.Eventually(t, func() bool {
		for {
			select {
			case b := <-out:
				received = append(received, string(b))
			default:
				return len(received) >= 2
			}
		}
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	assert.Equal(t, []string{`{"time":100,"states":[]}`, `{"time":200,"states":[]}`}, received)
	assert.GreaterOrEqual(t, stats.Empty, uint64(1))
}
