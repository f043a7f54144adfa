package sites

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/token"
)

func newASDSite(t *testing.T, srv *httptest.Server) *asdSite {
	t.Helper()
	store, err := token.New(filepath.Join(t.TempDir(), "tokens"))
	require.NoError(t, err)

	site := core.Site{
		Name:    "asd",
		Format:  core.FormatAsd,
		BaseURL: srv.URL,
		Auth:    core.AuthToken{Login: "user@example.net", Password: "secret"},
		Routes:  core.Routes{Fetch: "/get/live", Token: "/login"},
	}
	f, s, err := newASDFactory(store)(site)
	require.NoError(t, err)
	require.Nil(t, s)
	return f.(*asdSite)
}

// TestASDFetchAuthenticatesOncePerToken implements spec.md §8 scenario 2's
// "on first call, exactly one POST to token endpoint; on second within
// token lifetime, zero additional POSTs."
func TestASDFetchAuthenticatesOncePerToken(t *testing.T) {
	var tokenPosts, dataGets atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		tokenPosts.Add(1)
		_ = json.NewEncoder(w).Encode(asdToken{Token: "tok-1", ExpiredAt: 0})
	})
	mux.HandleFunc("/get/live", func(w http.ResponseWriter, r *http.Request) {
		dataGets.Add(1)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newASDSite(t, srv)

	_, err := s.Fetch(t.Context(), "")
	require.NoError(t, err)
	_, err = s.Fetch(t.Context(), "")
	require.NoError(t, err)

	assert.Equal(t, int64(1), tokenPosts.Load())
	assert.Equal(t, int64(2), dataGets.Load())
}

// TestASDFetchRefreshesTokenOnExpired implements spec.md §8 scenario 6:
// inject an Expired response once; the fetchable issues exactly 2 token
// POSTs and 2 data GETs, recovering on the caller's retry.
func TestASDFetchRefreshesTokenOnExpired(t *testing.T) {
	var tokenPosts, dataGets atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		n := tokenPosts.Add(1)
		_ = json.NewEncoder(w).Encode(asdToken{Token: "tok-" + strconv.FormatInt(n, 10), ExpiredAt: 0})
	})
	mux.HandleFunc("/get/live", func(w http.ResponseWriter, r *http.Request) {
		n := dataGets.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "Bearer tok-2", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := newASDSite(t, srv)

	_, err := s.Fetch(t.Context(), "")
	assert.ErrorIs(t, err, core.ErrAuthExpired)

	_, err = s.Fetch(t.Context(), "")
	require.NoError(t, err)

	assert.Equal(t, int64(2), tokenPosts.Load())
	assert.Equal(t, int64(2), dataGets.Load())
}
