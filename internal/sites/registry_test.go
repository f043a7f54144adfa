package sites

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetiche/engine/internal/core"
)

type stubFetchable struct{}

func (stubFetchable) Fetch(ctx context.Context, filter string) ([][]byte, error) {
	return [][]byte{[]byte(filter)}, nil
}

func TestRegistryBuildResolvesByFormat(t *testing.T) {
	r := NewRegistry()
	r.Register("stub", func(site core.Site) (Fetchable, Streamable, error) {
		return stubFetchable{}, nil, nil
	})

	site := core.Site{Name: "s1", Format: "stub"}
	f, s, err := r.Build(site)
	require.NoError(t, err)
	assert.NotNil(t, f)
	assert.Nil(t, s)
}

func TestRegistryBuildUnknownFormat(t *testing.T) {
	r := NewRegistry()
	_, _, err := r.Build(core.Site{Name: "s1", Format: "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrPluginNotFound)
}

func TestRegistryRegisterDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	factory := func(site core.Site) (Fetchable, Streamable, error) { return nil, nil, nil }
	r.Register("dup", factory)
	assert.Panics(t, func() { r.Register("dup", factory) })
}

func TestRegisterBuiltinsCoversAllSevenVendors(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r, nil)
	assert.ElementsMatch(t, []string{
		"aeroscope", "asd", "avionix", "flightaware", "opensky", "safesky", "senhive",
	}, r.Types())
}
