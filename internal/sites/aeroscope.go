package sites

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fetiche/engine/internal/core"
)

// aeroscopeSite is the Fetchable-only adapter for the Aeroscope CSV export
// endpoint, grounded on
// original_source/format-specs/src/input/aeroscope.rs.
type aeroscopeSite struct {
	site   core.Site
	client *resty.Client
}

func newAeroscope(site core.Site) (Fetchable, Streamable, error) {
	if site.BaseURL == "" {
		return nil, nil, fmt.Errorf("aeroscope: %w", core.ErrNoSiteDefined)
	}
	c := resty.New().SetBaseURL(site.BaseURL).SetTimeout(30 * time.Second)
	return &aeroscopeSite{site: site, client: c}, nil, nil
}

func (s *aeroscopeSite) Fetch(ctx context.Context, filter string) ([][]byte, error) {
	return fetchAuthenticatedJSON(ctx, s.client, s.site, filter)
}
