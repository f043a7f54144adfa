package sites

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fetiche/engine/internal/core"
)

// safeskySite is the Fetchable-only adapter for the Safesky `/v1/beacons`
// endpoint, grounded on
// original_source/format-specs/src/input/safesky.rs's doc comment
// ("implements the Fetchable trait").
type safeskySite struct {
	site   core.Site
	client *resty.Client
}

func newSafesky(site core.Site) (Fetchable, Streamable, error) {
	if site.BaseURL == "" {
		return nil, nil, fmt.Errorf("safesky: %w", core.ErrNoSiteDefined)
	}
	c := resty.New().SetBaseURL(site.BaseURL).SetTimeout(30 * time.Second)
	return &safeskySite{site: site, client: c}, nil, nil
}

func (s *safeskySite) Fetch(ctx context.Context, filter string) ([][]byte, error) {
	return fetchAuthenticatedJSON(ctx, s.client, s.site, filter)
}
