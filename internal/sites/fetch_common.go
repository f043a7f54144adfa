package sites

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/fetiche/engine/internal/core"
)

// fetchAuthenticatedJSON performs one GET against site's configured fetch
// route, attaching whatever credential site.Auth carries (an API key
// header for AuthKey, HTTP basic auth for AuthLogin, nothing for AuthAnon),
// and returns the raw response body as a single-element slice. Shared by
// the Safesky and Aeroscope adapters, which need no token-exchange round
// trip; ASD goes through authenticate and its own request instead.
func fetchAuthenticatedJSON(ctx context.Context, client *resty.Client, site core.Site, filter string) ([][]byte, error) {
	route := site.Routes.Fetch
	if route == "" {
		return nil, fmt.Errorf("%s: %w", site.Name, core.ErrNoPathDefined)
	}

	req := client.R().SetContext(ctx)
	switch auth := site.Auth.(type) {
	case core.AuthKey:
		req = req.SetHeader("X-Api-Key", auth.APIKey)
	case core.AuthLogin:
		req = req.SetBasicAuth(auth.Username, auth.Password)
	case core.AuthAnon:
		// no credential to attach
	default:
		// AuthToken sites go through authenticate(); callers that reach
		// here with one have a bug in their adapter, not a runtime error.
	}
	if filter != "" {
		req = req.SetQueryString(filter)
	}

	resp, err := req.Get(route)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", site.Name, core.ErrAuthHTTP, err)
	}
	if resp.StatusCode() == 401 {
		return nil, core.ErrAuthExpired
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s: %w: status %d", site.Name, core.ErrAuthHTTP, resp.StatusCode())
	}
	return [][]byte{resp.Body()}, nil
}
