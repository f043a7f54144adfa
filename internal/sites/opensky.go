package sites

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fetiche/engine/internal/codec"
	"github.com/fetiche/engine/internal/core"
)

// openskyPollInterval is how often Stream repolls /states/own, matching
// original_source/engine/src/sources/access/opensky/mod.rs's CACHE_IDLE.
const openskyPollInterval = 20 * time.Second

// openskySite is the Fetchable and Streamable adapter for the Opensky REST
// API, grounded on original_source/src/site/opensky.rs and
// original_source/engine/src/sources/access/opensky/mod.rs. resty is the
// HTTP client the wider example pack depends on for JSON REST calls.
type openskySite struct {
	site   core.Site
	client *resty.Client

	pollInterval time.Duration // overridden in tests; defaults to openskyPollInterval
}

func newOpensky(site core.Site) (Fetchable, Streamable, error) {
	if site.BaseURL == "" {
		return nil, nil, fmt.Errorf("opensky: %w", core.ErrNoSiteDefined)
	}
	c := resty.New().SetBaseURL(site.BaseURL).SetTimeout(30 * time.Second)
	s := &openskySite{site: site, client: c, pollInterval: openskyPollInterval}
	return s, s, nil
}

// Fetch performs one GET against the configured route (/states/own), basic
// auth supplied when the site's Auth is an AuthLogin. filter is appended as
// a raw query string (e.g. a time window) when non-empty.
func (s *openskySite) Fetch(ctx context.Context, filter string) ([][]byte, error) {
	route := s.site.Routes.Fetch
	if route == "" {
		route = "/states/own"
	}

	req := s.client.R().SetContext(ctx)
	if login, ok := s.site.Auth.(core.AuthLogin); ok {
		req = req.SetBasicAuth(login.Username, login.Password)
	}
	if filter != "" {
		req = req.SetQueryString(filter)
	}

	resp, err := req.Get(route)
	if err != nil {
		return nil, fmt.Errorf("opensky: %w: %v", core.ErrAuthHTTP, err)
	}
	if resp.StatusCode() == 401 {
		return nil, core.ErrAuthExpired
	}
	if resp.IsError() {
		return nil, fmt.Errorf("opensky: %w: status %d", core.ErrAuthHTTP, resp.StatusCode())
	}

	return [][]byte{resp.Body()}, nil
}

// Stream repolls the fetch route on openskyPollInterval and forwards each
// response whose StateList.time differs from the last one seen: the
// original source's caching note is "if two StateLists have the same
// time, they are the same", so a repeated time is a skippable duplicate
// rather than a new record (counted as stats.Empty, matching that field's
// existing opensky-specific doc comment). reconnectLoop supplies the
// retry/backoff policy should a poll fail outright.
func (s *openskySite) Stream(ctx context.Context, out chan<- []byte, stats *core.Stats) error {
	return reconnectLoop(ctx, stats, func(ctx context.Context) error {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		var lastTime int64
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}

			blobs, err := s.Fetch(ctx, "")
			if err != nil {
				return fmt.Errorf("opensky: poll: %w", err)
			}
			for _, blob := range blobs {
				var states codec.OpenskyStates
				if err := json.Unmarshal(blob, &states); err != nil {
					return fmt.Errorf("opensky: poll: %w: %v", core.ErrBadPacketData, err)
				}
				if states.Time == lastTime {
					stats.Empty++
					continue
				}
				lastTime = states.Time

				select {
				case out <- blob:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	})
}
