package sites

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/token"
)

// asdToken is the token route's response shape, grounded on
// original_source/sources/src/access/asd/token.rs's AsdToken struct (kept
// to its two fields this module needs; the rest — roles, name, homepage,
// ... — are account metadata ASD returns but this module never reads).
type asdToken struct {
	Token     string `json:"token"`
	ExpiredAt int64  `json:"expiredAt"`
}

// asdDefaultExpiry is used when the token route omits expiredAt, per
// spec.md §4.3's "expiry derived from server response or default 3600s".
const asdDefaultExpiry = 3600 * time.Second

// asdSite is the Fetchable-only adapter for the ASD drone-tracking REST
// API, grounded on original_source/sources/src/access/asd. No stream route
// is declared in its registry entry (spec.md §6). Authenticates via
// login/password exchanged for a cached bearer token (core.AuthToken),
// using the shared authenticate() helper rather than fetchAuthenticatedJSON
// (which only attaches AuthKey/AuthLogin/AuthAnon credentials).
type asdSite struct {
	site   core.Site
	client *resty.Client
	tokens *token.Store

	mu           sync.Mutex
	forceRefresh bool // set on a 401, consumed by the next Fetch call
}

func newASDFactory(tokens *token.Store) Factory {
	return func(site core.Site) (Fetchable, Streamable, error) {
		if site.BaseURL == "" {
			return nil, nil, fmt.Errorf("asd: %w", core.ErrNoSiteDefined)
		}
		c := resty.New().SetBaseURL(site.BaseURL).SetTimeout(30 * time.Second)
		return &asdSite{site: site, client: c, tokens: tokens}, nil, nil
	}
}

// Fetch authenticates (using a cached token unless the previous call saw a
// 401) and issues one bearer-authenticated GET against the fetch route. A
// 401 response sets forceRefresh and returns core.ErrAuthExpired, so the
// caller's retry-once policy (internal/job's fetchTask.Execute) gets a
// freshly-issued token on its next Fetch call, per spec.md §8 scenario 6
// ("exactly 2 token POSTs and 2 data GETs").
func (s *asdSite) Fetch(ctx context.Context, filter string) ([][]byte, error) {
	route := s.site.Routes.Fetch
	if route == "" {
		return nil, fmt.Errorf("%s: %w", s.site.Name, core.ErrNoPathDefined)
	}

	s.mu.Lock()
	refresh := s.forceRefresh
	s.forceRefresh = false
	s.mu.Unlock()

	bearer, err := authenticate(ctx, s.tokens, s.site, refresh, s.fetchToken)
	if err != nil {
		return nil, err
	}

	req := s.client.R().SetContext(ctx).SetAuthToken(bearer)
	if filter != "" {
		req = req.SetQueryString(filter)
	}
	resp, err := req.Get(route)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", s.site.Name, core.ErrAuthHTTP, err)
	}
	if resp.StatusCode() == 401 {
		s.mu.Lock()
		s.forceRefresh = true
		s.mu.Unlock()
		return nil, core.ErrAuthExpired
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s: %w: status %d", s.site.Name, core.ErrAuthHTTP, resp.StatusCode())
	}
	return [][]byte{resp.Body()}, nil
}

// fetchToken is asdSite's tokenFetcher: POST credentials to the site's
// token route and parse the issued bearer value plus its expiry.
func (s *asdSite) fetchToken(ctx context.Context, site core.Site) (string, time.Time, error) {
	creds, ok := site.Auth.(core.AuthToken)
	if !ok {
		return "", time.Time{}, fmt.Errorf("%s: %w", site.Name, core.ErrAuthBadParam)
	}
	route := site.Routes.Token
	if route == "" {
		return "", time.Time{}, fmt.Errorf("%s: %w", site.Name, core.ErrNoPathDefined)
	}

	var body asdToken
	resp, err := s.client.R().SetContext(ctx).
		SetBody(map[string]string{"email": creds.Login, "password": creds.Password}).
		SetResult(&body).
		Post(route)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w: %v", site.Name, core.ErrAuthHTTP, err)
	}
	if resp.IsError() {
		return "", time.Time{}, fmt.Errorf("%s: %w: status %d", site.Name, core.ErrAuthInvalid, resp.StatusCode())
	}
	if body.Token == "" {
		return "", time.Time{}, fmt.Errorf("%s: %w: empty token in response", site.Name, core.ErrAuthDecoding)
	}

	expiresAt := asdDefaultExpiry
	if body.ExpiredAt > 0 {
		return body.Token, time.Unix(body.ExpiredAt, 0), nil
	}
	return body.Token, time.Now().Add(expiresAt), nil
}
