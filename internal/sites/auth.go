package sites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fetiche/engine/internal/core"
	"github.com/fetiche/engine/internal/token"
)

// tokenFetcher issues a fresh token against a site's token route. Each
// vendor adapter that needs auth supplies one; authenticate owns the
// cache-then-fetch policy so every adapter gets it for
// free instead of reimplementing it.
type tokenFetcher func(ctx context.Context, site core.Site) (value string, expiresAt time.Time, err error)

// authenticate returns a valid bearer value for site, using store as a
// cache. On a cache miss or expired entry it calls fetch once; if the
// caller later discovers the returned token was rejected (core.ErrAuthExpired
// from the request itself), it must call authenticate again with
// forceRefresh=true — authenticate itself calls fetch at most once and
// never retries, which keeps token requests within spec.md §8's
// "≤ 1 + number of Expired responses" bound.
func authenticate(ctx context.Context, store *token.Store, site core.Site, forceRefresh bool, fetch tokenFetcher) (string, error) {
	if !forceRefresh {
		if val, err := store.Get(site.Name); err == nil {
			return val, nil
		} else if !errors.Is(err, token.ErrExpired) {
			// not found: fall through to fetch, not an error worth surfacing
		}
	}

	value, expiresAt, err := fetch(ctx, site)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %v", site.Name, core.ErrAuthRetrieval, err)
	}
	if err := store.Put(site.Name, value, expiresAt); err != nil {
		return "", fmt.Errorf("%s: %w: %v", site.Name, core.ErrAuthStoring, err)
	}
	return value, nil
}
