// Package httputil fetches remote data files.
//
// [Client] wraps net/http with the pieces every remote dataset needs:
//
//   - response caching through any [cache.Cache], keyed by [cache.Keyer.HTTPKey]
//   - [Backoff] retries for network errors, 429 and 5xx, honoring Retry-After
//   - coded errors: NOT_FOUND for 404, NETWORK_ERROR otherwise
//   - observability HTTP hooks around every attempt
//
// Usage:
//
//	c := httputil.NewClient(httputil.WithCache(fc, cache.NewDefaultKeyer()))
//	body, err := c.Fetch(ctx, "https://example.org/data/election-results.csv", false)
//
// [Client.FetchValid] caches a body only after the caller's check accepts it,
// so a table that fails to parse is fetched again next time.
//
// Only errors wrapped in [RetryableError] are retried; everything else is
// returned on the first attempt.
package httputil
