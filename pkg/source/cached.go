package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/electoral/pkg/cache"
	"github.com/matzehuels/electoral/pkg/election"
)

// CachedSource serves summaries and datasets from a cache before asking the
// wrapped source.
type CachedSource struct {
	Source
	cache   cache.Cache
	keyer   cache.Keyer
	id      string
	refresh bool
}

// Cached wraps src. id identifies the source in cache keys (normally its
// URI). With refresh set, reads skip the cache but still write through.
func Cached(src Source, c cache.Cache, keyer cache.Keyer, id string, refresh bool) *CachedSource {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &CachedSource{Source: src, cache: c, keyer: keyer, id: id, refresh: refresh}
}

// Summaries returns cached summaries or loads and caches them.
func (s *CachedSource) Summaries(ctx context.Context) ([]election.YearSummary, error) {
	key := s.keyer.SummariesKey(s.id)
	var out []election.YearSummary
	if s.lookup(ctx, key, &out) {
		return out, nil
	}
	out, err := s.Source.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, out, cache.TTLSummaries)
	return out, nil
}

// Load returns a cached dataset or loads and caches it. Cached datasets
// are validated again on the way out.
func (s *CachedSource) Load(ctx context.Context, year int) (*election.Dataset, error) {
	key := s.keyer.DatasetKey(s.id, year)
	var ds election.Dataset
	if s.lookup(ctx, key, &ds) && ds.Validate() == nil {
		return &ds, nil
	}
	loaded, err := s.Source.Load(ctx, year)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, loaded, cache.TTLDataset)
	return loaded, nil
}

// Unwrap returns the wrapped source.
func (s *CachedSource) Unwrap() Source { return s.Source }

func (s *CachedSource) lookup(ctx context.Context, key string, v any) bool {
	if s.refresh {
		return false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (s *CachedSource) store(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, data, ttl)
}
