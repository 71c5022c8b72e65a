package cache

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/electoral/pkg/observability"
)

// Instrument reports hits, misses and writes of c to the registered
// observability cache hooks. The key type is the key prefix up to the first
// colon ("dataset", "artifact", ...).
func Instrument(c Cache) Cache {
	if c == nil {
		return NewNullCache()
	}
	if _, ok := c.(*instrumented); ok {
		return c
	}
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err == nil {
		if hit {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, hit, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}

var keyTypes = []string{"http", "summaries", "dataset", "artifact"}

// keyType names the kind of a key from its first known segment, looking past
// a scope prefix.
func keyType(key string) string {
	parts := strings.SplitN(key, ":", 4)
	for _, p := range parts {
		if slices.Contains(keyTypes, p) {
			return p
		}
	}
	return parts[0]
}
