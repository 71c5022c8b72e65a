// Package cache stores datasets and rendered chart artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NewNullCache]: caching disabled
//
// # Keys
//
// Keys are built by a [Keyer] so that every consumer (CLI, server, pipeline)
// agrees on them. Dataset keys depend on the source and year; artifact keys
// depend on the dataset content hash plus the chart, format and width, so a
// changed dataset never serves a stale drawing.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
type Cache interface {
	// Get returns the cached value. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry kind.
const (
	TTLHTTP      = 24 * time.Hour
	TTLSummaries = 24 * time.Hour
	TTLDataset   = 7 * 24 * time.Hour
	TTLArtifact  = 7 * 24 * time.Hour
)

type nullCache struct{}

// NewNullCache returns a cache that stores nothing; every Get misses.
func NewNullCache() Cache { return nullCache{} }

func (nullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error                     { return nil }
func (nullCache) Close() error                                             { return nil }
