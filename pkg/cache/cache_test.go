package cache

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/electoral/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always miss")
	}
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, err := c.Get(ctx, "dataset:x"); err != nil || hit {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, "dataset:x", []byte("2016"), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "dataset:x")
	if err != nil || !hit || string(data) != "2016" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "dataset:x"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "dataset:x"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "dataset:x"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("ttl 0 should never expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("k"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	entries, err := os.ReadDir(c.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Clear left %d entries", len(entries))
	}
}

func TestFileCacheUsageAndPrune(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "live", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "stale", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)

	n, size, err := c.Usage()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 || size == 0 {
		t.Errorf("Usage() = %d entries, %d bytes", n, size)
	}

	removed, err := c.Prune()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("Prune() = %d, want 1", removed)
	}
	if _, hit, _ := c.Get(ctx, "live"); !hit {
		t.Error("Prune removed a live entry")
	}
}

func TestFileCachePathSharding(t *testing.T) {
	c := &FileCache{dir: "/cache"}
	p := c.path("dataset:x")
	if p != c.path("dataset:x") {
		t.Error("path should be deterministic")
	}
	if p == c.path("dataset:y") {
		t.Error("different keys should map to different files")
	}
	rel := strings.TrimPrefix(p, "/cache/")
	shard, file, ok := strings.Cut(rel, "/")
	if !ok || len(shard) != 2 || len(file) != 62+len(".json") {
		t.Errorf("unexpected layout %q", rel)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("results:", "2016"); got != "http:results::2016" {
		t.Errorf("HTTPKey unexpected: %s", got)
	}

	if k.DatasetKey("dir:data", 2012) == k.DatasetKey("dir:data", 2016) {
		t.Error("years should produce different dataset keys")
	}
	if k.DatasetKey("dir:a", 2012) == k.DatasetKey("dir:b", 2012) {
		t.Error("sources should produce different dataset keys")
	}
	if !strings.HasPrefix(k.DatasetKey("dir:a", 2012), "dataset:") {
		t.Error("dataset keys should carry their prefix")
	}
	if k.SummariesKey("dir:a") == k.SummariesKey("dir:b") {
		t.Error("sources should produce different summaries keys")
	}

	base := ArtifactKeyOpts{Chart: "tiles", Format: "svg", Width: 800}
	tests := []struct {
		name string
		opts ArtifactKeyOpts
	}{
		{"chart", ArtifactKeyOpts{Chart: "electoral-vote", Format: "svg", Width: 800}},
		{"format", ArtifactKeyOpts{Chart: "tiles", Format: "png", Width: 800}},
		{"width", ArtifactKeyOpts{Chart: "tiles", Format: "svg", Width: 1200}},
		{"popups", ArtifactKeyOpts{Chart: "tiles", Format: "svg", Width: 800, Popups: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if k.ArtifactKey("h", base) == k.ArtifactKey("h", tt.opts) {
				t.Errorf("changing %s should change the key", tt.name)
			}
		})
	}
	if k.ArtifactKey("h1", base) == k.ArtifactKey("h2", base) {
		t.Error("dataset hash should change the key")
	}
}

func TestScopedKeyer(t *testing.T) {
	tests := []struct {
		name   string
		inner  Keyer
		prefix string
		want   string
	}{
		{"prefixed", NewDefaultKeyer(), "staging:", "staging:http:results::2016"},
		{"nil inner", nil, "prod:", "prod:http:results::2016"},
		{"empty prefix", NewDefaultKeyer(), "", "http:results::2016"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewScopedKeyer(tt.inner, tt.prefix)
			if got := k.HTTPKey("results:", "2016"); got != tt.want {
				t.Errorf("HTTPKey() = %q, want %q", got, tt.want)
			}
			for _, key := range []string{
				k.DatasetKey("dir:data", 2016),
				k.SummariesKey("dir:data"),
				k.ArtifactKey("h", ArtifactKeyOpts{Chart: "tiles"}),
			} {
				if !strings.HasPrefix(key, tt.prefix) {
					t.Errorf("key %q should start with %q", key, tt.prefix)
				}
			}
		})
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets []string
}

func (h *countingHooks) OnCacheHit(_ context.Context, kt string)  { h.hits = append(h.hits, kt) }
func (h *countingHooks) OnCacheMiss(_ context.Context, kt string) { h.misses = append(h.misses, kt) }
func (h *countingHooks) OnCacheSet(_ context.Context, kt string, _ int) {
	h.sets = append(h.sets, kt)
}

func TestInstrument(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := Instrument(fc)
	if Instrument(c) != c {
		t.Error("Instrument should not wrap twice")
	}

	key := NewDefaultKeyer().DatasetKey("dir:x", 2016)
	c.Get(ctx, key)
	c.Set(ctx, key, []byte("x"), 0)
	c.Get(ctx, key)

	if len(hooks.misses) != 1 || hooks.misses[0] != "dataset" {
		t.Errorf("misses = %v", hooks.misses)
	}
	if len(hooks.sets) != 1 || len(hooks.hits) != 1 {
		t.Errorf("sets = %v, hits = %v", hooks.sets, hooks.hits)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("ELECTORAL_TEST_REDIS")
	if addr == "" {
		t.Skip("ELECTORAL_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()

	key := "electoral-test:" + t.Name()
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("fresh key: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
}

func TestKeyType(t *testing.T) {
	k := NewDefaultKeyer()
	scoped := NewScopedKeyer(k, "staging:")
	tests := []struct {
		key  string
		want string
	}{
		{k.DatasetKey("dir:data", 2016), "dataset"},
		{k.HTTPKey("results", "https://example.com/a.csv"), "http"},
		{scoped.ArtifactKey("h", ArtifactKeyOpts{Chart: "tiles"}), "artifact"},
		{scoped.SummariesKey("dir:data"), "summaries"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := keyType(tt.key); got != tt.want {
			t.Errorf("keyType(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
