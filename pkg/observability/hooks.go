// Package observability lets the binary observe the dashboard without the
// libraries depending on a metrics or tracing backend.
//
// Libraries report through the package-level accessors:
//
//	hooks := observability.Pipeline()
//	hooks.OnLoadStart(ctx, year)
//	ds, err := src.Load(ctx, year)
//	hooks.OnLoadComplete(ctx, year, len(ds.Records), time.Since(start), err)
//
// The binary registers implementations once at startup (the CLI logs every
// event at debug level with -v). Until then every hook is a no-op. Embed the
// Noop types to implement only the events you need:
//
//	type staleCounter struct {
//	    observability.NoopPipelineHooks
//	    n atomic.Int64
//	}
//
//	func (c *staleCounter) OnStale(context.Context, int) { c.n.Add(1) }
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the dashboard and the render pipeline.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, year int)
	OnLoadComplete(ctx context.Context, year, records int, duration time.Duration, err error)

	// Layout and render events fire once per chart.
	OnLayoutStart(ctx context.Context, chart string, records int)
	OnLayoutComplete(ctx context.Context, chart string, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, chart string, formats []string)
	OnRenderComplete(ctx context.Context, chart string, formats []string, duration time.Duration, err error)

	// OnStale fires when a year selection is discarded because a newer
	// one started.
	OnStale(ctx context.Context, year int)
}

// CacheHooks receives lookups and writes of an instrumented cache. keyType
// is the key prefix: http, summaries, dataset or artifact.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives outgoing requests of remote sources.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError fires for transport failures; error statuses go to OnResponse.
	OnError(ctx context.Context, method, host, path string, err error)
}

// SessionHooks receives the lifecycle of server sessions.
type SessionHooks interface {
	OnSessionCreate(ctx context.Context, id string)
	// OnSessionEnd fires on explicit deletion and on expiry.
	OnSessionEnd(ctx context.Context, id string, expired bool)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                     {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, []string)                {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, []string, time.Duration, error) {
}
func (NoopPipelineHooks) OnStale(context.Context, int) {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// NoopSessionHooks ignores every session event.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionCreate(context.Context, string)     {}
func (NoopSessionHooks) OnSessionEnd(context.Context, string, bool) {}

// slot holds one registered hook set. Reads are lock-free, so hot paths
// like cache lookups can fetch hooks on every call.
type slot[T any] struct {
	v    atomic.Pointer[T]
	noop T
}

func newSlot[T any](noop T) *slot[T] {
	s := &slot[T]{noop: noop}
	s.reset()
	return s
}

func (s *slot[T]) get() T { return *s.v.Load() }

func (s *slot[T]) set(h T) { s.v.Store(&h) }

func (s *slot[T]) reset() { s.set(s.noop) }

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
	sessionSlot  = newSlot[SessionHooks](NoopSessionHooks{})
)

// SetPipelineHooks registers h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.set(h)
	}
}

// SetCacheHooks registers h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetHTTPHooks registers h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

// SetSessionHooks registers h. A nil h is ignored.
func SetSessionHooks(h SessionHooks) {
	if h != nil {
		sessionSlot.set(h)
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Session returns the registered session hooks.
func Session() SessionHooks { return sessionSlot.get() }

// Reset restores the no-op hooks. Tests that register hooks defer it.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
	sessionSlot.reset()
}
