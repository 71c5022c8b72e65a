package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rendered 5 charts (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Debug Hooks
// =============================================================================

// debugHooks forwards observability events to a logger.
type debugHooks struct {
	logger *log.Logger
}

func (h *debugHooks) OnLoadStart(_ context.Context, year int) {
	h.logger.Debug("load start", "year", year)
}

func (h *debugHooks) OnLoadComplete(_ context.Context, year, records int, d time.Duration, err error) {
	h.logger.Debug("load done", "year", year, "records", records, "duration", d, "err", err)
}

func (h *debugHooks) OnLayoutStart(_ context.Context, chart string, records int) {
	h.logger.Debug("layout start", "chart", chart, "records", records)
}

func (h *debugHooks) OnLayoutComplete(_ context.Context, chart string, d time.Duration, err error) {
	h.logger.Debug("layout done", "chart", chart, "duration", d, "err", err)
}

func (h *debugHooks) OnRenderStart(_ context.Context, chart string, formats []string) {
	h.logger.Debug("render start", "chart", chart, "formats", formats)
}

func (h *debugHooks) OnRenderComplete(_ context.Context, chart string, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "chart", chart, "formats", formats, "duration", d, "err", err)
}

func (h *debugHooks) OnStale(_ context.Context, year int) {
	h.logger.Debug("stale selection dropped", "year", year)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d)
}

func (h *debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}

func (h *debugHooks) OnSessionCreate(_ context.Context, id string) {
	h.logger.Debug("session created", "id", id)
}

func (h *debugHooks) OnSessionEnd(_ context.Context, id string, expired bool) {
	h.logger.Debug("session ended", "id", id, "expired", expired)
}
