package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/electoral/pkg/cache"
	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/dashboard"
	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the source, cache and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options; each run gets its own dashboard.
type Runner struct {
	Source source.Source
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// SourceID identifies Source in cache keys.
	SourceID string

	// ArtifactTTL is how long rendered outputs stay cached.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner reading from src.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(src source.Source, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Source:   src,
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		SourceID: fmt.Sprint(src),

		ArtifactTTL: cache.TTLArtifact,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	ds, hit, err := r.LoadWithCacheInfo(ctx, opts.Year, opts.Refresh)
	if err != nil {
		return nil, fmt.Errorf("load %d: %w", opts.Year, err)
	}
	result.Dataset = ds
	result.DatasetHash = ds.Hash()
	result.Stats.Records = len(ds.Records)
	result.Stats.TotalEV = ds.TotalEV()
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.DatasetHit = hit

	r.Logger.Info("loaded dataset",
		"year", ds.Year,
		"records", len(ds.Records),
		"cached", hit,
		"duration", result.Stats.LoadTime)

	// All artifacts cached: skip layout entirely.
	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, result.DatasetHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheInfo.RenderHit = true
			r.Logger.Info("artifacts served from cache", "charts", opts.Charts, "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	d, err := r.Layout(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"total_ev", result.Stats.TotalEV,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := Render(ctx, d, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	for name, byFormat := range artifacts {
		for format, data := range byFormat {
			key := r.Keyer.ArtifactKey(result.DatasetHash, opts.ArtifactKeyOpts(name, format))
			_ = r.Cache.Set(ctx, key, data, r.artifactTTL())
		}
	}

	r.Logger.Info("rendered outputs",
		"charts", opts.Charts,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads one year, reading the cached dataset unless
// refresh is set, and reports whether the cache was hit.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, year int, refresh bool) (*election.Dataset, bool, error) {
	key := r.Keyer.DatasetKey(r.SourceID, year)

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var ds election.Dataset
			if err := json.Unmarshal(data, &ds); err == nil && ds.Validate() == nil {
				return &ds, true, nil
			}
		}
	}

	ds, err := r.Source.Load(ctx, year)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(ds); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLDataset)
	}
	return ds, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, year int) (*election.Dataset, error) {
	ds, _, err := r.LoadWithCacheInfo(ctx, year, false)
	return ds, err
}

// Summaries returns the timeline, cached under the source's summaries key.
func (r *Runner) Summaries(ctx context.Context) ([]election.YearSummary, error) {
	return source.Cached(r.Source, r.Cache, r.Keyer, r.SourceID, false).Summaries(ctx)
}

// Layout runs the dashboard fan-out for ds and applies opts.Brush.
// The timeline is loaded only when the year chart was requested.
func (r *Runner) Layout(ctx context.Context, ds *election.Dataset, opts Options) (*dashboard.Dashboard, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	d := dashboard.New(&datasetLoader{runner: r, ds: ds},
		dashboard.WithWidth(opts.Width),
		dashboard.WithLogger(opts.Logger))

	if opts.Wants(chart.YearChart) {
		if _, err := d.LoadTimeline(ctx); err != nil {
			return nil, fmt.Errorf("timeline: %w", err)
		}
	}
	if _, err := d.Select(ctx, ds.Year); err != nil {
		return nil, err
	}
	if opts.Brush != nil {
		states := d.Brush(opts.Brush.Start, opts.Brush.End)
		r.Logger.Debug("applied brush", "range", opts.Brush.String(), "states", len(states))
	}
	return d, nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, hash string, opts Options) (map[string]map[string][]byte, bool) {
	out := make(map[string]map[string][]byte, len(opts.Charts))
	for _, name := range opts.Charts {
		out[name] = make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(name, format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				return nil, false
			}
			out[name][format] = data
		}
	}
	return out, true
}

func (r *Runner) artifactTTL() time.Duration {
	if r.ArtifactTTL > 0 {
		return r.ArtifactTTL
	}
	return cache.TTLArtifact
}

// Close releases resources held by the runner (the cache and the source).
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if r.Source != nil {
		if serr := r.Source.Close(); err == nil {
			err = serr
		}
	}
	return err
}

// datasetLoader hands an already loaded dataset to the dashboard.
type datasetLoader struct {
	runner *Runner
	ds     *election.Dataset
}

func (l *datasetLoader) Summaries(ctx context.Context) ([]election.YearSummary, error) {
	return l.runner.Summaries(ctx)
}

func (l *datasetLoader) Load(ctx context.Context, year int) (*election.Dataset, error) {
	if year == l.ds.Year {
		return l.ds, nil
	}
	return l.runner.Load(ctx, year)
}
