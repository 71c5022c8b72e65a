// Package dashboard coordinates the charts of one viewer.
//
// A [Dashboard] owns the shared color scale and one instance of every chart.
// Selecting a year loads its dataset and fans it out to the electoral-vote
// bar, the popular-vote bar and the tile map, in that order. Selections may
// overlap: every call to [Dashboard.Select] takes a generation token, and a
// load that finishes after a newer selection started is discarded with
// [ErrStale] instead of overwriting the newer charts.
package dashboard

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/chart/brushlist"
	"github.com/matzehuels/electoral/pkg/chart/electoral"
	"github.com/matzehuels/electoral/pkg/chart/percentage"
	"github.com/matzehuels/electoral/pkg/chart/tile"
	"github.com/matzehuels/electoral/pkg/chart/year"
	"github.com/matzehuels/electoral/pkg/colorscale"
	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/observability"
)

// ErrStale is returned by Select when a newer selection superseded it.
var ErrStale = errors.New(errors.ErrCodeStale, "selection superseded by a newer one")

// Loader provides the timeline and per-year datasets.
type Loader interface {
	Summaries(ctx context.Context) ([]election.YearSummary, error)
	Load(ctx context.Context, year int) (*election.Dataset, error)
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithWidth sets the drawing width of every chart.
func WithWidth(w float64) Option { return func(d *Dashboard) { d.width = w } }

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(d *Dashboard) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithScale replaces the default color scale.
func WithScale(s *colorscale.Quantile) Option {
	return func(d *Dashboard) {
		if s != nil {
			d.scale = s
		}
	}
}

// Charts groups the chart instances of a dashboard.
type Charts struct {
	Year       *year.Chart
	Electoral  *electoral.Chart
	Percentage *percentage.Chart
	Tiles      *tile.Chart
	Brush      *brushlist.Chart
}

// All returns the charts in dashboard order.
func (c Charts) All() []chart.Chart {
	return []chart.Chart{c.Year, c.Electoral, c.Percentage, c.Tiles, c.Brush}
}

// Get returns the chart with the given name.
func (c Charts) Get(name string) (chart.Chart, error) {
	if err := chart.ValidateName(name); err != nil {
		return nil, err
	}
	for _, ch := range c.All() {
		if ch.Name() == name {
			return ch, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidChart, "unknown chart %q", name)
}

// Snapshot is the outcome of one successful selection.
type Snapshot struct {
	Year       int                `json:"year"`
	Dataset    *election.Dataset  `json:"-"`
	Electoral  *electoral.Layout  `json:"electoral_vote"`
	Percentage *percentage.Layout `json:"votes_percentage"`
	Tiles      *tile.Layout       `json:"tiles"`
}

// Dashboard is safe for concurrent use.
type Dashboard struct {
	src    Loader
	logger *log.Logger
	scale  *colorscale.Quantile
	width  float64
	charts Charts

	gen   atomic.Uint64
	selMu sync.Mutex // orders token issue with timeline highlight

	mu        sync.Mutex
	current   *Snapshot
	summaries []election.YearSummary
}

// New creates a dashboard reading from src.
func New(src Loader, opts ...Option) *Dashboard {
	d := &Dashboard{
		src:    src,
		logger: log.New(io.Discard),
		width:  chart.DefaultWidth,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.scale == nil {
		d.scale = colorscale.Default()
	}

	frame := chart.Frame{Width: d.width}
	brush := brushlist.New(chart.Frame{Width: d.width / 4})
	d.charts = Charts{
		Year:       year.New(frame),
		Electoral:  electoral.New(frame, brush),
		Percentage: percentage.New(frame),
		Tiles:      tile.New(frame),
		Brush:      brush,
	}
	return d
}

// ColorScale returns the shared color scale.
func (d *Dashboard) ColorScale() *colorscale.Quantile { return d.scale }

// Charts returns the chart instances. Callers must treat them as read-only
// and go through the dashboard to change them.
func (d *Dashboard) Charts() Charts { return d.charts }

// LoadTimeline loads the year summaries once and renders the timeline.
// Later calls return the cached summaries.
func (d *Dashboard) LoadTimeline(ctx context.Context) ([]election.YearSummary, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.summaries != nil {
		return d.summaries, nil
	}
	summaries, err := d.src.Summaries(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := d.charts.Year.Render(summaries); err != nil {
		return nil, err
	}
	d.summaries = summaries
	d.logger.Debug("loaded timeline", "years", len(summaries))
	return summaries, nil
}

// Select loads year and renders every chart. It returns ErrStale when a
// newer Select started before this one finished; in that case and on any
// load or layout error the charts keep their previous content.
func (d *Dashboard) Select(ctx context.Context, yr int) (*Snapshot, error) {
	if err := errors.ValidateYear(yr); err != nil {
		return nil, err
	}

	d.selMu.Lock()
	if d.charts.Year.Layout() != nil {
		if err := d.charts.Year.SetActive(yr); err != nil {
			d.selMu.Unlock()
			return nil, err
		}
	}
	token := d.gen.Add(1)
	d.selMu.Unlock()

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnLoadStart(ctx, yr)
	ds, err := d.src.Load(ctx, yr)
	records := 0
	if ds != nil {
		records = len(ds.Records)
	}
	hooks.OnLoadComplete(ctx, yr, records, time.Since(start), err)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.gen.Load() != token {
		hooks.OnStale(ctx, yr)
		d.logger.Debug("discarded stale selection", "year", yr)
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}

	snap, err := d.fanOut(ctx, ds)
	if err != nil {
		return nil, err
	}
	d.current = snap
	d.logger.Info("selected year", "year", yr, "states", len(ds.Records), "duration", time.Since(start))
	return snap, nil
}

// fanOut validates every layout before any chart is touched, then renders
// the electoral-vote bar, the popular-vote bar and the tile map in order.
func (d *Dashboard) fanOut(ctx context.Context, ds *election.Dataset) (*Snapshot, error) {
	hooks := observability.Pipeline()
	n := len(ds.Records)

	if _, err := d.charts.Electoral.Compute(ds, d.scale); err != nil {
		return nil, err
	}
	if _, err := d.charts.Percentage.Compute(ds); err != nil {
		return nil, err
	}
	if _, err := d.charts.Tiles.Compute(ds, d.scale); err != nil {
		return nil, err
	}

	snap := &Snapshot{Year: ds.Year, Dataset: ds}
	var err error

	start := time.Now()
	hooks.OnLayoutStart(ctx, chart.ElectoralVote, n)
	snap.Electoral, err = d.charts.Electoral.Render(ds, d.scale)
	hooks.OnLayoutComplete(ctx, chart.ElectoralVote, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	hooks.OnLayoutStart(ctx, chart.VotesPercentage, n)
	snap.Percentage, err = d.charts.Percentage.Render(ds)
	hooks.OnLayoutComplete(ctx, chart.VotesPercentage, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	hooks.OnLayoutStart(ctx, chart.Tiles, n)
	snap.Tiles, err = d.charts.Tiles.Render(ds, d.scale)
	hooks.OnLayoutComplete(ctx, chart.Tiles, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Brush selects the electoral-vote segments inside [start, end] and returns
// their state names.
func (d *Dashboard) Brush(start, end float64) []string {
	return d.charts.Electoral.Brush(start, end)
}

// ClearBrush empties the brush selection.
func (d *Dashboard) ClearBrush() { d.charts.Electoral.ClearBrush() }

// Current returns the selected year, or 0 before the first selection.
func (d *Dashboard) Current() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return 0
	}
	return d.current.Year
}

// Snapshot returns the last successful selection, or nil.
func (d *Dashboard) Snapshot() *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}
