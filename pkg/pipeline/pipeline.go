// Package pipeline renders the dashboard charts of one election year to files.
//
// This package implements the load → layout → render pipeline shared by the
// CLI `render` command and the HTTP server's stateless chart endpoints, so
// both produce identical artifacts and share one cache.
//
// # Stages
//
//  1. Load: read the year's dataset (and the timeline when the year chart is
//     requested) from a [source.Source], cached as JSON
//  2. Layout: run the dashboard fan-out (electoral-vote bar, popular-vote bar,
//     tile map) and apply an optional brush
//  3. Render: write each requested chart in each requested format
//
// # Usage
//
//	runner := pipeline.NewRunner(src, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Year:    2016,
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["tiles"]["svg"]
package pipeline

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/electoral/pkg/cache"
	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the drawing width of every chart in pixels.
	DefaultWidth = chart.DefaultWidth

	// DefaultPNGScale is the rasterization scale for PNG output.
	DefaultPNGScale = 2.0

	// MinWidth leaves every state of the electoral-vote bar its 1px gutter.
	MinWidth = 100.0

	// MaxWidth bounds the drawing width accepted from callers.
	MaxWidth = 10000.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Range is a brush extent in electoral-vote chart pixels.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// String formats the range as "start:end".
func (r Range) String() string { return fmt.Sprintf("%g:%g", r.Start, r.End) }

// ParseRange parses "start:end".
func ParseRange(s string) (Range, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return Range{}, errors.New(errors.ErrCodeInvalidInput, "brush must be start:end, got %q", s)
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return Range{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "brush start %q", lo)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return Range{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "brush end %q", hi)
	}
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate rejects NaN and infinite bounds.
func (r Range) Validate() error {
	if !finite(r.Start) || !finite(r.End) {
		return errors.New(errors.ErrCodeInvalidInput, "brush %s must be finite", r)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Year    int      `json:"year"`
	Width   float64  `json:"width,omitempty"`
	Charts  []string `json:"charts,omitempty"`
	Formats []string `json:"formats,omitempty"`
	Popups  bool     `json:"popups,omitempty"`
	Brush   *Range   `json:"brush,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// PNGScale multiplies the PNG resolution.
	PNGScale float64 `json:"png_scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded year.
	Dataset *election.Dataset

	// DatasetHash is the content hash of the dataset.
	DatasetHash string

	// Artifacts holds rendered outputs keyed by chart, then format.
	Artifacts map[string]map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int
	TotalEV    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DatasetHit bool // Whether the dataset came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateCharts checks that all chart names are known.
func ValidateCharts(names []string) error {
	for _, n := range names {
		if err := chart.ValidateName(n); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateYear(o.Year); err != nil {
		return err
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if !(o.Width >= MinWidth && o.Width <= MaxWidth) {
		return errors.New(errors.ErrCodeInvalidInput, "width %g out of range [%g-%g]", o.Width, MinWidth, MaxWidth)
	}
	if o.Brush != nil {
		if err := o.Brush.Validate(); err != nil {
			return err
		}
	}
	if len(o.Charts) == 0 {
		o.Charts = slices.Clone(chart.Names)
	}
	if err := ValidateCharts(o.Charts); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Charts = dedupe(o.Charts)
	o.Formats = dedupe(o.Formats)
	if o.PNGScale <= 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// Wants reports whether chart name was requested.
func (o *Options) Wants(name string) bool {
	return slices.Contains(o.Charts, name)
}

// ArtifactKeyOpts returns cache key options for one chart and format.
func (o *Options) ArtifactKeyOpts(name, format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Chart:  name,
		Format: format,
		Width:  o.Width,
		Popups: o.Popups,
	}
	// the brush only changes these two charts
	if o.Brush != nil && (name == chart.ElectoralVote || name == chart.BrushSelection) {
		k.Brush = o.Brush.String()
	}
	return k
}

func dedupe(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
