// Package chart holds what the dashboard charts share: drawing frames,
// chart names and the linear scale used by every bar and axis.
//
// The charts themselves live in subpackages:
//
//   - [tile]: cartogram of per-state tiles
//   - [electoral]: stacked electoral-vote bar with brush selection
//   - [percentage]: stacked popular-vote bar
//   - [brushlist]: list of states inside the brush
//   - [year]: election year timeline
//
// [tile]: github.com/matzehuels/electoral/pkg/chart/tile
// [electoral]: github.com/matzehuels/electoral/pkg/chart/electoral
// [percentage]: github.com/matzehuels/electoral/pkg/chart/percentage
// [brushlist]: github.com/matzehuels/electoral/pkg/chart/brushlist
// [year]: github.com/matzehuels/electoral/pkg/chart/year
package chart

import (
	"slices"

	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/render/scene"
)

// DefaultWidth is the drawing width used when none is configured.
const DefaultWidth = 800.0

// Chart names. They double as scene names, element ids on the host page and
// URL path segments.
const (
	Tiles           = "tiles"
	ElectoralVote   = "electoral-vote"
	VotesPercentage = "votes-percentage"
	BrushSelection  = "brush-selection"
	YearChart       = "year-chart"
)

// Names lists every chart in dashboard order.
var Names = []string{YearChart, ElectoralVote, VotesPercentage, Tiles, BrushSelection}

// ValidateName checks that name is a known chart.
func ValidateName(name string) error {
	if !slices.Contains(Names, name) {
		return errors.New(errors.ErrCodeInvalidChart, "unknown chart %q (expected one of %v)", name, Names)
	}
	return nil
}

// Frame is the drawing area of a chart in pixels.
type Frame struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WithDefaults fills a zero width with DefaultWidth and a zero height with
// height(width).
func (f Frame) WithDefaults(height func(width float64) float64) Frame {
	if f.Width <= 0 {
		f.Width = DefaultWidth
	}
	if f.Height <= 0 {
		f.Height = height(f.Width)
	}
	return f
}

// Fixed returns a height function that ignores the width.
func Fixed(h float64) func(float64) float64 {
	return func(float64) float64 { return h }
}

// Chart is implemented by every dashboard chart.
type Chart interface {
	Name() string
	Scene() *scene.Scene
}

// Linear maps [D0, D1] onto [R0, R1]. A degenerate domain maps everything to
// R0.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

// At returns the image of v.
func (l Linear) At(v float64) float64 {
	if l.D1 == l.D0 {
		return l.R0
	}
	return l.R0 + (v-l.D0)*(l.R1-l.R0)/(l.D1-l.D0)
}
