// Package year draws the election timeline: one marker per year, colored by
// the winning party, with the selected year highlighted.
package year

import (
	"cmp"
	"slices"
	"strconv"
	"sync"

	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/render/scene"
)

// Layer names in drawing order.
const (
	LayerLine    = "line"
	LayerMarkers = "markers"
	LayerLabels  = "labels"
)

// Geometry of the timeline.
const (
	DefaultHeight = 100.0
	Inset         = 20.0
	MarkerY       = 20.0
	MarkerRadius  = 15.0
	LabelY        = 55.0
)

// HighlightClass marks the selected year.
const HighlightClass = "highlighted"

// Marker is the placement of one year.
type Marker struct {
	Year   int            `json:"year"`
	Party  election.Party `json:"party"`
	X      float64        `json:"x"`
	Active bool           `json:"active"`
}

// Class is the CSS class list of the marker circle.
func (m Marker) Class() string {
	c := "yearChart " + m.Party.Class()
	if m.Active {
		c += " " + HighlightClass
	}
	return c
}

// Layout is the result of one render.
type Layout struct {
	Markers []Marker `json:"markers"`
	Active  int      `json:"active,omitempty"`
}

// Chart is the year timeline.
type Chart struct {
	mu     sync.Mutex
	frame  chart.Frame
	scene  *scene.Scene
	layout *Layout
}

// New creates an empty timeline.
func New(frame chart.Frame) *Chart {
	frame = frame.WithDefaults(chart.Fixed(DefaultHeight))
	c := &Chart{frame: frame, scene: scene.New(chart.YearChart, frame.Width, frame.Height)}
	for _, name := range []string{LayerLine, LayerMarkers, LayerLabels} {
		c.scene.Layer(name)
	}
	return c
}

// Name returns the chart name.
func (c *Chart) Name() string { return chart.YearChart }

// Scene returns the scene the timeline draws into.
func (c *Chart) Scene() *scene.Scene { return c.scene }

// Render places one marker per summary in chronological order. Markers are
// spread evenly between the insets. An active year that is still present
// stays highlighted.
func (c *Chart) Render(summaries []election.YearSummary) (*Layout, error) {
	sorted := slices.Clone(summaries)
	slices.SortStableFunc(sorted, func(a, b election.YearSummary) int { return cmp.Compare(a.Year, b.Year) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Year == sorted[i-1].Year {
			return nil, errors.New(errors.ErrCodeInvalidYear, "year %d listed more than once", sorted[i].Year)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	xScale := chart.Linear{D1: float64(max(len(sorted)-1, 1)), R0: Inset, R1: c.frame.Width - Inset}
	l := &Layout{Markers: make([]Marker, len(sorted))}
	for i, s := range sorted {
		l.Markers[i] = Marker{Year: s.Year, Party: s.Party, X: xScale.At(float64(i))}
	}
	if c.layout != nil && c.layout.Active != 0 {
		l.setActive(c.layout.Active)
	}
	if err := c.join(l); err != nil {
		return nil, err
	}
	c.layout = l
	return l, nil
}

// SetActive highlights year and clears the previous highlight. The year must
// be on the timeline.
func (c *Chart) SetActive(year int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.layout == nil {
		return errors.New(errors.ErrCodeNotFound, "timeline not loaded")
	}
	next := &Layout{Markers: slices.Clone(c.layout.Markers)}
	if !next.setActive(year) {
		return errors.New(errors.ErrCodeNotFound, "no election in %d", year)
	}
	if err := c.join(next); err != nil {
		return err
	}
	c.layout = next
	return nil
}

// Active returns the highlighted year, or 0.
func (c *Chart) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.layout == nil {
		return 0
	}
	return c.layout.Active
}

// Layout returns a copy of the current layout, or nil before the first
// render.
func (c *Chart) Layout() *Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.layout == nil {
		return nil
	}
	return &Layout{Markers: slices.Clone(c.layout.Markers), Active: c.layout.Active}
}

func (l *Layout) setActive(year int) bool {
	found := false
	for i := range l.Markers {
		l.Markers[i].Active = l.Markers[i].Year == year
		found = found || l.Markers[i].Active
	}
	if found {
		l.Active = year
	} else {
		l.Active = 0
	}
	return found
}

func (c *Chart) join(l *Layout) error {
	line := []scene.Node{{
		Key:   "lineChart",
		Tag:   scene.Line,
		Class: "lineChart",
		X:     Inset, Y: MarkerY, X2: c.frame.Width - Inset, Y2: MarkerY,
	}}
	markers := make([]scene.Node, len(l.Markers))
	labels := make([]scene.Node, len(l.Markers))
	for i, m := range l.Markers {
		key := strconv.Itoa(m.Year)
		markers[i] = scene.Node{
			Key:   key,
			Tag:   scene.Circle,
			Class: m.Class(),
			X:     m.X, Y: MarkerY, R: MarkerRadius,
			Data:  map[string]string{"year": key},
		}
		labels[i] = scene.Node{
			Key:    key,
			Tag:    scene.Text,
			Class:  "yeartext",
			X:      m.X,
			Y:      LabelY,
			Anchor: scene.AnchorMiddle,
			Text:   key,
		}
	}
	for _, j := range []struct {
		layer string
		nodes []scene.Node
	}{
		{LayerLine, line},
		{LayerMarkers, markers},
		{LayerLabels, labels},
	} {
		if _, err := c.scene.Layer(j.layer).Join(j.nodes); err != nil {
			return err
		}
	}
	return nil
}
