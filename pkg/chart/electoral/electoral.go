// Package electoral draws the stacked electoral-vote bar and answers brush
// queries against it.
//
// States are grouped by winner and stacked Independent, Democrat, Republican
// from left to right. Within the Democrat and Independent blocks the safest
// states come first; the Republican block runs from narrowest to safest, so
// the most competitive states meet in the middle.
package electoral

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/chart/tooltip"
	"github.com/matzehuels/electoral/pkg/colorscale"
	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/render/scene"
)

// Layer names in drawing order.
const (
	LayerBars    = "bars"
	LayerTotals  = "totals"
	LayerMidline = "midline"
	LayerNote    = "note"
)

// Geometry of the bar and its annotations.
const (
	DefaultHeight = 150.0
	BarY          = 50.0
	BarHeight     = 20.0
	LabelY        = 40.0
	MidlineY1     = 47.0
	MidlineY2     = 73.0
	BrushY0       = 43.0
	BrushY1       = 77.0
)

// EmptyNote replaces the win note when no electoral votes were cast.
const EmptyNote = "No electoral votes"

// Selection receives the states inside the brush.
type Selection interface {
	Render(states []string) scene.Diff
}

// Segment is one state's slice of the bar.
type Segment struct {
	Abbreviation string          `json:"abbreviation"`
	State        string          `json:"state"`
	Party        election.Party  `json:"party"`
	EV           int             `json:"ev"`
	Margin       float64         `json:"margin"`
	Fill         string          `json:"fill"`
	X            float64         `json:"x"`
	Width        float64         `json:"width"`
	Tooltip      tooltip.Payload `json:"tooltip"`
}

// End is the right edge of the segment.
func (s Segment) End() float64 { return s.X + s.Width }

// Total is the electoral-vote label of one party block.
type Total struct {
	Party  election.Party `json:"party"`
	EV     int            `json:"ev"`
	X      float64        `json:"x"`
	Anchor string         `json:"anchor"`
}

// Layout is the result of one render.
type Layout struct {
	Year      int       `json:"year"`
	TotalEV   int       `json:"total_ev"`
	WinNumber int       `json:"win_number"`
	Note      string    `json:"note"`
	BarLength float64   `json:"bar_length"`
	Midline   float64   `json:"midline"`
	Segments  []Segment `json:"segments"`
	Totals    []Total   `json:"totals"`
}

// Empty reports whether the layout has no electoral votes to draw.
func (l *Layout) Empty() bool { return l.TotalEV == 0 }

// WinNumber returns the electoral votes needed for a majority of total.
func WinNumber(total int) int {
	if total%2 != 0 {
		return (total + 1) / 2
	}
	return total/2 + 1
}

// Chart is the electoral-vote bar.
type Chart struct {
	mu     sync.Mutex
	frame  chart.Frame
	scene  *scene.Scene
	brush  Selection
	layout *Layout
}

// New creates the chart. Brush results are pushed to sel, which may be nil.
func New(frame chart.Frame, sel Selection) *Chart {
	frame = frame.WithDefaults(chart.Fixed(DefaultHeight))
	c := &Chart{
		frame: frame,
		scene: scene.New(chart.ElectoralVote, frame.Width, frame.Height),
		brush: sel,
	}
	for _, name := range []string{LayerBars, LayerTotals, LayerMidline, LayerNote} {
		c.scene.Layer(name)
	}
	return c
}

// Name returns the chart name.
func (c *Chart) Name() string { return chart.ElectoralVote }

// Scene returns the scene the chart draws into.
func (c *Chart) Scene() *scene.Scene { return c.scene }

// Compute lays out ds without touching the scene or the selection.
func (c *Chart) Compute(ds *election.Dataset, scale *colorscale.Quantile) (*Layout, error) {
	if ds == nil || scale == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "electoral vote chart needs a dataset and a color scale")
	}
	w := c.frame.Width
	total := ds.TotalEV()
	l := &Layout{Year: ds.Year, TotalEV: total, Midline: w / 2}
	if total == 0 {
		l.Note = EmptyNote
		return l, nil
	}
	l.WinNumber = WinNumber(total)
	l.Note = fmt.Sprintf("Electoral Votes (%d needed to win)", l.WinNumber)

	g := election.Partition(ds.Records)
	election.SortByMargin(g.I, true)
	election.SortByMargin(g.D, true)
	election.SortByMargin(g.R, false)

	// Narrower than its gutters the bar collapses to zero-width segments.
	widthScale := chart.Linear{D1: float64(total), R1: max(w-float64(len(ds.Records))+1, 0)}
	x := 0.0
	blockStart := make(map[election.Party]float64, 3)
	blockEV := make(map[election.Party]int, 3)
	for _, p := range election.StackOrder {
		blockStart[p] = x
		for _, r := range g.Of(p) {
			seg := Segment{
				Abbreviation: r.Abbreviation,
				State:        r.State,
				Party:        p,
				EV:           r.TotalEV,
				Margin:       election.WinMargin(r),
				Fill:         colorscale.Independent,
				X:            x,
				Width:        widthScale.At(float64(r.TotalEV)),
				Tooltip:      tooltip.ForState(r),
			}
			if m, ok := election.SignedMargin(r); ok {
				seg.Fill = scale.ColorFor(m)
			}
			l.Segments = append(l.Segments, seg)
			blockEV[p] += r.TotalEV
			x += 1 + seg.Width
		}
	}
	l.BarLength = x

	if ev := blockEV[election.Independent]; ev > 0 {
		l.Totals = append(l.Totals, Total{Party: election.Independent, EV: ev, X: 0, Anchor: scene.AnchorStart})
	}
	l.Totals = append(l.Totals,
		Total{Party: election.Democrat, EV: blockEV[election.Democrat], X: blockStart[election.Democrat], Anchor: scene.AnchorStart},
		Total{Party: election.Republican, EV: blockEV[election.Republican], X: x - 1, Anchor: scene.AnchorEnd},
	)
	return l, nil
}

// Render clears the brush selection, lays out ds and joins the result into
// the scene. With zero electoral votes the bar is empty and the note says so.
func (c *Chart) Render(ds *election.Dataset, scale *colorscale.Quantile) (*Layout, error) {
	l, err := c.Compute(ds, scale)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.brush != nil {
		c.brush.Render(nil)
	}

	bars := make([]scene.Node, 0, len(l.Segments))
	for _, s := range l.Segments {
		bars = append(bars, scene.Node{
			Key:   s.Abbreviation,
			Tag:   scene.Rect,
			Class: "electoralVotes " + s.Party.Class(),
			X:     s.X, Y: BarY, W: s.Width, H: BarHeight,
			Fill:  s.Fill,
			Data:  map[string]string{"state": s.State, "party": s.Party.String()},
			Popup: s.Tooltip.Lines(),
		})
	}
	totals := make([]scene.Node, 0, len(l.Totals))
	for _, t := range l.Totals {
		totals = append(totals, scene.Node{
			Key:    t.Party.String(),
			Tag:    scene.Text,
			Class:  "electoralVoteText " + t.Party.Class(),
			X:      t.X,
			Y:      LabelY,
			Anchor: t.Anchor,
			Text:   strconv.Itoa(t.EV),
		})
	}
	midline := []scene.Node{{
		Key:    "middlePoint",
		Tag:    scene.Line,
		Class:  "middlePoint",
		X:      l.Midline, Y: MidlineY1, X2: l.Midline, Y2: MidlineY2,
		Hidden: l.Empty(),
	}}
	note := []scene.Node{{
		Key:   "note",
		Tag:   scene.Text,
		Class: "electoralVotesNote",
		X:     l.Midline, Y: LabelY,
		Text:  l.Note,
	}}

	for _, j := range []struct {
		layer string
		nodes []scene.Node
	}{
		{LayerBars, bars},
		{LayerTotals, totals},
		{LayerMidline, midline},
		{LayerNote, note},
	} {
		if _, err := c.scene.Layer(j.layer).Join(j.nodes); err != nil {
			return nil, err
		}
	}

	if l.Empty() {
		c.scene.SetBrush(nil)
	} else {
		c.scene.SetBrush(&scene.Brush{X0: 0, Y0: BrushY0, X1: c.frame.Width, Y1: BrushY1})
	}
	c.layout = l
	return l, nil
}

// Contains reports whether the closed range [start, end] covers the whole
// segment [x, x+width].
func Contains(start, end, x, width float64) bool {
	return start <= x && end >= x+width
}

// Brush selects every segment fully inside [start, end], pushes the state
// names to the selection and returns them in bar order. A reversed range is
// swapped. Before the first render the selection is empty.
func (c *Chart) Brush(start, end float64) []string {
	if start > end {
		start, end = end, start
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	var states []string
	if c.layout != nil {
		for _, s := range c.layout.Segments {
			if Contains(start, end, s.X, s.Width) {
				states = append(states, s.State)
			}
		}
	}
	if c.brush != nil {
		c.brush.Render(states)
	}
	return states
}

// ClearBrush empties the selection.
func (c *Chart) ClearBrush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.brush != nil {
		c.brush.Render(nil)
	}
}

// Layout returns the most recent layout, or nil before the first render.
func (c *Chart) Layout() *Layout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}
