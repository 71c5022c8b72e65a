// Package percentage draws the stacked popular-vote bar: one segment per
// party with votes, sized by its share of all votes cast.
package percentage

import (
	"fmt"

	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/chart/tooltip"
	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/render/scene"
)

// Layer names in drawing order.
const (
	LayerBars       = "bars"
	LayerCandidates = "candidates"
	LayerPercents   = "percents"
	LayerMidline    = "midline"
	LayerNote       = "note"
)

// Geometry of the bar and its annotations.
const (
	DefaultHeight = 200.0
	BarY          = 60.0
	BarHeight     = 20.0
	CandidateY    = 30.0
	PercentY      = 50.0
	MidlineY1     = 57.0
	MidlineY2     = 83.0
	NoteY         = 50.0
)

// Note is the caption of the 50% marker.
const Note = "Popular Vote (50%)"

// Segment is one party's share of the bar.
type Segment struct {
	Party   election.Party `json:"party"`
	Nominee string         `json:"nominee"`
	Votes   int64          `json:"votes"`
	Share   float64        `json:"share"`
	X       float64        `json:"x"`
	Width   float64        `json:"width"`
	LabelX  float64        `json:"label_x"`
	Anchor  string         `json:"anchor"`
}

// Label is the percentage text of the segment, e.g. "48.2%".
func (s Segment) Label() string { return fmt.Sprintf("%.1f%%", s.Share*100) }

// Layout is the result of one render.
type Layout struct {
	Year       int             `json:"year"`
	TotalVotes int64           `json:"total_votes"`
	Midline    float64         `json:"midline"`
	Segments   []Segment       `json:"segments"`
	Tooltip    tooltip.Payload `json:"tooltip"`
}

// Empty reports whether no votes were cast.
func (l *Layout) Empty() bool { return l.TotalVotes == 0 }

// Chart is the popular-vote bar.
type Chart struct {
	frame chart.Frame
	scene *scene.Scene
}

// New creates the chart.
func New(frame chart.Frame) *Chart {
	frame = frame.WithDefaults(chart.Fixed(DefaultHeight))
	c := &Chart{frame: frame, scene: scene.New(chart.VotesPercentage, frame.Width, frame.Height)}
	for _, name := range []string{LayerBars, LayerCandidates, LayerPercents, LayerMidline, LayerNote} {
		c.scene.Layer(name)
	}
	return c
}

// Name returns the chart name.
func (c *Chart) Name() string { return chart.VotesPercentage }

// Scene returns the scene the chart draws into.
func (c *Chart) Scene() *scene.Scene { return c.scene }

// Compute aggregates votes per party and lays out the bar without touching
// the scene.
func (c *Chart) Compute(ds *election.Dataset) (*Layout, error) {
	if ds == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "vote percentage chart needs a dataset")
	}
	w := c.frame.Width
	totals := ds.VoteTotals()
	l := &Layout{Year: ds.Year, Midline: w / 2, Tooltip: tooltip.ForTotals(ds)}
	for _, p := range election.Parties {
		l.TotalVotes += totals[p]
	}
	if l.Empty() {
		return l, nil
	}

	for _, p := range election.StackOrder {
		if totals[p] == 0 {
			continue
		}
		l.Segments = append(l.Segments, Segment{
			Party:   p,
			Nominee: ds.Nominee(p),
			Votes:   totals[p],
			Share:   float64(totals[p]) / float64(l.TotalVotes),
		})
	}

	n := len(l.Segments)
	widthScale := chart.Linear{D1: 1, R1: max(w-float64(n)+1, 0)}
	x := 0.0
	for i := range l.Segments {
		s := &l.Segments[i]
		s.X = x
		s.Width = widthScale.At(s.Share)
		x += 1 + s.Width
		switch {
		case i == 0:
			s.LabelX, s.Anchor = s.X, scene.AnchorStart
		case i == n-1:
			s.LabelX, s.Anchor = x, scene.AnchorEnd
		default:
			s.LabelX, s.Anchor = s.X+s.Width/2, scene.AnchorMiddle
		}
	}
	return l, nil
}

// Render computes the layout and joins it into the scene. With no votes the
// bar is empty and the note is hidden.
func (c *Chart) Render(ds *election.Dataset) (*Layout, error) {
	l, err := c.Compute(ds)
	if err != nil {
		return nil, err
	}

	popup := l.Tooltip.Lines()
	var bars, candidates, percents []scene.Node
	for _, s := range l.Segments {
		key := s.Party.String()
		bars = append(bars, scene.Node{
			Key:   key,
			Tag:   scene.Rect,
			Class: "votesPercentage " + s.Party.Class(),
			X:     s.X, Y: BarY, W: s.Width, H: BarHeight,
			Data:  map[string]string{"party": key},
			Popup: popup,
		})
		candidates = append(candidates, scene.Node{
			Key:    key,
			Tag:    scene.Text,
			Class:  "votesPercentageText " + s.Party.Class(),
			X:      s.LabelX,
			Y:      CandidateY,
			Anchor: s.Anchor,
			Text:   s.Nominee,
		})
		percents = append(percents, scene.Node{
			Key:    key,
			Tag:    scene.Text,
			Class:  "votesPercentageText " + s.Party.Class(),
			X:      s.LabelX,
			Y:      PercentY,
			Anchor: s.Anchor,
			Text:   s.Label(),
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
		Key:    "note",
		Tag:    scene.Text,
		Class:  "votesPercentageNote",
		X:      l.Midline,
		Y:      NoteY,
		Text:   Note,
		Hidden: l.Empty(),
	}}

	for _, j := range []struct {
		layer string
		nodes []scene.Node
	}{
		{LayerBars, bars},
		{LayerCandidates, candidates},
		{LayerPercents, percents},
		{LayerMidline, midline},
		{LayerNote, note},
	} {
		if _, err := c.scene.Layer(j.layer).Join(j.nodes); err != nil {
			return nil, err
		}
	}
	return l, nil
}
