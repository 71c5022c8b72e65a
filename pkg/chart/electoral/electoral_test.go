package electoral

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/chart/brushlist"
	"github.com/matzehuels/electoral/pkg/colorscale"
	"github.com/matzehuels/electoral/pkg/election"
)

func rec(state, abbr string, ev int, d, r, i float64) election.Record {
	return election.Record{
		State: state, Abbreviation: abbr, TotalEV: ev,
		D: election.Result{Nominee: "Dee", Votes: int64(d * 1000), Percentage: d},
		R: election.Result{Nominee: "Arr", Votes: int64(r * 1000), Percentage: r},
		I: election.Result{Nominee: "Eye", Votes: int64(i * 1000), Percentage: i},
	}
}

func dataset() *election.Dataset {
	return &election.Dataset{Year: 2000, Records: []election.Record{
		rec("Bravo", "BB", 5, 50, 45, 5),
		rec("Charlie", "CC", 8, 30, 60, 10),
		rec("Alpha", "AA", 10, 55, 35, 10),
		rec("Delta", "DD", 3, 48, 50, 2),
		rec("Echo", "EE", 4, 20, 20, 60),
	}}
}

func abbrs(segs []Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Abbreviation
	}
	return out
}

func TestRenderOrdering(t *testing.T) {
	c := New(chart.Frame{Width: 800}, nil)
	l, err := c.Render(dataset(), colorscale.Default())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	// I block, then D by descending margin, then R by ascending margin.
	want := []string{"EE", "AA", "BB", "DD", "CC"}
	if got := abbrs(l.Segments); !slices.Equal(got, want) {
		t.Errorf("segment order = %v, want %v", got, want)
	}
}

func TestRenderGeometry(t *testing.T) {
	c := New(chart.Frame{Width: 800}, nil)
	l, err := c.Render(dataset(), colorscale.Default())
	if err != nil {
		t.Fatal(err)
	}
	unit := (800.0 - 5 + 1) / 30
	x := 0.0
	for _, s := range l.Segments {
		if math.Abs(s.X-x) > 1e-9 || math.Abs(s.Width-unit*float64(s.EV)) > 1e-9 {
			t.Errorf("%s at %v width %v, want %v width %v", s.Abbreviation, s.X, s.Width, x, unit*float64(s.EV))
		}
		x += 1 + s.Width
	}
	if math.Abs(l.BarLength-x) > 1e-9 {
		t.Errorf("BarLength = %v, want %v", l.BarLength, x)
	}

	if l.WinNumber != 16 || l.Note != "Electoral Votes (16 needed to win)" {
		t.Errorf("note = %q (%d)", l.Note, l.WinNumber)
	}
	if l.Midline != 400 {
		t.Errorf("Midline = %v, want 400", l.Midline)
	}

	if len(l.Totals) != 3 {
		t.Fatalf("len(Totals) = %d, want 3", len(l.Totals))
	}
	i, d, r := l.Totals[0], l.Totals[1], l.Totals[2]
	if i.Party != election.Independent || i.EV != 4 || i.X != 0 {
		t.Errorf("I total = %+v", i)
	}
	if d.Party != election.Democrat || d.EV != 15 || math.Abs(d.X-(1+4*unit)) > 1e-9 {
		t.Errorf("D total = %+v", d)
	}
	if r.Party != election.Republican || r.EV != 11 || r.X != l.BarLength-1 || r.Anchor != "end" {
		t.Errorf("R total = %+v", r)
	}
}

func TestNoIndependentTotal(t *testing.T) {
	ds := dataset()
	ds.Records = ds.Records[:4]
	l, err := New(chart.Frame{}, nil).Render(ds, colorscale.Default())
	if err != nil {
		t.Fatal(err)
	}
	for _, tot := range l.Totals {
		if tot.Party == election.Independent {
			t.Errorf("independent total drawn with zero votes: %+v", tot)
		}
	}
}

func TestWinNumber(t *testing.T) {
	tests := []struct{ total, want int }{
		{538, 270},
		{537, 269},
		{3, 2},
		{2, 2},
		{1, 1},
	}
	for _, tt := range tests {
		if got := WinNumber(tt.total); got != tt.want {
			t.Errorf("WinNumber(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		want       bool
	}{
		{"covering", 5, 25, true},
		{"exact", 10, 20, true},
		{"inside", 12, 18, false},
		{"left overlap", 5, 15, false},
		{"disjoint", 30, 40, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(tt.start, tt.end, 10, 10); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestBrush(t *testing.T) {
	list := brushlist.New(chart.Frame{})
	c := New(chart.Frame{Width: 800}, list)

	if got := c.Brush(-1, 1000); len(got) != 0 {
		t.Errorf("Brush() before render = %v, want empty", got)
	}

	l, err := c.Render(dataset(), colorscale.Default())
	if err != nil {
		t.Fatal(err)
	}

	all := c.Brush(-1, 1000)
	if want := []string{"Echo", "Alpha", "Bravo", "Delta", "Charlie"}; !slices.Equal(all, want) {
		t.Errorf("Brush(-1, 1000) = %v, want %v", all, want)
	}
	if !slices.Equal(list.States(), all) {
		t.Errorf("selection = %v, want %v", list.States(), all)
	}

	alpha := l.Segments[1]
	got := c.Brush(alpha.End(), alpha.X)
	if !slices.Equal(got, []string{"Alpha"}) {
		t.Errorf("reversed Brush around Alpha = %v", got)
	}

	got = c.Brush(alpha.X+1, alpha.End())
	if len(got) != 0 {
		t.Errorf("partial Brush = %v, want empty", got)
	}

	c.Brush(-1, 1000)
	if _, err := c.Render(dataset(), colorscale.Default()); err != nil {
		t.Fatal(err)
	}
	if len(list.States()) != 0 {
		t.Errorf("Render() did not reset selection: %v", list.States())
	}

	c.Brush(-1, 1000)
	c.ClearBrush()
	if len(list.States()) != 0 {
		t.Errorf("ClearBrush() left %v", list.States())
	}
}

func TestRenderZeroElectoralVotes(t *testing.T) {
	ds := &election.Dataset{Year: 2000, Records: []election.Record{
		rec("Alpha", "AA", 0, 55, 35, 10),
	}}
	c := New(chart.Frame{}, nil)
	l, err := c.Render(ds, colorscale.Default())
	if err != nil {
		t.Fatal(err)
	}
	if !l.Empty() || len(l.Segments) != 0 || l.Note != EmptyNote {
		t.Errorf("layout = %+v", l)
	}
	if n := c.Scene().Layer(LayerBars).Len(); n != 0 {
		t.Errorf("bars layer has %d nodes", n)
	}
	mid, _ := c.Scene().Layer(LayerMidline).Node("middlePoint")
	if !mid.Hidden {
		t.Error("midline visible in empty state")
	}
	if c.Scene().Snapshot().Brush != nil {
		t.Error("brush overlay installed in empty state")
	}
	if got := c.Brush(0, 1000); len(got) != 0 {
		t.Errorf("Brush() in empty state = %v", got)
	}
}

func TestRenderScene(t *testing.T) {
	c := New(chart.Frame{Width: 800}, nil)
	if _, err := c.Render(dataset(), colorscale.Default()); err != nil {
		t.Fatal(err)
	}
	snap := c.Scene().Snapshot()
	if snap.Brush == nil || snap.Brush.Y0 != BrushY0 || snap.Brush.X1 != 800 {
		t.Errorf("brush = %+v", snap.Brush)
	}
	aa, ok := c.Scene().Layer(LayerBars).Node("AA")
	if !ok || aa.Class != "electoralVotes democrat" || aa.Y != BarY || aa.H != BarHeight {
		t.Errorf("AA bar = %+v", aa)
	}
	ee, _ := c.Scene().Layer(LayerBars).Node("EE")
	if ee.Fill != colorscale.Independent {
		t.Errorf("EE fill = %s", ee.Fill)
	}
}

func TestRenderNarrowerThanGutters(t *testing.T) {
	ds := &election.Dataset{Year: 2000}
	for i := range 30 {
		ds.Records = append(ds.Records, rec(fmt.Sprintf("State %d", i), fmt.Sprintf("S%d", i), 3, 55, 45, 0))
	}
	l, err := New(chart.Frame{Width: 20}, nil).Compute(ds, colorscale.Default())
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range l.Segments {
		if s.Width < 0 {
			t.Fatalf("segment %s width = %v, want >= 0", s.Abbreviation, s.Width)
		}
	}
}
