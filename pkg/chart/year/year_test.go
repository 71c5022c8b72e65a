package year

import (
	"strconv"
	"strings"
	"testing"

	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
)

func summaries() []election.YearSummary {
	return []election.YearSummary{
		{Year: 2000, Party: election.Republican},
		{Year: 1992, Party: election.Democrat},
		{Year: 1996, Party: election.Democrat},
	}
}

func TestRender(t *testing.T) {
	c := New(chart.Frame{Width: 800})
	l, err := c.Render(summaries())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	want := []struct {
		year int
		x    float64
	}{
		{1992, 20},
		{1996, 400},
		{2000, 780},
	}
	for i, w := range want {
		m := l.Markers[i]
		if m.Year != w.year || m.X != w.x {
			t.Errorf("Markers[%d] = %d at %v, want %d at %v", i, m.Year, m.X, w.year, w.x)
		}
	}
	if got := l.Markers[2].Class(); got != "yearChart republican" {
		t.Errorf("Class() = %q", got)
	}
	if n := c.Scene().Layer(LayerMarkers).Len(); n != 3 {
		t.Errorf("markers layer has %d nodes", n)
	}
}

func TestRenderSingleYear(t *testing.T) {
	l, err := New(chart.Frame{Width: 800}).Render(summaries()[:1])
	if err != nil {
		t.Fatal(err)
	}
	if l.Markers[0].X != 20 {
		t.Errorf("single marker at %v, want 20", l.Markers[0].X)
	}
}

func TestRenderDuplicateYear(t *testing.T) {
	s := append(summaries(), election.YearSummary{Year: 1996, Party: election.Republican})
	if _, err := New(chart.Frame{}).Render(s); !errors.Is(err, errors.ErrCodeInvalidYear) {
		t.Errorf("Render() error = %v, want INVALID_YEAR", err)
	}
}

func TestSetActive(t *testing.T) {
	c := New(chart.Frame{})
	if err := c.SetActive(1996); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("SetActive() before render = %v, want NOT_FOUND", err)
	}
	if _, err := c.Render(summaries()); err != nil {
		t.Fatal(err)
	}

	for _, y := range []int{1996, 2000} {
		if err := c.SetActive(y); err != nil {
			t.Fatalf("SetActive(%d) error: %v", y, err)
		}
		highlighted := 0
		for _, n := range c.Scene().Layer(LayerMarkers).Nodes() {
			if strings.HasSuffix(n.Class, HighlightClass) {
				highlighted++
				if n.Key != strconv.Itoa(y) || n.Data["year"] != n.Key {
					t.Errorf("highlighted %s, want %d", n.Key, y)
				}
			}
		}
		if highlighted != 1 {
			t.Errorf("after SetActive(%d): %d highlighted markers, want 1", y, highlighted)
		}
	}
	if c.Active() != 2000 {
		t.Errorf("Active() = %d, want 2000", c.Active())
	}

	if err := c.SetActive(1804); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("SetActive(1804) = %v, want NOT_FOUND", err)
	}
	if c.Active() != 2000 {
		t.Error("failed SetActive changed the highlight")
	}

	// Re-rendering keeps the highlight.
	l, err := c.Render(summaries())
	if err != nil {
		t.Fatal(err)
	}
	if l.Active != 2000 || !l.Markers[2].Active {
		t.Errorf("highlight lost on re-render: %+v", l)
	}
}
