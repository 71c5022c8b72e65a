// Package colorscale maps signed win margins onto the shared dashboard palette.
//
// A [Quantile] scale divides its domain into as many buckets as it has
// colors, using the quantiles of the sorted domain values as bucket edges.
// Scales never change after construction and may be shared by every chart
// and goroutine.
package colorscale

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/matzehuels/electoral/pkg/errors"
)

const (
	// Independent is drawn for states won by a third party; their margins are
	// not looked up on the scale.
	Independent = "#45AD6A"

	// Neutral is returned for inputs the scale cannot place (NaN).
	Neutral = "#cccccc"
)

// DefaultDomain spans -60 to +60 in steps of 10. Negative values are
// Democrat margins, positive values Republican margins.
var DefaultDomain = []float64{-60, -50, -40, -30, -20, -10, 0, 10, 20, 30, 40, 50, 60}

// DefaultColors runs from deep blue through pale tones to deep red.
var DefaultColors = []string{
	"#0066CC", "#0080FF", "#3399FF", "#66B2FF", "#99ccff", "#CCE5FF",
	"#ffcccc", "#ff9999", "#ff6666", "#ff3333", "#FF0000", "#CC0000",
}

// Quantile is an immutable quantile scale.
type Quantile struct {
	domain     []float64
	colors     []string
	thresholds []float64
}

// New builds a scale from domain sample values and output colors. The
// bucket edges are the len(colors)-1 inner quantiles of the sorted domain
// (linear interpolation between closest ranks).
func New(domain []float64, colors []string) (*Quantile, error) {
	if len(colors) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "color scale needs at least one color")
	}
	sorted := make([]float64, 0, len(domain))
	for _, v := range domain {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "color scale needs at least one domain value")
	}
	slices.Sort(sorted)

	q := &Quantile{
		domain: sorted,
		colors: slices.Clone(colors),
	}
	m := len(colors)
	for i := 1; i < m; i++ {
		q.thresholds = append(q.thresholds, quantileSorted(sorted, i, m))
	}
	return q, nil
}

// MustNew is like New but panics on invalid input. It is meant for
// package-level palettes known to be valid.
func MustNew(domain []float64, colors []string) *Quantile {
	q, err := New(domain, colors)
	if err != nil {
		panic(err)
	}
	return q
}

// Default returns the dashboard scale built from DefaultDomain and
// DefaultColors.
func Default() *Quantile {
	return MustNew(DefaultDomain, DefaultColors)
}

// quantileSorted returns the num/den quantile of sorted. The rank is computed
// as an exact fraction so that evenly spaced domains yield exact edges.
func quantileSorted(sorted []float64, num, den int) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64((n-1)*num) / float64(den)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// ColorFor returns the color of the bucket containing x. Values on a bucket
// edge belong to the upper bucket. NaN yields Neutral.
func (q *Quantile) ColorFor(x float64) string {
	if math.IsNaN(x) {
		return Neutral
	}
	return q.colors[q.bucket(x)]
}

func (q *Quantile) bucket(x float64) int {
	return sort.Search(len(q.thresholds), func(i int) bool { return q.thresholds[i] > x })
}

// Thresholds returns a copy of the bucket edges.
func (q *Quantile) Thresholds() []float64 { return slices.Clone(q.thresholds) }

// Colors returns a copy of the output colors.
func (q *Quantile) Colors() []string { return slices.Clone(q.colors) }

// Domain returns a copy of the sorted domain values.
func (q *Quantile) Domain() []float64 { return slices.Clone(q.domain) }

// InvertExtent returns the [lo, hi) interval of inputs mapped to color
// index i. The outermost buckets extend to the domain minimum and maximum.
func (q *Quantile) InvertExtent(i int) (lo, hi float64, err error) {
	if i < 0 || i >= len(q.colors) {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "color index %d out of range", i)
	}
	lo, hi = q.domain[0], q.domain[len(q.domain)-1]
	if i > 0 {
		lo = q.thresholds[i-1]
	}
	if i < len(q.thresholds) {
		hi = q.thresholds[i]
	}
	return lo, hi, nil
}

// LegendCell describes one swatch of the legend.
type LegendCell struct {
	Color string  `json:"color"`
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Label string  `json:"label"`
}

// Legend returns one cell per color, left to right.
func (q *Quantile) Legend() []LegendCell {
	cells := make([]LegendCell, len(q.colors))
	for i, c := range q.colors {
		lo, hi, _ := q.InvertExtent(i)
		cells[i] = LegendCell{
			Color: c,
			Lo:    lo,
			Hi:    hi,
			Label: fmt.Sprintf("%.1f to %.1f", lo, hi),
		}
	}
	return cells
}
