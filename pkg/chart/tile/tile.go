// Package tile draws the cartogram: one equally sized tile per state, placed
// on the fixed grid and colored by the winner's margin.
package tile

import (
	"strconv"

	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/chart/tooltip"
	"github.com/matzehuels/electoral/pkg/colorscale"
	"github.com/matzehuels/electoral/pkg/election"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/grid"
	"github.com/matzehuels/electoral/pkg/render/scene"
)

// Layer names in drawing order.
const (
	LayerLegend         = "legend"
	LayerLegendLabels   = "legend-labels"
	LayerTiles          = "tiles"
	LayerAbbreviations  = "abbreviations"
	LayerElectoralVotes = "electoral-votes"
)

const (
	// LegendHeight is the band reserved above the map for the legend.
	LegendHeight = 50.0

	legendSwatchY      = 10.0
	legendSwatchHeight = 10.0
	legendLabelY       = 35.0
	gutter             = 2.0
)

// Tile is the computed placement of one state.
type Tile struct {
	Abbreviation string          `json:"abbreviation"`
	State        string          `json:"state"`
	Cell         grid.Cell       `json:"cell"`
	Party        election.Party  `json:"party"`
	Margin       float64         `json:"margin"`
	Fill         string          `json:"fill"`
	EV           int             `json:"ev"`
	X            float64         `json:"x"`
	Y            float64         `json:"y"`
	Width        float64         `json:"width"`
	Height       float64         `json:"height"`
	Tooltip      tooltip.Payload `json:"tooltip"`
}

// CenterX is the horizontal centre of the tile.
func (t Tile) CenterX() float64 { return t.X + t.Width/2 }

// AbbreviationY is the baseline of the state code.
func (t Tile) AbbreviationY() float64 { return t.Y + t.Height/2 }

// ElectoralVotesY is the baseline of the electoral-vote count.
func (t Tile) ElectoralVotesY() float64 { return t.Y + t.Height*3/4 + 3 }

// Layout is the result of one render.
type Layout struct {
	Year       int                     `json:"year"`
	MaxColumns int                     `json:"max_columns"`
	MaxRows    int                     `json:"max_rows"`
	TileWidth  float64                 `json:"tile_width"`
	TileHeight float64                 `json:"tile_height"`
	Tiles      []Tile                  `json:"tiles"`
	Legend     []colorscale.LegendCell `json:"legend"`
}

// Chart is the tile map.
type Chart struct {
	frame chart.Frame
	scene *scene.Scene
}

// New creates a tile chart. A zero height defaults to width/1.5.
func New(frame chart.Frame) *Chart {
	frame = frame.WithDefaults(func(w float64) float64 { return w / 1.5 })
	c := &Chart{
		frame: frame,
		scene: scene.New(chart.Tiles, frame.Width, frame.Height+LegendHeight),
	}
	for _, name := range []string{LayerLegend, LayerLegendLabels, LayerTiles, LayerAbbreviations, LayerElectoralVotes} {
		c.scene.Layer(name)
	}
	return c
}

// Name returns the chart name.
func (c *Chart) Name() string { return chart.Tiles }

// Scene returns the scene the chart draws into.
func (c *Chart) Scene() *scene.Scene { return c.scene }

// Frame returns the map area size, excluding the legend band.
func (c *Chart) Frame() chart.Frame { return c.frame }

// Compute lays out ds without touching the scene. Every abbreviation must be
// on the grid.
func (c *Chart) Compute(ds *election.Dataset, scale *colorscale.Quantile) (*Layout, error) {
	if ds == nil || scale == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tile chart needs a dataset and a color scale")
	}
	cells, err := grid.LocateAll(ds.Abbreviations())
	if err != nil {
		return nil, err
	}

	// The grid table is drawn transposed: table rows run along x.
	maxColumns, maxRows := grid.Extent(cells)
	maxColumns, maxRows = max(maxColumns, 1), max(maxRows, 1)

	w, h := c.frame.Width, c.frame.Height
	colScale := chart.Linear{D1: float64(maxColumns), R1: w - w/float64(maxColumns)}
	rowScale := chart.Linear{D1: float64(maxRows), R1: h - 2.4*h/float64(maxRows)}

	l := &Layout{
		Year:       ds.Year,
		MaxColumns: maxColumns,
		MaxRows:    maxRows,
		TileWidth:  colScale.At(1) - gutter,
		TileHeight: rowScale.At(1) - gutter,
		Tiles:      make([]Tile, 0, len(ds.Records)),
		Legend:     scale.Legend(),
	}
	for _, r := range ds.Records {
		cell := cells[r.Abbreviation]
		t := Tile{
			Abbreviation: r.Abbreviation,
			State:        r.State,
			Cell:         cell,
			Party:        election.Winner(r),
			EV:           r.TotalEV,
			X:            colScale.At(float64(cell.Row)),
			Y:            LegendHeight + rowScale.At(float64(cell.Col)),
			Width:        l.TileWidth,
			Height:       l.TileHeight,
			Tooltip:      tooltip.ForState(r),
		}
		if m, ok := election.SignedMargin(r); ok {
			t.Margin = m
			t.Fill = scale.ColorFor(m)
		} else {
			t.Margin = election.WinMargin(r)
			t.Fill = colorscale.Independent
		}
		l.Tiles = append(l.Tiles, t)
	}
	return l, nil
}

// Render computes the layout and joins it into the scene. On error the
// scene is left as it was.
func (c *Chart) Render(ds *election.Dataset, scale *colorscale.Quantile) (*Layout, error) {
	l, err := c.Compute(ds, scale)
	if err != nil {
		return nil, err
	}

	legend, legendLabels := legendNodes(l.Legend, c.frame.Width)
	n := len(l.Tiles)
	tiles := make([]scene.Node, 0, n)
	abbrs := make([]scene.Node, 0, n)
	evs := make([]scene.Node, 0, n)
	for _, t := range l.Tiles {
		tiles = append(tiles, scene.Node{
			Key:   t.Abbreviation,
			Tag:   scene.Rect,
			Class: "tile " + t.Party.Class(),
			X:     t.X, Y: t.Y, W: t.Width, H: t.Height,
			Fill:  t.Fill,
			Data:  map[string]string{"state": t.State, "party": t.Party.String()},
			Popup: t.Tooltip.Lines(),
		})
		abbrs = append(abbrs, scene.Node{
			Key:    t.Abbreviation,
			Tag:    scene.Text,
			Class:  "tilestext",
			X:      t.CenterX(),
			Y:      t.AbbreviationY(),
			Anchor: scene.AnchorMiddle,
			Text:   t.Abbreviation,
		})
		evs = append(evs, scene.Node{
			Key:    t.Abbreviation,
			Tag:    scene.Text,
			Class:  "tilestext",
			X:      t.CenterX(),
			Y:      t.ElectoralVotesY(),
			Anchor: scene.AnchorMiddle,
			Text:   strconv.Itoa(t.EV),
		})
	}

	joins := []struct {
		layer string
		nodes []scene.Node
	}{
		{LayerLegend, legend},
		{LayerLegendLabels, legendLabels},
		{LayerTiles, tiles},
		{LayerAbbreviations, abbrs},
		{LayerElectoralVotes, evs},
	}
	for _, j := range joins {
		if _, err := c.scene.Layer(j.layer).Join(j.nodes); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func legendNodes(cells []colorscale.LegendCell, width float64) (swatches, labels []scene.Node) {
	if len(cells) == 0 {
		return nil, nil
	}
	step := width / float64(len(cells))
	for i, cell := range cells {
		key := strconv.Itoa(i)
		swatches = append(swatches, scene.Node{
			Key:   key,
			Tag:   scene.Rect,
			Class: "swatch",
			X:     float64(i) * step,
			Y:     legendSwatchY,
			W:     step - gutter,
			H:     legendSwatchHeight,
			Fill:  cell.Color,
		})
		labels = append(labels, scene.Node{
			Key:    key,
			Tag:    scene.Text,
			Class:  "legendCells",
			X:      float64(i)*step + (step-gutter)/2,
			Y:      legendLabelY,
			Anchor: scene.AnchorMiddle,
			Text:   cell.Label,
		})
	}
	return swatches, labels
}
