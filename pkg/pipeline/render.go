package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/dashboard"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/observability"
	"github.com/matzehuels/electoral/pkg/render"
	"github.com/matzehuels/electoral/pkg/render/svg"
)

// Render renders every chart in opts.Charts in every format in opts.Formats.
// The dashboard must hold a successful selection.
func Render(ctx context.Context, d *dashboard.Dashboard, opts Options) (map[string]map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	out := make(map[string]map[string][]byte, len(opts.Charts))
	for _, name := range opts.Charts {
		artifacts, err := RenderChart(ctx, d, name, opts)
		if err != nil {
			return nil, err
		}
		out[name] = artifacts
	}
	return out, nil
}

// RenderChart renders one chart in every format in opts.Formats.
func RenderChart(ctx context.Context, d *dashboard.Dashboard, name string, opts Options) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, name, opts.Formats)
	artifacts, err := renderChart(ctx, d, name, opts)
	hooks.OnRenderComplete(ctx, name, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderChart(ctx context.Context, d *dashboard.Dashboard, name string, opts Options) (map[string][]byte, error) {
	ch, err := d.Charts().Get(name)
	if err != nil {
		return nil, err
	}

	var svgData []byte
	svgOnce := func() []byte {
		if svgData == nil {
			svgData = svg.Render(ch.Scene().Snapshot(), svgOptions(d, name, opts)...)
		}
		return svgData
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgOnce(), opts.PNGScale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgOnce())
		case FormatJSON:
			data, err = MarshalChart(d, name)
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s %s: %w", name, format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func svgOptions(d *dashboard.Dashboard, name string, opts Options) []svg.Option {
	var out []svg.Option
	if snap := d.Snapshot(); snap != nil {
		out = append(out, svg.WithTitle(fmt.Sprintf("%s %d", name, snap.Year)))
	}
	if opts.Popups {
		out = append(out, svg.WithPopups())
	}
	return out
}

// MarshalChart encodes the computed layout of one chart as indented JSON.
func MarshalChart(d *dashboard.Dashboard, name string) ([]byte, error) {
	charts := d.Charts()
	snap := d.Snapshot()

	var v any
	switch name {
	case chart.YearChart:
		v = charts.Year.Layout()
	case chart.BrushSelection:
		v = struct {
			States []string `json:"states"`
		}{charts.Brush.States()}
	case chart.ElectoralVote, chart.VotesPercentage, chart.Tiles:
		if snap == nil {
			return nil, errors.New(errors.ErrCodeNotFound, "no year selected")
		}
		switch name {
		case chart.ElectoralVote:
			v = snap.Electoral
		case chart.VotesPercentage:
			v = snap.Percentage
		default:
			v = snap.Tiles
		}
	default:
		return nil, chart.ValidateName(name)
	}
	return json.MarshalIndent(v, "", "  ")
}
