// Package render turns chart scenes into output documents.
//
// # Overview
//
// Charts never draw directly. Each one owns a [scene.Scene] that it updates
// with keyed joins; the subpackages here read those scenes:
//
//   - [scene]: the retained node/layer model with enter/update/exit joins
//   - [svg]: standalone SVG documents with popups and the brush overlay
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	doc := svg.Render(chart.Scene().Snapshot())
//	pdf, err := render.ToPDF(ctx, doc)
//	png, err := render.ToPNG(ctx, doc, 2.0)  // 2x scale
//
// PNGs get a white background. When the tool is missing both return an
// UNSUPPORTED error, and a cancelled context gives TIMEOUT; callers can check
// [Available] first.
//
// [scene]: github.com/matzehuels/electoral/pkg/render/scene
// [svg]: github.com/matzehuels/electoral/pkg/render/svg
package render
