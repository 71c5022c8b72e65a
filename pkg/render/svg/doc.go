// Package svg serializes chart scenes into standalone SVG documents.
//
// # Overview
//
// [Render] walks a [scene.Snapshot] layer by layer and writes one SVG group
// per layer. Node classes are carried through unchanged so the host page
// stylesheet controls party colors; explicit fills (tile and bar colors from
// the color scale) are written inline.
//
//	svg := svg.Render(chart.Scene().Snapshot(), svg.WithPopups())
//
// # Interaction
//
//   - [WithPopups]: nodes with popup lines get a hidden tooltip group that is
//     shown on hover.
//   - Brush: scenes that declare a brush overlay get a drag handler that
//     reports the selected x-range to the embedding page via postMessage and
//     a bubbling "electoral:brush" DOM event.
//   - [WithStyle]: extra CSS appended to the embedded stylesheet.
package svg
