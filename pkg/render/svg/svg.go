package svg

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/electoral/pkg/render/scene"
)

const baseCSS = `
    .democrat { fill: #3182bd; }
    .republican { fill: #de2d26; }
    .independent { fill: #45AD6A; }
    text { font-family: sans-serif; font-size: 12px; }
    text.democrat, text.republican, text.independent { stroke: none; }
    .middlePoint { stroke: #333; stroke-width: 2; }
    .electoralVotesNote, .votesPercentageNote { text-anchor: middle; }
    .tilestext { text-anchor: middle; font-size: 11px; }
    .lineChart { stroke: #666; stroke-dasharray: 4 3; }
    .yearChart { stroke: #666; stroke-width: 1; cursor: pointer; }
    .yearChart.highlighted { stroke: #000; stroke-width: 3; }
    .yeartext { text-anchor: middle; }
    .hidden { display: none; }`

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	popups bool
	css    string
	title  string
}

// WithPopups enables hover popups for nodes that carry popup lines.
func WithPopups() Option { return func(r *renderer) { r.popups = true } }

// WithStyle appends css to the embedded stylesheet.
func WithStyle(css string) Option { return func(r *renderer) { r.css += "\n" + css } }

// WithTitle sets the document <title>.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// Render writes snap as a standalone SVG document.
func Render(snap scene.Snapshot, opts ...Option) []byte {
	r := renderer{}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" class="%s" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		EscapeXML(snap.Name), EscapeXML(snap.Name), num(snap.Width), num(snap.Height), num(snap.Width), num(snap.Height))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", EscapeXML(r.title))
	}
	fmt.Fprintf(&buf, "  <style>%s%s\n  </style>\n", baseCSS, r.css)

	var withPopup []scene.Node
	for _, l := range snap.Layers {
		fmt.Fprintf(&buf, `  <g class="%s">`+"\n", EscapeXML(l.Name))
		for _, n := range l.Nodes {
			renderNode(&buf, n, r.popups && len(n.Popup) > 0)
			if r.popups && len(n.Popup) > 0 {
				withPopup = append(withPopup, n)
			}
		}
		buf.WriteString("  </g>\n")
	}

	if snap.Brush != nil {
		renderBrush(&buf, *snap.Brush)
	}

	if len(withPopup) > 0 {
		for _, n := range withPopup {
			renderPopup(&buf, n)
		}
		renderPopupScript(&buf)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderNode(buf *bytes.Buffer, n scene.Node, hover bool) {
	tag := n.Tag
	if tag == scene.Item {
		// SVG has no list element; items become text rows.
		tag = scene.Text
	}
	buf.WriteString("    <")
	buf.WriteString(tag)
	attr(buf, "data-key", n.Key)
	class := n.Class
	if n.Hidden {
		class = strings.TrimSpace(class + " hidden")
	}
	if class != "" {
		attr(buf, "class", class)
	}

	switch n.Tag {
	case scene.Rect:
		attr(buf, "x", num(n.X))
		attr(buf, "y", num(n.Y))
		attr(buf, "width", num(n.W))
		attr(buf, "height", num(n.H))
	case scene.Line:
		attr(buf, "x1", num(n.X))
		attr(buf, "y1", num(n.Y))
		attr(buf, "x2", num(n.X2))
		attr(buf, "y2", num(n.Y2))
	case scene.Circle:
		attr(buf, "cx", num(n.X))
		attr(buf, "cy", num(n.Y))
		attr(buf, "r", num(n.R))
	default:
		attr(buf, "x", num(n.X))
		attr(buf, "y", num(n.Y))
	}
	if n.Fill != "" {
		attr(buf, "style", "fill:"+n.Fill)
	}
	if n.Anchor != "" {
		attr(buf, "text-anchor", n.Anchor)
	}
	keys := make([]string, 0, len(n.Data))
	for k := range n.Data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		attr(buf, "data-"+k, n.Data[k])
	}
	if hover {
		attr(buf, "data-popup", n.Key)
	}

	if n.Text != "" {
		fmt.Fprintf(buf, ">%s</%s>\n", EscapeXML(n.Text), tag)
		return
	}
	buf.WriteString("/>\n")
}

func attr(buf *bytes.Buffer, name, value string) {
	fmt.Fprintf(buf, ` %s="%s"`, name, EscapeXML(value))
}
