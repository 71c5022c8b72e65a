package svg

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/electoral/pkg/render/scene"
)

const brushCSS = `
    .brush .overlay { fill: transparent; cursor: crosshair; }
    .brush .selection { fill: #777; fill-opacity: 0.3; stroke: #fff; shape-rendering: crispEdges; }`

// brushJS reports the dragged x-range on mouseup. Coordinates are converted to
// viewBox units so they match the scene geometry.
const brushJS = `
    (function() {
      const brush = document.querySelector('g.brush');
      if (!brush) return;
      const root = brush.ownerSVGElement;
      const overlay = brush.querySelector('.overlay');
      const sel = brush.querySelector('.selection');
      const x0 = +overlay.getAttribute('x'), x1 = x0 + +overlay.getAttribute('width');
      let start = null;
      const toX = ev => {
        const pt = root.createSVGPoint();
        pt.x = ev.clientX; pt.y = ev.clientY;
        const p = pt.matrixTransform(root.getScreenCTM().inverse());
        return Math.max(x0, Math.min(x1, p.x));
      };
      const draw = (a, b) => {
        sel.setAttribute('x', Math.min(a, b));
        sel.setAttribute('width', Math.abs(b - a));
        sel.setAttribute('visibility', 'visible');
      };
      overlay.addEventListener('mousedown', ev => { start = toX(ev); draw(start, start); });
      root.addEventListener('mousemove', ev => { if (start !== null) draw(start, toX(ev)); });
      root.addEventListener('mouseup', ev => {
        if (start === null) return;
        const end = toX(ev);
        const detail = {start: Math.min(start, end), end: Math.max(start, end)};
        start = null;
        if (detail.end - detail.start < 1) {
          sel.setAttribute('visibility', 'hidden');
          detail.start = detail.end = null;
        }
        root.dispatchEvent(new CustomEvent('electoral:brush', {bubbles: true, detail: detail}));
        if (window.parent !== window) window.parent.postMessage({type: 'electoral:brush', detail: detail}, '*');
      });
    })();`

func renderBrush(buf *bytes.Buffer, b scene.Brush) {
	buf.WriteString(`  <g class="brush">` + "\n")
	fmt.Fprintf(buf, `    <rect class="overlay" x="%s" y="%s" width="%s" height="%s"/>`+"\n",
		num(b.X0), num(b.Y0), num(b.X1-b.X0), num(b.Y1-b.Y0))
	fmt.Fprintf(buf, `    <rect class="selection" x="%s" y="%s" width="0" height="%s" visibility="hidden"/>`+"\n",
		num(b.X0), num(b.Y0), num(b.Y1-b.Y0))
	buf.WriteString("  </g>\n")
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", brushCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", brushJS)
}
