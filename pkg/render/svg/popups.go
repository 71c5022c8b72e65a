package svg

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/electoral/pkg/render/scene"
)

const (
	popupCSS = `
    .popup { pointer-events: none; transition: opacity 0.15s ease; }
    .popup[visibility="hidden"] { opacity: 0; }
    .popup[visibility="visible"] { opacity: 1; }
    .popup rect { fill: #fff; stroke: #333; stroke-width: 1; rx: 4; }
    .popup text { font-size: 12px; }
    .popup text.popup-title { font-weight: bold; }`

	popupJS = `
    (function() {
      const root = (document.currentScript && document.currentScript.closest('svg')) || document.querySelector('svg');
      const vb = root.viewBox.baseVal;
      root.querySelectorAll('[data-popup]').forEach(el => {
        const popup = root.querySelector('.popup[data-for="' + el.dataset.popup + '"]');
        if (!popup) return;
        el.style.cursor = 'pointer';
        el.addEventListener('mouseenter', () => {
          const box = el.getBBox();
          const pb = popup.getBBox();
          let x = box.x + box.width/2 - pb.width/2;
          let y = box.y + box.height + 8;
          if (y + pb.height > vb.y + vb.height - 4) y = box.y - pb.height - 8;
          if (y < vb.y + 4) y = vb.y + 4;
          x = Math.max(vb.x + 4, Math.min(x, vb.x + vb.width - pb.width - 4));
          popup.setAttribute('transform', 'translate(' + x.toFixed(1) + ',' + y.toFixed(1) + ')');
          popup.setAttribute('visibility', 'visible');
        });
        el.addEventListener('mouseleave', () => popup.setAttribute('visibility', 'hidden'));
      });
    })();`
)

// renderPopup writes a hidden tooltip group for n. The first line is drawn
// as the title.
func renderPopup(buf *bytes.Buffer, n scene.Node) {
	w, h := popupSize(n.Popup)
	fmt.Fprintf(buf, `  <g class="popup" data-for="%s" visibility="hidden">`+"\n", EscapeXML(n.Key))
	fmt.Fprintf(buf, `    <rect x="0" y="0" width="%s" height="%s"/>`+"\n", num(w), num(h))
	for i, line := range n.Popup {
		class := "popup-line"
		if i == 0 {
			class = "popup-title"
		}
		y := popupPadding + popupFontSize + float64(i)*popupLineHeight
		fmt.Fprintf(buf, `    <text class="%s" x="%s" y="%s">%s</text>`+"\n",
			class, num(popupPadding), num(y), EscapeXML(line))
	}
	buf.WriteString("  </g>\n")
}

func renderPopupScript(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", popupCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", popupJS)
}
