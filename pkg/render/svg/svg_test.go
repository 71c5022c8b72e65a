package svg

import (
	"strings"
	"testing"

	"github.com/matzehuels/electoral/pkg/render/scene"
)

func testScene() *scene.Scene {
	s := scene.New("tiles", 200, 100)
	_, _ = s.Layer("tiles").Join([]scene.Node{
		{Key: "CA", Tag: scene.Rect, Class: "tile", X: 10, Y: 20, W: 30.333, H: 40, Fill: "#0066CC",
			Data: map[string]string{"party": "D"}, Popup: []string{"California", "Clinton: 61.7%"}},
	})
	_, _ = s.Layer("labels").Join([]scene.Node{
		{Key: "CA", Tag: scene.Text, Class: "tilestext", X: 25, Y: 40, Text: "CA & co"},
		{Key: "mid", Tag: scene.Line, X: 100, Y: 47, X2: 100, Y2: 73, Hidden: true},
	})
	return s
}

func TestRender(t *testing.T) {
	out := string(Render(testScene().Snapshot()))

	tests := []struct {
		name string
		want string
	}{
		{"root", `<svg xmlns="http://www.w3.org/2000/svg" id="tiles" class="tiles" viewBox="0 0 200 100"`},
		{"layer group", `<g class="tiles">`},
		{"rect geometry", `x="10" y="20" width="30.33" height="40"`},
		{"fill", `style="fill:#0066CC"`},
		{"data attribute", `data-party="D"`},
		{"escaped text", `>CA &amp; co</text>`},
		{"line", `x1="100" y1="47" x2="100" y2="73"`},
		{"hidden class", `class="hidden"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q\n%s", tt.want, out)
			}
		})
	}
	if strings.Contains(out, `class="popup"`) {
		t.Error("popups rendered without WithPopups")
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document not closed")
	}
}

func TestRenderPopups(t *testing.T) {
	out := string(Render(testScene().Snapshot(), WithPopups(), WithTitle("2016")))
	for _, want := range []string{
		`data-popup="CA"`,
		`<g class="popup" data-for="CA" visibility="hidden">`,
		`class="popup-title" x="8" y="20">California</text>`,
		`<title>2016</title>`,
		"<script",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderBrush(t *testing.T) {
	s := testScene()
	s.SetBrush(&scene.Brush{X0: 0, Y0: 43, X1: 200, Y1: 77})
	out := string(Render(s.Snapshot()))
	if !strings.Contains(out, `<rect class="overlay" x="0" y="43" width="200" height="34"/>`) {
		t.Errorf("brush overlay missing:\n%s", out)
	}
	if !strings.Contains(out, "electoral:brush") {
		t.Error("brush script missing")
	}
}

func TestListItemsBecomeText(t *testing.T) {
	s := scene.New("brush-selection", 200, 100)
	_, _ = s.Layer("states").Join([]scene.Node{{Key: "Texas", Tag: scene.Item, X: 0, Y: 20, Text: "Texas"}})
	out := string(Render(s.Snapshot()))
	if strings.Contains(out, "<li") || !strings.Contains(out, `<text data-key="Texas"`) {
		t.Errorf("list item not rendered as text:\n%s", out)
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`<a href="x">&`); got != "&lt;a href=&#34;x&#34;&gt;&amp;" {
		t.Errorf("EscapeXML() = %q", got)
	}
}
