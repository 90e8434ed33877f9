package canvasrenderer

import (
	"bytes"
	"math"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/labelview/label"
	"github.com/ByLCY/labelview/renderer"
	"github.com/ByLCY/labelview/scene"
)

const demoScene = `scene Demo v1 {
  viewport { size: [80mm, 60mm]; background: #ffffff }
  camera { position: [0, 0, 20]; target: [0, 0, 0] }
  types { type 1 "Cu" radius 0.8 color #c87533 }
  particles {
    property "Particle Identifier" int
    property "Position" float
    property "Particle Type" int
    p 1 0 0 0 1
    p 2 2 1 -1 1
    p 3 -2 -1 1 1
  }
}`

func buildDemo(t *testing.T) *scene.Result {
	t.Helper()
	doc, err := scene.ParseString(demoScene)
	if err != nil {
		t.Fatalf("解析场景失败: %v", err)
	}
	res, err := scene.Build(doc)
	if err != nil {
		t.Fatalf("构建场景失败: %v", err)
	}
	return res
}

func labelLayer() renderer.Layer {
	return renderer.Layer{Overlay: label.Placer{}, Config: label.DefaultConfig()}
}

func TestRenderPDF(t *testing.T) {
	out, err := NewRenderer("").Render(buildDemo(t), []renderer.Layer{labelLayer()})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("expected PDF output, got %q", out[:min(len(out), 8)])
	}
}

func TestRenderPNG(t *testing.T) {
	r := NewRendererWithOptions(Options{Format: FormatPNG, Resolution: 2})
	out, err := r.Render(buildDemo(t), []renderer.Layer{labelLayer()})
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("\x89PNG")) {
		t.Fatalf("expected PNG output")
	}
}

func TestRenderWithoutLayers(t *testing.T) {
	if _, err := NewRenderer("").Render(buildDemo(t), nil); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if _, err := NewRenderer("").Render(nil, nil); err == nil {
		t.Fatalf("expected error for nil scene")
	}
}

func TestRenderPropagatesOverlayFailure(t *testing.T) {
	layer := labelLayer()
	layer.Config.FontSize = 0
	_, err := NewRenderer("").Render(buildDemo(t), []renderer.Layer{layer})
	if err == nil {
		t.Fatalf("expected overlay failure to abort rendering")
	}
}

type fallbackProbe struct{ got float64 }

func (p *fallbackProbe) Render(_ label.Canvas, _ label.EntitySet, _ label.TypeRadiusTable, cfg label.Config) error {
	p.got = cfg.FallbackRadius
	return nil
}

func TestRenderSuppliesFallbackRadius(t *testing.T) {
	res := buildDemo(t)
	probe := &fallbackProbe{}
	if _, err := NewRenderer("").Render(res, []renderer.Layer{{Overlay: probe, Config: label.DefaultConfig()}}); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if probe.got != res.VisRadius {
		t.Fatalf("fallback radius = %g, want %g", probe.got, res.VisRadius)
	}
}

func newView(t *testing.T) *viewCanvas {
	t.Helper()
	res := buildDemo(t)
	c := canvas.New(res.Viewport.Width, res.Viewport.Height)
	return &viewCanvas{r: NewRenderer(""), ctx: canvas.NewContext(c), result: res}
}

func TestViewProjection(t *testing.T) {
	v := newView(t)
	pt, err := v.ProjectLocation(label.Vec3{})
	if err != nil {
		t.Fatalf("project error: %v", err)
	}
	aspect := v.result.Viewport.Aspect()
	if math.Abs(pt.X-aspect/2) > 1e-9 || math.Abs(pt.Y-0.5) > 1e-9 {
		t.Fatalf("target should land at the viewport centre, got %+v", pt)
	}
	l, err := v.ProjectLength(label.Vec3{}, 1)
	if err != nil || !(l > 0) {
		t.Fatalf("project length = %g, %v", l, err)
	}
	behind, _ := v.ProjectLocation(label.Vec3{Z: 40})
	if !math.IsNaN(behind.X) {
		t.Fatalf("point behind the camera should not project, got %+v", behind)
	}
}

func TestViewDrawText(t *testing.T) {
	v := newView(t)
	style := label.DefaultConfig().Style()
	if err := v.DrawText("42", label.Point{X: 0.5, Y: 0.5}, style); err != nil {
		t.Fatalf("draw error: %v", err)
	}
	if err := v.DrawText("nan", label.Point{X: math.NaN(), Y: 0.5}, style); err != nil {
		t.Fatalf("non-finite positions should be declined silently, got %v", err)
	}

	bad := []label.TextStyle{style, style, style, style}
	bad[0].FontSize = 0
	bad[1].OutlineWidth = -1
	bad[2].Color = label.Color{R: 2}
	bad[3].OutlineColor = label.Color{B: -0.1}
	for i, s := range bad {
		if err := v.DrawText("x", label.Point{X: 0.5, Y: 0.5}, s); err == nil {
			t.Fatalf("style %d: expected error", i)
		}
	}
}

func TestPlacerFailureThroughView(t *testing.T) {
	v := newView(t)
	cfg := label.DefaultConfig()
	cfg.OutlineWidth = -1
	err := label.Placer{}.Render(v, v.result.Particles, v.result.Types.Table(), cfg)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPDF, ".png": FormatPNG, "SVG": FormatSVG} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadFontBytes(t *testing.T) {
	r := NewRendererWithOptions(Options{Fonts: map[string]Resource{"Custom": {Bytes: []byte{1}}}})
	if data, err := r.loadFontBytes("built-in:Custom"); err != nil || len(data) != 1 {
		t.Fatalf("built-in font lookup failed: %v", err)
	}
	if _, err := r.loadFontBytes("built-in:Missing"); err == nil {
		t.Fatalf("expected error for missing built-in font")
	}
	if _, err := r.loadFontBytes("relative.ttf"); err == nil {
		t.Fatalf("expected error for path without base dir")
	}
	if data, err := r.loadFontBytes("embed:Go-Mono"); err != nil || len(data) == 0 {
		t.Fatalf("embedded font lookup failed: %v", err)
	}
}

func TestParseFontStyle(t *testing.T) {
	if parseFontStyle("Bold Italic") != canvas.FontBold|canvas.FontItalic {
		t.Fatalf("unexpected style for bold italic")
	}
	if parseFontStyle("") != canvas.FontRegular {
		t.Fatalf("unexpected style for empty string")
	}
}
