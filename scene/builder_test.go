package scene

import (
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/labelview/label"
)

func buildScene(t *testing.T, src string) *Result {
	t.Helper()
	doc, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("解析场景失败: %v", err)
	}
	res, err := Build(doc)
	if err != nil {
		t.Fatalf("构建场景失败: %v", err)
	}
	return res
}

func TestBuildFullScene(t *testing.T) {
	res := buildScene(t, `scene Demo v1 {
  viewport { size: [6in, 90mm]; background: #000 }
  camera { position: [1, 2, 30]; target: [1, 2, 0]; up: [0, 1, 0]; fov: 10; projection: ortho }
  vis { radius: 0.35 }
  types {
    type 1 "Cu" radius 1.28 color #c87533
    type 2 name O
  }
  particles {
    property "Particle Identifier" int
    property "Position" float
    property "Particle Type" int
    property "Radius" float
    p 10 0 0 0 1 0
    p 11 1 1 1 2 0.8
  }
}`)
	if res.Name != "Demo" {
		t.Fatalf("name = %s", res.Name)
	}
	if math.Abs(res.Viewport.Width-152.4) > 1e-9 || res.Viewport.Height != 90 {
		t.Fatalf("viewport size = %gx%g", res.Viewport.Width, res.Viewport.Height)
	}
	if res.Viewport.Background != label.Black {
		t.Fatalf("background = %+v", res.Viewport.Background)
	}
	if !res.Camera.Orthographic || res.Camera.FOV != 10 || res.Camera.Target != (label.Vec3{X: 1, Y: 2}) {
		t.Fatalf("camera = %+v", res.Camera)
	}
	if res.VisRadius != 0.35 {
		t.Fatalf("vis radius = %g", res.VisRadius)
	}
	if len(res.Types) != 2 || res.Types[1].Name != "Cu" || res.Types[1].Radius != 1.28 || res.Types[2].Name != "O" {
		t.Fatalf("types = %+v", res.Types)
	}
	if c := res.Types[1].Color; math.Abs(c.R-200.0/255) > 1e-9 {
		t.Fatalf("type color = %+v", c)
	}

	set := res.Particles
	if set.Count() != 2 {
		t.Fatalf("count = %d", set.Count())
	}
	if got := set.Position(1); got != (label.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Fatalf("position = %+v", got)
	}
	col, ok := set.Attribute("Particle Identifier")
	if !ok || col.Value(1) != int64(11) {
		t.Fatalf("identifier column missing")
	}
	if _, ok := set.Attribute("Position.Z"); !ok {
		t.Fatalf("default Position components must be X Y Z")
	}
	if got := label.ResolveRadius(set, res.Types.Table(), 0, res.VisRadius); got != 1.28 {
		t.Fatalf("particle 0 radius = %g, want type radius", got)
	}
	if got := label.ResolveRadius(set, res.Types.Table(), 1, res.VisRadius); got != 0.8 {
		t.Fatalf("particle 1 radius = %g, want explicit radius", got)
	}
}

func TestBuildDefaults(t *testing.T) {
	res := buildScene(t, `scene Empty v1 { }`)
	if res.Viewport.Width != defaultViewportWidth || res.Viewport.Height != defaultViewportHeight {
		t.Fatalf("default viewport = %+v", res.Viewport)
	}
	if res.VisRadius != defaultVisRadius {
		t.Fatalf("default vis radius = %g", res.VisRadius)
	}
	if res.Particles.Count() != 0 {
		t.Fatalf("expected no particles")
	}
	if res.Types.Table() != nil {
		t.Fatalf("expected no type table")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := map[string]string{
		"row width":       `scene S v1 { particles { property "Position" float; p 1 2 } }`,
		"int value":       `scene S v1 { particles { property "Position" float; property "Id" int; p 1 2 3 4.5 } }`,
		"property kind":   `scene S v1 { particles { property "Position" double } }`,
		"late property":   `scene S v1 { particles { property "Position" float; p 1 2 3; property "Id" int } }`,
		"missing pos":     `scene S v1 { particles { property "Id" int; p 1 } }`,
		"camera field":    `scene S v1 { camera { zoom: 2 } }`,
		"camera vector":   `scene S v1 { camera { position: [1, 2] } }`,
		"camera degen":    `scene S v1 { camera { position: [0, 0, 0]; target: [0, 0, 0] } }`,
		"projection":      `scene S v1 { camera { projection: fisheye } }`,
		"viewport size":   `scene S v1 { viewport { size: [0, 10] } }`,
		"type arg":        `scene S v1 { types { type 1 radius } }`,
		"type id":         `scene S v1 { types { type x } }`,
		"type color":      `scene S v1 { types { type 1 color red } }`,
		"types command":   `scene S v1 { types { kind 1 } }`,
		"vis field":       `scene S v1 { vis { size: 1 } }`,
		"particles cmd":   `scene S v1 { particles { property "Position" float; q 1 2 3 } }`,
		"no declaration":  `scene S v1 { particles { p 1 2 3 } }`,
		"background text": `scene S v1 { viewport { background: white } }`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := ParseString(src)
			if err != nil {
				t.Fatalf("解析失败: %v", err)
			}
			if _, err := Build(doc); err == nil {
				t.Fatalf("expected build error")
			}
		})
	}
}

func TestBuildErrorCarriesPosition(t *testing.T) {
	doc, err := ParseString("scene S v1 {\n  particles {\n    property \"Position\" float\n    p 1 2\n  }\n}")
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	_, err = Build(doc)
	if err == nil || !strings.Contains(err.Error(), "4:") {
		t.Fatalf("expected error mentioning line 4, got %v", err)
	}
}
