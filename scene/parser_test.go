package scene_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/labelview/scene"
)

const sampleScene = `
// 三个铜/氧原子
scene Demo v1 {
  viewport {
    size: [160mm, 120mm]
    background: #fafafa
  }

  camera {
    position: [0, 0, 20]
    target: [0, 0, 0]
    up: [0, 1, 0]
    fov: 35
    projection: perspective
  }

  vis { radius: 0.5 }

  types {
    type 1 "Cu" radius 1.28 color #c87533
    type 2 "O" radius 0
  }

  particles {
    property "Particle Identifier" int
    property "Position" float X Y Z
    property "Particle Type" int
    property "Selection" int
    p 1 0 0 0 1 0
    p 2 -2.5 1e-1 .5 2 1
    p 3 2.5 -1 0 1 0
  }
}
`

func TestParseScene(t *testing.T) {
	doc, err := scene.ParseString(sampleScene)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Demo" || doc.Version != "v1" {
		t.Fatalf("unexpected header: %s %s", doc.Name, doc.Version)
	}
	if len(doc.Sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(doc.Sections))
	}
	kinds := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		kinds = append(kinds, s.Kind())
	}
	if got := strings.Join(kinds, ","); got != "viewport,camera,vis,types,particles" {
		t.Fatalf("unexpected section order: %s", got)
	}

	vp := doc.Sections[0].Viewport.Block.Statements
	size := vp[0].Assignment
	if size == nil || size.Key != "size" || size.Value.Array == nil || len(size.Value.Array.Values) != 2 {
		t.Fatalf("expected size array, got %+v", vp[0])
	}
	if got := *size.Value.Array.Values[0].Number; got != "160mm" {
		t.Fatalf("expected 160mm, got %s", got)
	}
	bg := vp[1].Assignment
	if bg == nil || bg.Value.Color == nil || *bg.Value.Color != "#fafafa" {
		t.Fatalf("expected background color, got %+v", vp[1])
	}

	proj := doc.Sections[1].Camera.Block.Statements[4].Assignment
	if proj == nil || proj.Value.Ident == nil || *proj.Value.Ident != "perspective" {
		t.Fatalf("expected projection ident, got %+v", doc.Sections[1].Camera.Block.Statements[4])
	}

	typeCmd := doc.Sections[3].Types.Block.Statements[0].Command
	if typeCmd == nil || typeCmd.Name != "type" || len(typeCmd.Args) != 6 {
		t.Fatalf("unexpected type command: %+v", typeCmd)
	}
	if typeCmd.Args[1].Type != "String" || typeCmd.Args[1].Value != "Cu" {
		t.Fatalf("expected unquoted type name, got %+v", typeCmd.Args[1])
	}
	if typeCmd.Args[5].Type != "Color" || typeCmd.Args[5].Value != "#c87533" {
		t.Fatalf("expected full hex color, got %+v", typeCmd.Args[5])
	}

	rows := doc.Sections[4].Particles.Block.Statements
	second := rows[5].Command
	if second == nil || second.Name != "p" {
		t.Fatalf("expected particle row, got %+v", rows[5])
	}
	values := make([]string, 0, len(second.Args))
	for _, a := range second.Args {
		if a.Type != "Number" {
			t.Fatalf("row argument %q lexed as %s", a.Raw, a.Type)
		}
		values = append(values, a.Value)
	}
	if got := strings.Join(values, " "); got != "2 -2.5 1e-1 .5 2 1" {
		t.Fatalf("unexpected row values: %s", got)
	}
}

func TestParseSceneSemicolonsAndComments(t *testing.T) {
	src := `scene S v2 { /* block */ vis { radius: 0.3; } # trailing
particles { property "Position" float; p 1 2 3 } }`
	doc, err := scene.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	stmts := doc.Sections[1].Particles.Block.Statements
	if len(stmts) != 2 || stmts[1].Command == nil || len(stmts[1].Command.Args) != 3 {
		t.Fatalf("unexpected particle statements: %+v", stmts)
	}
}

func TestParseSceneRejectsUnknownSection(t *testing.T) {
	if _, err := scene.ParseString(`scene S v1 { lights { } }`); err == nil {
		t.Fatalf("expected parse error for unknown section")
	}
}
