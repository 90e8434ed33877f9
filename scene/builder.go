package scene

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/labelview/label"
	"github.com/ByLCY/labelview/particles"
	"github.com/ByLCY/labelview/viewport"
)

const (
	defaultVisRadius      = 0.5
	defaultViewportWidth  = 160.0 // mm
	defaultViewportHeight = 120.0 // mm
)

// Result 是场景文件构建后的单帧数据：视口、相机、粒子与类型表。
type Result struct {
	Name      string          `json:"name"`
	Viewport  Viewport        `json:"viewport"`
	Camera    viewport.Camera `json:"camera"`
	Particles *particles.Set  `json:"-"`
	Types     particles.Types `json:"types"`
	VisRadius float64         `json:"visRadius"` // 全局兜底半径
}

// Viewport 记录输出尺寸（毫米）与背景色。
type Viewport struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Background label.Color `json:"background"`
}

// Aspect 返回宽高比。
func (v Viewport) Aspect() float64 { return v.Width / v.Height }

// Build 根据场景 AST 生成粒子数据、相机与视口。
func Build(doc *Document) (*Result, error) {
	if doc == nil {
		return nil, fmt.Errorf("场景为空")
	}
	res := &Result{
		Name: doc.Name,
		Viewport: Viewport{
			Width:      defaultViewportWidth,
			Height:     defaultViewportHeight,
			Background: label.White,
		},
		Camera:    viewport.DefaultCamera(),
		Types:     particles.Types{},
		VisRadius: defaultVisRadius,
	}

	var particleSection *ParticlesSection
	for _, section := range doc.Sections {
		var err error
		switch {
		case section.Viewport != nil:
			err = applyViewport(section.Viewport.Block, &res.Viewport)
		case section.Camera != nil:
			err = applyCamera(section.Camera.Block, &res.Camera)
		case section.Vis != nil:
			err = applyVis(section.Vis.Block, res)
		case section.Types != nil:
			err = collectTypes(section.Types.Block, res.Types)
		case section.Particles != nil:
			particleSection = section.Particles
		}
		if err != nil {
			return nil, err
		}
	}

	if err := res.Camera.Validate(); err != nil {
		return nil, err
	}
	if !(res.Viewport.Width > 0 && res.Viewport.Height > 0) {
		return nil, fmt.Errorf("viewport 尺寸必须为正数: %gx%g", res.Viewport.Width, res.Viewport.Height)
	}

	set, err := buildParticles(particleSection)
	if err != nil {
		return nil, err
	}
	res.Particles = set
	return res, nil
}

func applyViewport(block *Block, vp *Viewport) error {
	for _, a := range assignments(block) {
		var err error
		switch a.Key {
		case "size":
			items := arrayItems(a.Value)
			if len(items) != 2 {
				return fmt.Errorf("%s: viewport size 需要两个长度", a.Pos)
			}
			if vp.Width, err = lengthValue(items[0]); err == nil {
				vp.Height, err = lengthValue(items[1])
			}
		case "width":
			vp.Width, err = lengthValue(a.Value)
		case "height":
			vp.Height, err = lengthValue(a.Value)
		case "background":
			vp.Background, err = label.ParseColor(valueToString(a.Value))
		default:
			err = fmt.Errorf("未知字段 %s", a.Key)
		}
		if err != nil {
			return fmt.Errorf("%s: viewport: %w", a.Pos, err)
		}
	}
	return nil
}

func applyCamera(block *Block, cam *viewport.Camera) error {
	for _, a := range assignments(block) {
		var err error
		switch a.Key {
		case "position":
			cam.Position, err = vec3Value(a.Value)
		case "target":
			cam.Target, err = vec3Value(a.Value)
		case "up":
			cam.Up, err = vec3Value(a.Value)
		case "fov":
			cam.FOV, err = numberValue(a.Value)
		case "projection":
			switch strings.ToLower(valueToString(a.Value)) {
			case "perspective":
				cam.Orthographic = false
			case "ortho", "orthographic", "parallel":
				cam.Orthographic = true
			default:
				err = fmt.Errorf("未知投影方式 %s", valueToString(a.Value))
			}
		default:
			err = fmt.Errorf("未知字段 %s", a.Key)
		}
		if err != nil {
			return fmt.Errorf("%s: camera: %w", a.Pos, err)
		}
	}
	return nil
}

func applyVis(block *Block, res *Result) error {
	for _, a := range assignments(block) {
		var err error
		switch a.Key {
		case "radius":
			res.VisRadius, err = numberValue(a.Value)
		default:
			err = fmt.Errorf("未知字段 %s", a.Key)
		}
		if err != nil {
			return fmt.Errorf("%s: vis: %w", a.Pos, err)
		}
	}
	return nil
}

// collectTypes 解析 `type <id> ["name"] [radius <r>] [color <#hex>]`。
func collectTypes(block *Block, types particles.Types) error {
	for _, cmd := range commands(block) {
		if cmd.Name != "type" {
			return fmt.Errorf("%s: types 中未知的命令 %s", cmd.Pos, cmd.Name)
		}
		if len(cmd.Args) == 0 {
			return fmt.Errorf("%s: type 缺少编号", cmd.Pos)
		}
		id, err := strconv.Atoi(cmd.Args[0].Value)
		if err != nil {
			return fmt.Errorf("%s: type 编号 %q 无效", cmd.Pos, cmd.Args[0].Value)
		}
		pt := particles.ParticleType{ID: id, Color: label.Color{R: 0.6, G: 0.6, B: 0.6}}
		rest := cmd.Args[1:]
		if len(rest) > 0 && rest[0].Type == "String" {
			pt.Name = rest[0].Value
			rest = rest[1:]
		}
		if len(rest)%2 != 0 {
			return fmt.Errorf("%s: type %d 的参数必须成对出现", cmd.Pos, id)
		}
		for i := 0; i < len(rest); i += 2 {
			key, val := rest[i].Value, rest[i+1].Value
			switch key {
			case "name":
				pt.Name = val
			case "radius":
				if pt.Radius, err = strconv.ParseFloat(val, 64); err != nil {
					return fmt.Errorf("%s: type %d 的半径 %q 无效", cmd.Pos, id, val)
				}
			case "color":
				if pt.Color, err = label.ParseColor(val); err != nil {
					return fmt.Errorf("%s: type %d: %w", cmd.Pos, id, err)
				}
			default:
				return fmt.Errorf("%s: type %d 未知参数 %s", cmd.Pos, id, key)
			}
		}
		types[id] = pt
	}
	return nil
}

type columnDef struct {
	name       string
	kind       particles.Kind
	components []string
}

// buildParticles 解析 `property "<name>" int|float [components...]` 声明与 `p <values...>` 行。
func buildParticles(section *ParticlesSection) (*particles.Set, error) {
	if section == nil {
		set := particles.NewSet(0)
		if err := set.Add(particles.NewProperty(particles.PositionProperty, particles.Float, 0, "X", "Y", "Z")); err != nil {
			return nil, err
		}
		return set, nil
	}

	var defs []columnDef
	var rows []*Command
	for _, cmd := range commands(section.Block) {
		switch cmd.Name {
		case "property":
			if len(rows) > 0 {
				return nil, fmt.Errorf("%s: property 必须在数据行之前声明", cmd.Pos)
			}
			def, err := parseColumnDef(cmd)
			if err != nil {
				return nil, err
			}
			defs = append(defs, def)
		case "p", "row":
			rows = append(rows, cmd)
		default:
			return nil, fmt.Errorf("%s: particles 中未知的命令 %s", cmd.Pos, cmd.Name)
		}
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("%s: particles 段缺少 property 声明", section.Pos)
	}

	props := make([]*particles.Property, len(defs))
	width := 0
	for i, def := range defs {
		props[i] = particles.NewProperty(def.name, def.kind, len(rows), def.components...)
		width += props[i].Width()
	}

	for r, cmd := range rows {
		if len(cmd.Args) != width {
			return nil, fmt.Errorf("%s: 第 %d 行有 %d 个值，期望 %d 个", cmd.Pos, r+1, len(cmd.Args), width)
		}
		cursor := 0
		for _, prop := range props {
			w := prop.Width()
			for c := 0; c < w; c++ {
				raw := cmd.Args[cursor].Value
				idx := r*w + c
				if prop.Kind == particles.Float {
					v, err := strconv.ParseFloat(raw, 64)
					if err != nil {
						return nil, fmt.Errorf("%s: 属性 %s 的值 %q 不是数字", cmd.Pos, prop.Name, raw)
					}
					prop.Floats[idx] = v
				} else {
					v, err := strconv.ParseInt(raw, 10, 64)
					if err != nil {
						return nil, fmt.Errorf("%s: 属性 %s 的值 %q 不是整数", cmd.Pos, prop.Name, raw)
					}
					prop.Ints[idx] = v
				}
				cursor++
			}
		}
	}

	set := particles.NewSet(len(rows))
	for _, prop := range props {
		if err := set.Add(prop); err != nil {
			return nil, err
		}
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", section.Pos, err)
	}
	return set, nil
}

func parseColumnDef(cmd *Command) (columnDef, error) {
	if len(cmd.Args) < 2 {
		return columnDef{}, fmt.Errorf("%s: property 需要名称与类型", cmd.Pos)
	}
	def := columnDef{name: cmd.Args[0].Value}
	switch strings.ToLower(cmd.Args[1].Value) {
	case "int":
		def.kind = particles.Int
	case "float":
		def.kind = particles.Float
	default:
		return columnDef{}, fmt.Errorf("%s: 属性 %s 的类型 %q 无效（int 或 float）", cmd.Pos, def.name, cmd.Args[1].Value)
	}
	for _, arg := range cmd.Args[2:] {
		def.components = append(def.components, arg.Value)
	}
	if def.name == particles.PositionProperty && len(def.components) == 0 {
		def.components = []string{"X", "Y", "Z"}
	}
	return def, nil
}

func assignments(block *Block) []*Assignment {
	if block == nil {
		return nil
	}
	var out []*Assignment
	for _, st := range block.Statements {
		if st.Assignment != nil {
			out = append(out, st.Assignment)
		}
	}
	return out
}

func commands(block *Block) []*Command {
	if block == nil {
		return nil
	}
	var out []*Command
	for _, st := range block.Statements {
		if st.Command != nil {
			out = append(out, st.Command)
		}
	}
	return out
}

func valueToString(val *Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Ident != nil:
		return *val.Ident
	default:
		return ""
	}
}

func arrayItems(val *Value) []*Value {
	if val == nil || val.Array == nil {
		return nil
	}
	return val.Array.Values
}

func numberValue(val *Value) (float64, error) {
	if val == nil || val.Number == nil {
		return 0, fmt.Errorf("需要数字，得到 %q", valueToString(val))
	}
	f, err := strconv.ParseFloat(*val.Number, 64)
	if err != nil {
		return 0, fmt.Errorf("数字 %q 无法解析", *val.Number)
	}
	return f, nil
}

func lengthValue(val *Value) (float64, error) {
	if val == nil || val.Number == nil {
		return 0, fmt.Errorf("需要长度，得到 %q", valueToString(val))
	}
	l, err := ParseLength(*val.Number)
	if err != nil {
		return 0, err
	}
	return l.ToMM(), nil
}

func vec3Value(val *Value) (label.Vec3, error) {
	items := arrayItems(val)
	if len(items) != 3 {
		return label.Vec3{}, fmt.Errorf("需要三维向量 [x, y, z]")
	}
	var xyz [3]float64
	for i, item := range items {
		f, err := numberValue(item)
		if err != nil {
			return label.Vec3{}, err
		}
		xyz[i] = f
	}
	return label.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}
