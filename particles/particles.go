// Package particles holds per-frame particle data in columnar form and
// exposes it to the label placer.
package particles

import (
	"fmt"

	"github.com/ByLCY/labelview/binding"
	"github.com/ByLCY/labelview/label"
)

// Standard property names.
const (
	PositionProperty   = "Position"
	RadiusProperty     = "Radius"
	SelectionProperty  = "Selection"
	TypeProperty       = "Particle Type"
	IdentifierProperty = "Particle Identifier"
)

// Kind is the storage type of a property.
type Kind int

const (
	Int Kind = iota
	Float
)

func (k Kind) String() string {
	if k == Float {
		return "float"
	}
	return "int"
}

// Property is one named column. Vector properties store their components
// interleaved (row-major), len(Components) values per particle.
type Property struct {
	Name       string
	Components []string
	Kind       Kind
	Ints       []int64
	Floats     []float64
}

// NewProperty allocates a zeroed property with n rows.
func NewProperty(name string, kind Kind, n int, components ...string) *Property {
	p := &Property{Name: name, Kind: kind, Components: components}
	size := n * p.Width()
	if kind == Float {
		p.Floats = make([]float64, size)
	} else {
		p.Ints = make([]int64, size)
	}
	return p
}

// Width returns the number of values per particle.
func (p *Property) Width() int {
	if len(p.Components) == 0 {
		return 1
	}
	return len(p.Components)
}

// Len returns the number of rows.
func (p *Property) Len() int {
	if p.Kind == Float {
		return len(p.Floats) / p.Width()
	}
	return len(p.Ints) / p.Width()
}

// Value returns int64/float64 for scalar properties and a copy of the row
// ([]int64/[]float64) for vector properties.
func (p *Property) Value(i int) any {
	w := p.Width()
	if len(p.Components) == 0 {
		if p.Kind == Float {
			return p.Floats[i]
		}
		return p.Ints[i]
	}
	if p.Kind == Float {
		return append([]float64(nil), p.Floats[i*w:(i+1)*w]...)
	}
	return append([]int64(nil), p.Ints[i*w:(i+1)*w]...)
}

// Float returns component c of row i converted to float64.
func (p *Property) Float(i, c int) float64 {
	idx := i*p.Width() + c
	if p.Kind == Float {
		return p.Floats[idx]
	}
	return float64(p.Ints[idx])
}

// ComponentIndex returns the index of the named component.
func (p *Property) ComponentIndex(name string) (int, bool) {
	for i, c := range p.Components {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Column returns a scalar view of component c.
func (p *Property) Column(c int) label.Column {
	return componentColumn{prop: p, comp: c}
}

type componentColumn struct {
	prop *Property
	comp int
}

func (c componentColumn) Len() int { return c.prop.Len() }

func (c componentColumn) Value(i int) any {
	idx := i*c.prop.Width() + c.comp
	if c.prop.Kind == Float {
		return c.prop.Floats[idx]
	}
	return c.prop.Ints[idx]
}

// Set is the particle container of one frame.
type Set struct {
	count int
	props map[string]*Property
	order []string
}

var _ label.EntitySet = (*Set)(nil)

// NewSet creates an empty container for n particles.
func NewSet(n int) *Set {
	return &Set{count: n, props: map[string]*Property{}}
}

// Add registers p, replacing a property with the same name.
func (s *Set) Add(p *Property) error {
	if p == nil || p.Name == "" {
		return fmt.Errorf("属性缺少名称")
	}
	if p.Len() != s.count {
		return fmt.Errorf("属性 %s 有 %d 行，期望 %d 行", p.Name, p.Len(), s.count)
	}
	if _, ok := s.props[p.Name]; !ok {
		s.order = append(s.order, p.Name)
	}
	s.props[p.Name] = p
	return nil
}

// Get returns the named property.
func (s *Set) Get(name string) (*Property, bool) {
	p, ok := s.props[name]
	return p, ok
}

// Names lists property names in insertion order.
func (s *Set) Names() []string { return append([]string(nil), s.order...) }

// Validate checks the standard properties.
func (s *Set) Validate() error {
	pos, ok := s.props[PositionProperty]
	if !ok {
		return fmt.Errorf("缺少 %s 属性", PositionProperty)
	}
	if pos.Width() != 3 {
		return fmt.Errorf("%s 属性必须有 3 个分量，当前为 %d", PositionProperty, pos.Width())
	}
	for _, name := range []string{RadiusProperty, SelectionProperty, TypeProperty} {
		if p, ok := s.props[name]; ok && p.Width() != 1 {
			return fmt.Errorf("%s 属性必须是标量", name)
		}
	}
	if p, ok := s.props[TypeProperty]; ok && p.Kind != Int {
		return fmt.Errorf("%s 属性必须是整数", TypeProperty)
	}
	return nil
}

func (s *Set) Count() int { return s.count }

func (s *Set) Position(i int) label.Vec3 {
	p := s.props[PositionProperty]
	return label.Vec3{X: p.Float(i, 0), Y: p.Float(i, 1), Z: p.Float(i, 2)}
}

func (s *Set) Selected(i int) bool {
	p, ok := s.props[SelectionProperty]
	if !ok {
		return true
	}
	return p.Float(i, 0) != 0
}

func (s *Set) ExplicitRadius(i int) float64 {
	p, ok := s.props[RadiusProperty]
	if !ok {
		return 0
	}
	return p.Float(i, 0)
}

func (s *Set) TypeID(i int) (int, bool) {
	p, ok := s.props[TypeProperty]
	if !ok {
		return 0, false
	}
	return int(p.Float(i, 0)), true
}

// Attribute resolves a property or component reference. Unknown properties,
// unknown components and malformed references are reported as absent.
func (s *Set) Attribute(ref string) (label.Column, bool) {
	// 属性名本身可能包含 '.' 或 '[' 时按全名优先匹配
	if whole, ok := s.props[ref]; ok {
		return whole, true
	}
	r, err := binding.ParseReference(ref)
	if err != nil {
		return nil, false
	}
	if !r.IsComponent() {
		p, ok := s.props[r.Property]
		if !ok {
			return nil, false
		}
		return p, true
	}
	p, ok := s.props[r.Property]
	if !ok {
		return nil, false
	}
	if r.Component != "" {
		c, ok := p.ComponentIndex(r.Component)
		if !ok {
			return nil, false
		}
		return p.Column(c), true
	}
	if r.Index >= p.Width() || len(p.Components) == 0 {
		return nil, false
	}
	return p.Column(r.Index), true
}

// ParticleType is an entry of the type table.
type ParticleType struct {
	ID     int
	Name   string
	Radius float64
	Color  label.Color
}

// Types maps type ids to particle types.
type Types map[int]ParticleType

var _ label.TypeRadiusTable = Types(nil)

// TypeRadius implements label.TypeRadiusTable.
func (t Types) TypeRadius(id int) (float64, bool) {
	pt, ok := t[id]
	if !ok {
		return 0, false
	}
	return pt.Radius, true
}

// Table returns t as a label.TypeRadiusTable, or nil when t has no entries.
func (t Types) Table() label.TypeRadiusTable {
	if len(t) == 0 {
		return nil
	}
	return t
}
