// Package viewport projects world coordinates onto a 2-D canvas.
//
// Canvas coordinates are measured in canvas heights with the origin in the
// lower-left corner: a visible point has y in [0,1] and x in [0,aspect].
package viewport

import (
	"fmt"
	"math"

	"github.com/ByLCY/labelview/label"
)

// Camera describes a look-at camera. For perspective projection FOV is the
// vertical field of view in degrees; for orthographic projection it is half
// of the visible height in world units.
type Camera struct {
	Position     label.Vec3
	Target       label.Vec3
	Up           label.Vec3
	FOV          float64
	Orthographic bool
}

// DefaultCamera looks down the -Z axis from z=10.
func DefaultCamera() Camera {
	return Camera{
		Position: label.Vec3{Z: 10},
		Up:       label.Vec3{Y: 1},
		FOV:      35,
	}
}

// Validate rejects cameras that cannot build a view basis.
func (c Camera) Validate() error {
	if !(c.FOV > 0) {
		return fmt.Errorf("camera: fov 必须为正数，当前为 %g", c.FOV)
	}
	if !c.Orthographic && c.FOV >= 180 {
		return fmt.Errorf("camera: 透视 fov 必须小于 180 度，当前为 %g", c.FOV)
	}
	dir := c.Target.Sub(c.Position)
	if length(dir) == 0 {
		return fmt.Errorf("camera: position 与 target 重合")
	}
	if length(dir.Cross(c.Up)) == 0 {
		return fmt.Errorf("camera: up 向量与视线方向平行")
	}
	return nil
}

// basis returns the right, up and forward unit vectors.
func (c Camera) basis() (right, up, forward label.Vec3) {
	forward = normalize(c.Target.Sub(c.Position))
	right = normalize(forward.Cross(c.Up))
	up = right.Cross(forward)
	return right, up, forward
}

// halfHeight returns half of the visible world height at the given depth.
func (c Camera) halfHeight(depth float64) float64 {
	if c.Orthographic {
		return c.FOV
	}
	return depth * math.Tan(c.FOV*math.Pi/360)
}

// Project maps p to canvas coordinates for a canvas of the given aspect
// ratio (width/height). ok is false for points at or behind the camera
// plane of a perspective camera.
func (c Camera) Project(p label.Vec3, aspect float64) (pt label.Point, depth float64, ok bool) {
	right, up, forward := c.basis()
	v := p.Sub(c.Position)
	depth = v.Dot(forward)
	if !c.Orthographic && depth <= 0 {
		return label.Point{X: math.NaN(), Y: math.NaN()}, depth, false
	}
	h := c.halfHeight(depth)
	ndcX := v.Dot(right) / h
	ndcY := v.Dot(up) / h
	return label.Point{
		X: aspect/2 + ndcX/2,
		Y: 0.5 + ndcY/2,
	}, depth, true
}

// ProjectLength converts a world length at the depth of p into a fraction
// of the canvas height.
func (c Camera) ProjectLength(p label.Vec3, l float64) (float64, bool) {
	_, _, forward := c.basis()
	depth := p.Sub(c.Position).Dot(forward)
	if !c.Orthographic && depth <= 0 {
		return math.NaN(), false
	}
	return l / (2 * c.halfHeight(depth)), true
}

// Depth returns the distance of p along the view direction.
func (c Camera) Depth(p label.Vec3) float64 {
	_, _, forward := c.basis()
	return p.Sub(c.Position).Dot(forward)
}

func length(v label.Vec3) float64 { return math.Sqrt(v.Dot(v)) }

func normalize(v label.Vec3) label.Vec3 {
	l := length(v)
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}
