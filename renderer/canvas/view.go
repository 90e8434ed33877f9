package canvasrenderer

import (
	"fmt"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/labelview/label"
	"github.com/ByLCY/labelview/scene"
)

// viewCanvas adapts a canvas context and the scene camera to label.Canvas.
// Label coordinates are measured in viewport heights with the origin at the
// lower-left corner; the context works in millimetres.
type viewCanvas struct {
	r      *Renderer
	ctx    *canvas.Context
	result *scene.Result
}

var _ label.Canvas = (*viewCanvas)(nil)

// ProjectLocation never fails; points behind the camera come back as NaN and
// DrawText declines them.
func (v *viewCanvas) ProjectLocation(p label.Vec3) (label.Point, error) {
	pt, _, _ := v.result.Camera.Project(p, v.result.Viewport.Aspect())
	return pt, nil
}

func (v *viewCanvas) ProjectLength(p label.Vec3, length float64) (float64, error) {
	l, _ := v.result.Camera.ProjectLength(p, length)
	return l, nil
}

func (v *viewCanvas) DrawText(text string, pos label.Point, style label.TextStyle) error {
	if !(style.FontSize > 0) || math.IsInf(style.FontSize, 0) {
		return fmt.Errorf("字号必须为正数: %g", style.FontSize)
	}
	if !(style.OutlineWidth >= 0) || math.IsInf(style.OutlineWidth, 0) {
		return fmt.Errorf("描边宽度不能为负: %g", style.OutlineWidth)
	}
	if !style.Color.Valid() {
		return fmt.Errorf("文字颜色越界: %+v", style.Color)
	}
	if !style.OutlineColor.Valid() {
		return fmt.Errorf("描边颜色越界: %+v", style.OutlineColor)
	}
	if !isFinite(pos.X) || !isFinite(pos.Y) {
		return nil
	}

	h := v.result.Viewport.Height
	x, y := pos.X*h, pos.Y*h
	size := style.FontSize * h * scene.MmToPt

	face, err := v.r.fontFace(size, style.Color)
	if err != nil {
		return err
	}
	align := textAlign(style.Anchor)
	// 垂直居中：基线下移半个字形高度。
	metrics := face.Metrics()
	baseline := y - (metrics.Ascent-metrics.Descent)/2

	if style.OutlineWidth > 0 {
		outlineFace, err := v.r.fontFace(size, style.OutlineColor)
		if err != nil {
			return err
		}
		ring := canvas.NewTextLine(outlineFace, text, align)
		w := style.OutlineWidth * h
		for k := 0; k < outlineSteps; k++ {
			a := 2 * math.Pi * float64(k) / outlineSteps
			v.ctx.DrawText(x+w*math.Cos(a), baseline+w*math.Sin(a), ring)
		}
	}
	v.ctx.DrawText(x, baseline, canvas.NewTextLine(face, text, align))
	return nil
}

func textAlign(a label.Anchor) canvas.TextAlign {
	switch a {
	case label.AnchorLeft:
		return canvas.Left
	case label.AnchorRight:
		return canvas.Right
	default:
		return canvas.Center
	}
}
