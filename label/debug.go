package label

import (
	"encoding/json"
	"math"
	"os"
)

// Placement 记录一次实际转发给画布的 DrawText 调用。
type Placement struct {
	Text  string    `json:"text"`
	Pos   Point     `json:"pos"`
	Style TextStyle `json:"style"`
}

// Recorder 包装一个 Canvas，转发全部调用并记录每个标签的最终位置，便于调试或测试。
// Canvas 为 nil 时只记录、不绘制，投影按恒等处理（x, y 取世界坐标的 X/Y）。
type Recorder struct {
	Canvas     Canvas
	Placements []Placement
}

var _ Canvas = (*Recorder)(nil)

func (r *Recorder) ProjectLocation(p Vec3) (Point, error) {
	if r.Canvas == nil {
		return Point{X: p.X, Y: p.Y}, nil
	}
	return r.Canvas.ProjectLocation(p)
}

func (r *Recorder) ProjectLength(p Vec3, length float64) (float64, error) {
	if r.Canvas == nil {
		return length, nil
	}
	return r.Canvas.ProjectLength(p, length)
}

func (r *Recorder) DrawText(text string, pos Point, style TextStyle) error {
	if r.Canvas != nil {
		if err := r.Canvas.DrawText(text, pos, style); err != nil {
			return err
		}
	}
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) {
		return nil // 未能投影的标签不计入
	}
	r.Placements = append(r.Placements, Placement{Text: text, Pos: pos, Style: style})
	return nil
}

// Reset 清空已记录的标签，使同一个 Recorder 可用于下一帧。
func (r *Recorder) Reset() { r.Placements = r.Placements[:0] }

// WriteDebugJSON 将标签位置输出为 JSON，便于调试或可视化。
func WriteDebugJSON(placements []Placement, path string) error {
	if placements == nil {
		placements = []Placement{}
	}
	data, err := json.MarshalIndent(placements, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
