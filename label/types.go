package label

// 该文件定义放置标签所需的基本值类型，供核心算法、宿主画布与调试 JSON 共用。

// Vec3 是世界坐标系中的三维向量。
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Sub 返回 v-o。
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Dot 返回点积。
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross 返回叉积 v×o。
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Scale 返回 v*s。
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Point 是画布坐标（屏幕空间）中的二维位置。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Color 采用 0-1 的 RGB 分量。
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

// Valid 判断所有分量是否位于 [0,1]。NaN 视为无效。
func (c Color) Valid() bool {
	for _, v := range []float64{c.R, c.G, c.B} {
		if !(v >= 0 && v <= 1) {
			return false
		}
	}
	return true
}

// Anchor 描述文本相对于绘制位置的参考点。
type Anchor int

const (
	AnchorCenter Anchor = iota
	AnchorLeft
	AnchorRight
)

func (a Anchor) String() string {
	switch a {
	case AnchorCenter:
		return "center"
	case AnchorLeft:
		return "left"
	case AnchorRight:
		return "right"
	default:
		return "unknown"
	}
}

// MarshalText 让调试 JSON 输出可读的锚点名称。
func (a Anchor) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// TextStyle 汇总一次 DrawText 调用的样式参数。
// FontSize 与 OutlineWidth 的单位由画布决定（参考宿主为画布高度的比例）。
type TextStyle struct {
	FontSize     float64 `json:"fontSize"`
	Color        Color   `json:"color"`
	OutlineWidth float64 `json:"outlineWidth"`
	OutlineColor Color   `json:"outlineColor"`
	Anchor       Anchor  `json:"anchor"`
}
