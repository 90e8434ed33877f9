package label

import "errors"

// ErrDegenerateProjection 供画布在无法投影某个位置（例如位于相机之后）时返回。
// 放置器不做任何钳制，原样向上传递。
var ErrDegenerateProjection = errors.New("label: degenerate projection")

// Canvas 是宿主提供的单帧绘制表面：负责世界→屏幕投影与文本绘制。
// 放置器只在一次 Render 调用期间使用它，调用返回后不再持有引用。
type Canvas interface {
	// ProjectLocation 将世界坐标投影到画布坐标。
	ProjectLocation(p Vec3) (Point, error)
	// ProjectLength 将位于 p 处深度的世界长度投影为屏幕长度。
	ProjectLength(p Vec3, length float64) (float64, error)
	// DrawText 以给定样式在 pos 处绘制文本。
	DrawText(text string, pos Point, style TextStyle) error
}

// Column 是按实体下标访问的属性列。
type Column interface {
	Len() int
	Value(i int) any
}

// EntitySet 是当前帧的实体快照。
type EntitySet interface {
	Count() int
	Position(i int) Vec3
	// Selected 在没有选择数据时对所有实体返回 true。
	Selected(i int) bool
	// ExplicitRadius 返回逐实体半径；<=0 表示未设置。
	ExplicitRadius(i int) float64
	// TypeID 返回实体类型编号；没有类型数据时 ok 为 false。
	TypeID(i int) (id int, ok bool)
	// Attribute 按名称（可带分量，例如 "Position.X"）查找属性列；不存在时 ok 为 false。
	Attribute(ref string) (Column, bool)
}

// TypeRadiusTable 按类型编号给出半径。未配置类型信息时传 nil。
type TypeRadiusTable interface {
	TypeRadius(id int) (float64, bool)
}

// Overlay 是宿主每帧调用一次的叠加层入口。
type Overlay interface {
	Render(c Canvas, entities EntitySet, types TypeRadiusTable, cfg Config) error
}
