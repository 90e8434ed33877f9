package label

import (
	"fmt"
	"math"
)

// DefaultProperty 是默认标注的属性。
const DefaultProperty = "Particle Identifier"

// Config 是单帧内不可变的标签配置，由宿主每次调用时按值传入。
type Config struct {
	Property     string  `json:"inputProperty"`   // 用于生成文本的属性引用
	OnlySelected bool    `json:"useOnlySelected"` // 仅标注被选中的实体
	FontSize     float64 `json:"fontSize"`
	TextColor    Color   `json:"textColor"`
	OutlineWidth float64 `json:"outlineWidth"`
	OutlineColor Color   `json:"outlineColor"`
	OffsetX      float64 `json:"px"` // 投影半径的比例，范围 [-1,1]
	OffsetY      float64 `json:"py"`

	// FallbackRadius 是全局兜底半径，即使为 0 也会被使用。
	FallbackRadius float64 `json:"fallbackRadius"`
}

// DefaultConfig 返回编辑器中各选项的默认值。
func DefaultConfig() Config {
	return Config{
		Property:     DefaultProperty,
		FontSize:     0.05,
		TextColor:    Black,
		OutlineColor: White,
	}
}

// Validate 检查取值范围。
func (c Config) Validate() error {
	if c.Property == "" {
		return fmt.Errorf("label: input_property 不能为空")
	}
	if !(c.FontSize > 0) || math.IsInf(c.FontSize, 0) {
		return fmt.Errorf("label: font_size 必须为正数，当前为 %g", c.FontSize)
	}
	if !(c.OutlineWidth >= 0) || math.IsInf(c.OutlineWidth, 0) {
		return fmt.Errorf("label: outline_width 不能为负数，当前为 %g", c.OutlineWidth)
	}
	if !inUnitRange(c.OffsetX) {
		return fmt.Errorf("label: px 必须位于 [-1,1]，当前为 %g", c.OffsetX)
	}
	if !inUnitRange(c.OffsetY) {
		return fmt.Errorf("label: py 必须位于 [-1,1]，当前为 %g", c.OffsetY)
	}
	if !c.TextColor.Valid() {
		return fmt.Errorf("label: text_color 分量必须位于 [0,1]: %+v", c.TextColor)
	}
	if !c.OutlineColor.Valid() {
		return fmt.Errorf("label: outline_color 分量必须位于 [0,1]: %+v", c.OutlineColor)
	}
	return nil
}

// Style 返回该配置对应的文本样式，锚点固定为居中。
func (c Config) Style() TextStyle {
	return TextStyle{
		FontSize:     c.FontSize,
		Color:        c.TextColor,
		OutlineWidth: c.OutlineWidth,
		OutlineColor: c.OutlineColor,
		Anchor:       AnchorCenter,
	}
}

func inUnitRange(v float64) bool { return v >= -1 && v <= 1 }
