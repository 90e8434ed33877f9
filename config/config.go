// Package config 读取标签叠加层的 TOML 配置文件。
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ByLCY/labelview/label"
)

// File 是解析后的配置：输出格式与按顺序绘制的叠加层。
type File struct {
	Format   string
	Overlays []label.Config
}

// Color 接受 "#rrggbb" 字符串或 [r, g, b] 数组。
// 数组中的浮点数取值 [0,1]，整数按 0-255 解释。
type Color struct {
	label.Color
}

// UnmarshalTOML implements toml.Unmarshaler.
func (c *Color) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		parsed, err := label.ParseColor(v)
		if err != nil {
			return err
		}
		c.Color = parsed
		return nil
	case []any:
		if len(v) != 3 {
			return fmt.Errorf("颜色数组需要 3 个分量，实际为 %d", len(v))
		}
		var out [3]float64
		for i, item := range v {
			switch n := item.(type) {
			case int64:
				if n < 0 || n > 255 {
					return fmt.Errorf("颜色分量 %d 超出 0-255", n)
				}
				out[i] = float64(n) / 255
			case float64:
				out[i] = n
			default:
				return fmt.Errorf("颜色分量类型不支持: %T", item)
			}
		}
		c.Color = label.Color{R: out[0], G: out[1], B: out[2]}
		return nil
	default:
		return fmt.Errorf("颜色值类型不支持: %T", data)
	}
}

type overlay struct {
	InputProperty   *string  `toml:"input_property"`
	UseOnlySelected *bool    `toml:"use_only_selected"`
	FontSize        *float64 `toml:"font_size"`
	TextColor       *Color   `toml:"text_color"`
	OutlineWidth    *float64 `toml:"outline_width"`
	OutlineColor    *Color   `toml:"outline_color"`
	PX              *float64 `toml:"px"`
	PY              *float64 `toml:"py"`
}

type document struct {
	Format  string    `toml:"format"`
	Overlay []overlay `toml:"overlay"`
}

// Load 读取并校验配置文件。
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置 %s 失败: %w", path, err)
	}
	f, err := Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Decode 解析 TOML 文本。缺失的键取默认值；没有 [[overlay]] 时返回单个默认叠加层。
func Decode(text string) (*File, error) {
	var doc document
	md, err := toml.Decode(text, &doc)
	if err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("未知的配置项: %s", strings.Join(keys, ", "))
	}

	f := &File{Format: strings.ToLower(doc.Format)}
	if len(doc.Overlay) == 0 {
		f.Overlays = []label.Config{label.DefaultConfig()}
		return f, nil
	}
	for i, o := range doc.Overlay {
		cfg := o.apply(label.DefaultConfig())
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("overlay %d: %w", i+1, err)
		}
		f.Overlays = append(f.Overlays, cfg)
	}
	return f, nil
}

func (o overlay) apply(cfg label.Config) label.Config {
	if o.InputProperty != nil {
		cfg.Property = *o.InputProperty
	}
	if o.UseOnlySelected != nil {
		cfg.OnlySelected = *o.UseOnlySelected
	}
	if o.FontSize != nil {
		cfg.FontSize = *o.FontSize
	}
	if o.TextColor != nil {
		cfg.TextColor = o.TextColor.Color
	}
	if o.OutlineWidth != nil {
		cfg.OutlineWidth = *o.OutlineWidth
	}
	if o.OutlineColor != nil {
		cfg.OutlineColor = o.OutlineColor.Color
	}
	if o.PX != nil {
		cfg.OffsetX = *o.PX
	}
	if o.PY != nil {
		cfg.OffsetY = *o.PY
	}
	return cfg
}
