package label

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColor 解析 #rgb、#rrggbb 与 #rrggbbaa（忽略 alpha）。
func ParseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if hex == strings.TrimSpace(value) {
		return Color{}, fmt.Errorf("颜色值 %s 必须以 # 开头", value)
	}
	var r, g, b string
	switch len(hex) {
	case 3:
		r = strings.Repeat(string(hex[0]), 2)
		g = strings.Repeat(string(hex[1]), 2)
		b = strings.Repeat(string(hex[2]), 2)
	case 6, 8:
		r, g, b = hex[0:2], hex[2:4], hex[4:6]
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	var out [3]float64
	for i, s := range []string{r, g, b} {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
		}
		out[i] = float64(v) / 255.0
	}
	return Color{R: out[0], G: out[1], B: out[2]}, nil
}
