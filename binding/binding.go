package binding

import (
	"fmt"
	"strconv"
	"strings"
)

// Reference 指向一个属性或属性的某个分量，例如 "Position.X" 或 "Force[2]"。
// Component 为空且 Index 为 -1 时表示整个属性。
type Reference struct {
	Property  string
	Component string
	Index     int
}

// IsComponent 判断引用是否指向单个分量。
func (r Reference) IsComponent() bool { return r.Component != "" || r.Index >= 0 }

// String 还原为配置中使用的文本形式。
func (r Reference) String() string {
	switch {
	case r.Component != "":
		return r.Property + "." + r.Component
	case r.Index >= 0:
		return r.Property + "[" + strconv.Itoa(r.Index) + "]"
	default:
		return r.Property
	}
}

// ParseReference 解析属性引用。属性名可以包含空格（"Particle Identifier"）；
// 最后一个 '.' 之后的非空部分视为分量名，结尾的 [n] 视为分量下标。
func ParseReference(text string) (Reference, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reference{}, fmt.Errorf("属性引用为空")
	}
	name, indexes := parseSegment(text)
	if len(indexes) > 1 {
		return Reference{}, fmt.Errorf("属性引用 %q 只允许一个分量下标", text)
	}
	if len(indexes) == 1 {
		idx, err := strconv.Atoi(strings.TrimSpace(indexes[0]))
		if err != nil || idx < 0 {
			return Reference{}, fmt.Errorf("属性引用 %q 的分量下标无效", text)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return Reference{}, fmt.Errorf("属性引用 %q 缺少属性名", text)
		}
		return Reference{Property: name, Index: idx}, nil
	}

	if dot := strings.LastIndexByte(text, '.'); dot > 0 && dot < len(text)-1 {
		component := strings.TrimSpace(text[dot+1:])
		property := strings.TrimSpace(text[:dot])
		if component != "" && property != "" && !strings.ContainsAny(component, " \t") {
			return Reference{Property: property, Component: component, Index: -1}, nil
		}
	}
	return Reference{Property: text, Index: -1}, nil
}

// parseSegment 拆出名称与其后的 [n] 下标序列。
func parseSegment(segment string) (string, []string) {
	name := segment
	indexes := []string{}
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 {
			if rest[0] != '[' {
				break
			}
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
		if rest != "" {
			// 下标之后还有内容时按普通名称处理
			return segment, nil
		}
	}
	return name, indexes
}
