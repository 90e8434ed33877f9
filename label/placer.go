// Package label places per-entity text labels at the screen-space projection
// of each entity, offset by a fraction of its projected radius.
package label

import "fmt"

// Placer draws one label per eligible entity. It holds no state between frames.
type Placer struct{}

var _ Overlay = Placer{}

// Render implements Overlay.
func (Placer) Render(c Canvas, entities EntitySet, types TypeRadiusTable, cfg Config) error {
	return Render(c, entities, types, cfg)
}

// Render labels every eligible entity of the frame in index order.
//
// A missing attribute makes the whole call a no-op. Canvas errors abort the
// frame and are returned to the caller wrapped with the entity index.
func Render(c Canvas, entities EntitySet, types TypeRadiusTable, cfg Config) error {
	if c == nil || entities == nil {
		return fmt.Errorf("label: canvas 与 entities 不能为空")
	}
	values, ok := entities.Attribute(cfg.Property)
	if !ok {
		return nil
	}
	style := cfg.Style()

	n := entities.Count()
	for i := 0; i < n; i++ {
		if cfg.OnlySelected && !entities.Selected(i) {
			continue
		}
		if i >= values.Len() {
			continue // 无可用取值的实体不绘制
		}
		pos := entities.Position(i)
		radius := ResolveRadius(entities, types, i, cfg.FallbackRadius)

		screenRadius, err := c.ProjectLength(pos, radius)
		if err != nil {
			return fmt.Errorf("label: 投影实体 %d 的半径失败: %w", i, err)
		}
		at, err := c.ProjectLocation(pos)
		if err != nil {
			return fmt.Errorf("label: 投影实体 %d 的位置失败: %w", i, err)
		}
		at.X += screenRadius * cfg.OffsetX
		at.Y += screenRadius * cfg.OffsetY

		text := fmt.Sprint(values.Value(i))
		if err := c.DrawText(text, at, style); err != nil {
			return fmt.Errorf("label: 绘制实体 %d 的标签失败: %w", i, err)
		}
	}
	return nil
}

// ResolveRadius picks the radius of entity i: the explicit per-entity radius,
// then the radius of its type, then fallback. Values <= 0 count as unset,
// except for fallback which is returned as is.
func ResolveRadius(entities EntitySet, types TypeRadiusTable, i int, fallback float64) float64 {
	if r := entities.ExplicitRadius(i); r > 0 {
		return r
	}
	if types != nil {
		if id, ok := entities.TypeID(i); ok {
			if r, ok := types.TypeRadius(id); ok && r > 0 {
				return r
			}
		}
	}
	return fallback
}
