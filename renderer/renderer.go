package renderer

import (
	"github.com/ByLCY/labelview/label"
	"github.com/ByLCY/labelview/scene"
)

// Layer 将一个叠加层与其当前帧的配置配对。
type Layer struct {
	Overlay label.Overlay
	Config  label.Config
}

// Renderer 将场景及其叠加层输出为最终文件，例如 PDF 或 PNG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(result *scene.Result, layers []Layer) ([]byte, error)
}
