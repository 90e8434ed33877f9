package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/labelview/fonts"
	"github.com/ByLCY/labelview/label"
	"github.com/ByLCY/labelview/particles"
	"github.com/ByLCY/labelview/renderer"
	"github.com/ByLCY/labelview/scene"
)

const (
	particleStrokeWidth = 0.15 // mm
	outlineSteps        = 16
	defaultResolution   = 8.0 // dots per mm for raster output
)

var particleStroke = canvas.Hex("#333333")

// Format selects the output encoding.
type Format string

const (
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "pdf":
		return FormatPDF, nil
	case "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("不支持的输出格式 %q（pdf/png/svg）", s)
	}
}

// Renderer draws a scene and its label overlays via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir    string
	format     Format
	resolution float64
	fontSrc    string
	fontStyle  canvas.FontStyle

	// injected resources
	fontBlobs map[string][]byte // by unique name

	fontMu         sync.Mutex
	fontFamilies   map[string]*canvas.FontFamily
	fallbackFamily *canvas.FontFamily
}

var _ renderer.Renderer = (*Renderer)(nil)

// Options configures the canvas renderer.
type Options struct {
	BaseDir    string
	Format     Format
	Resolution float64             // dots per mm, PNG only
	Font       string              // embed:<name>, built-in:<name> or a path relative to BaseDir
	FontStyle  string              // e.g. "bold", "italic"
	Fonts      map[string]Resource // built-in fonts accessible via built-in:<name>
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a PDF renderer rooted at baseDir for resolving fonts.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected resources.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		format:       opts.Format,
		resolution:   opts.Resolution,
		fontSrc:      opts.Font,
		fontStyle:    parseFontStyle(opts.FontStyle),
		fontBlobs:    map[string][]byte{},
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	if r.format == "" {
		r.format = FormatPDF
	}
	if r.resolution <= 0 {
		r.resolution = defaultResolution
	}
	if r.fontSrc == "" {
		r.fontSrc = "embed:" + fonts.Default
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, _ := os.ReadFile(res.Path) // ignore error here; will be caught when actually used
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// Render draws the background, the particles and then every layer, and
// encodes the result in the configured format.
func (r *Renderer) Render(result *scene.Result, layers []renderer.Layer) ([]byte, error) {
	if result == nil || result.Particles == nil {
		return nil, fmt.Errorf("渲染场景为空")
	}
	vp := result.Viewport
	c := canvas.New(vp.Width, vp.Height)
	ctx := canvas.NewContext(c)
	// 默认坐标系（CartesianI）原点在左下角，与标签坐标一致。

	ctx.SetFillColor(colorFromLabel(vp.Background))
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.DrawPath(0, 0, canvas.Rectangle(vp.Width, vp.Height))

	r.drawParticles(ctx, result)

	view := &viewCanvas{r: r, ctx: ctx, result: result}
	for i, layer := range layers {
		if layer.Overlay == nil {
			continue
		}
		cfg := layer.Config
		cfg.FallbackRadius = result.VisRadius
		if err := layer.Overlay.Render(view, result.Particles, result.Types.Table(), cfg); err != nil {
			return nil, fmt.Errorf("叠加层 %d 渲染失败: %w", i, err)
		}
	}
	return r.encode(c, vp.Width, vp.Height)
}

func (r *Renderer) encode(c *canvas.Canvas, width, height float64) ([]byte, error) {
	var buf bytes.Buffer
	switch r.format {
	case FormatPNG:
		img := rasterizer.Draw(c, canvas.DPMM(r.resolution), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	case FormatSVG:
		writer := svg.New(&buf, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	default:
		writer := pdf.New(&buf, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// drawParticles draws every projectable particle as a disc, far to near.
func (r *Renderer) drawParticles(ctx *canvas.Context, result *scene.Result) {
	set := result.Particles
	cam := result.Camera
	types := result.Types.Table()
	h := result.Viewport.Height
	aspect := result.Viewport.Aspect()

	order := make([]int, set.Count())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cam.Depth(set.Position(order[a])) > cam.Depth(set.Position(order[b]))
	})

	ctx.SetStrokeColor(particleStroke)
	ctx.SetStrokeWidth(particleStrokeWidth)
	for _, i := range order {
		pos := set.Position(i)
		center, _, ok := cam.Project(pos, aspect)
		if !ok {
			continue
		}
		radius := label.ResolveRadius(set, types, i, result.VisRadius)
		screen, ok := cam.ProjectLength(pos, radius)
		if !ok || !(screen > 0) {
			continue
		}
		ctx.SetFillColor(colorFromLabel(particleColor(set, result.Types, i)))
		ctx.DrawPath(center.X*h, center.Y*h, canvas.Circle(screen*h))
	}
}

func particleColor(set *particles.Set, types particles.Types, i int) label.Color {
	if id, ok := set.TypeID(i); ok {
		if pt, ok := types[id]; ok {
			return pt.Color
		}
	}
	return label.Color{R: 0.6, G: 0.6, B: 0.6}
}

func (r *Renderer) fontFace(size float64, col label.Color) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily()
	if err != nil {
		return nil, err
	}
	return family.Face(size, colorFromLabel(col), r.fontStyle, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	key := fmt.Sprintf("%s|%d", r.fontSrc, r.fontStyle)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}

	family := canvas.NewFontFamily("labels")
	if err := r.loadFontIntoFamily(family); err != nil {
		fallback, fbErr := r.fallback()
		if fbErr != nil {
			return nil, err
		}
		r.fontFamilies[key] = fallback
		return fallback, nil
	}
	r.fontFamilies[key] = family
	return family, nil
}

func (r *Renderer) loadFontIntoFamily(family *canvas.FontFamily) error {
	data, err := r.loadFontBytes(r.fontSrc)
	if err != nil {
		return err
	}
	return family.LoadFont(data, 0, r.fontStyle)
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	path := src
	if r.baseDir == "" && !filepath.IsAbs(path) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用字体路径：%s（请改用 built-in: 或 embed:）", src)
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	return os.ReadFile(path)
}

func (r *Renderer) fallback() (*canvas.FontFamily, error) {
	if r.fallbackFamily != nil {
		return r.fallbackFamily, nil
	}
	data, err := fonts.Load(fonts.Default)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily("labelview-fallback")
	if err := family.LoadFont(data, 0, r.fontStyle); err != nil {
		return nil, err
	}
	r.fallbackFamily = family
	return family, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func colorFromLabel(c label.Color) color.Color {
	return canvas.RGBA(c.R, c.G, c.B, 1.0)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
