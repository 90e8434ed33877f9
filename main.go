package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/labelview/config"
	"github.com/ByLCY/labelview/label"
	"github.com/ByLCY/labelview/renderer"
	canvasrenderer "github.com/ByLCY/labelview/renderer/canvas"
	"github.com/ByLCY/labelview/scene"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

type options struct {
	input     string
	output    string
	config    string
	format    string
	debug     string
	font      string
	fontStyle string
	dpmm      float64
	verbose   bool
}

func newRootCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:          "labelview",
		Short:        "在粒子场景上绘制逐实体文本标签",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if opts.verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			if err := run(opts, logger); err != nil {
				logger.Error("生成失败", "err", err)
				return err
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.input, "in", "examples/demo.lv", "场景文件路径")
	f.StringVar(&opts.output, "out", "output/demo.pdf", "输出路径")
	f.StringVar(&opts.config, "config", "", "标签配置（TOML），为空时使用默认叠加层")
	f.StringVar(&opts.format, "format", "", "输出格式 pdf/png/svg，默认取配置或输出文件扩展名")
	f.StringVar(&opts.debug, "debug", "", "标签位置调试 JSON 输出路径")
	f.StringVar(&opts.font, "font", "", "字体：embed:<name>、built-in:<name> 或相对场景目录的路径")
	f.StringVar(&opts.fontStyle, "font-style", "", "字体样式，例如 bold、italic")
	f.Float64Var(&opts.dpmm, "dpmm", 0, "PNG 输出分辨率（每毫米像素数）")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "输出调试日志")
	return cmd
}

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// recordingOverlay 记录叠加层实际放置的标签，用于统计与调试输出。
type recordingOverlay struct {
	overlay  label.Overlay
	recorder *label.Recorder
}

func (o *recordingOverlay) Render(c label.Canvas, entities label.EntitySet, types label.TypeRadiusTable, cfg label.Config) error {
	o.recorder.Canvas = c
	defer func() { o.recorder.Canvas = nil }()
	o.recorder.Reset()
	return o.overlay.Render(o.recorder, entities, types, cfg)
}

// run 串联解析、构建、配置加载与渲染。
func run(opts options, logger *log.Logger) error {
	start := time.Now()
	file, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("无法打开场景文件 %s: %w", opts.input, err)
	}
	defer file.Close()

	doc, err := scene.Parse(file)
	if err != nil {
		return fmt.Errorf("解析场景失败: %w", err)
	}
	result, err := scene.Build(doc)
	if err != nil {
		return fmt.Errorf("构建场景失败: %w", err)
	}
	logger.Debug("场景已加载", "name", result.Name, "particles", result.Particles.Count(), "types", len(result.Types))
	for _, name := range result.Particles.Names() {
		if p, ok := result.Particles.Get(name); ok {
			logger.Debug("粒子属性", "name", name, "components", p.Width())
		}
	}

	cfgFile := &config.File{Overlays: []label.Config{label.DefaultConfig()}}
	if opts.config != "" {
		if cfgFile, err = config.Load(opts.config); err != nil {
			return fmt.Errorf("加载标签配置失败: %w", err)
		}
	}

	formatName := opts.format
	if formatName == "" {
		formatName = cfgFile.Format
	}
	if formatName == "" {
		formatName = strings.TrimPrefix(filepath.Ext(opts.output), ".")
	}
	format, err := canvasrenderer.ParseFormat(formatName)
	if err != nil {
		return err
	}

	var r renderer.Renderer = canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir:    filepath.Dir(opts.input),
		Format:     format,
		Resolution: opts.dpmm,
		Font:       opts.font,
		FontStyle:  opts.fontStyle,
	})

	layers := make([]renderer.Layer, len(cfgFile.Overlays))
	recorded := make([]*recordingOverlay, len(cfgFile.Overlays))
	for i, cfg := range cfgFile.Overlays {
		recorded[i] = &recordingOverlay{overlay: label.Placer{}, recorder: &label.Recorder{}}
		layers[i] = renderer.Layer{Overlay: recorded[i], Config: cfg}
	}

	out, err := r.Render(result, layers)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}

	var placements []label.Placement
	for i, o := range recorded {
		logger.Info("已放置标签", "overlay", i+1, "property", cfgFile.Overlays[i].Property, "labels", len(o.recorder.Placements))
		placements = append(placements, o.recorder.Placements...)
	}

	if opts.debug != "" {
		if err := writeDebug(placements, opts.debug); err != nil {
			return err
		}
		logger.Debug("已输出调试 JSON", "path", opts.debug)
	}

	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	logger.Infof("已生成 %s：%s (%s)", format, opts.output, time.Since(start).Round(time.Millisecond))
	return nil
}

func writeDebug(placements []label.Placement, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := label.WriteDebugJSON(placements, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
