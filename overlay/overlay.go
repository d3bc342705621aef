// Package overlay 是文本叠加合成引擎的入口：
// 给定一张底图和标题/副标题两个样式块，折行、定位、装配矢量场景，
// 栅格化后合成出带文字的新图像。整条管线是底图与样式块的纯函数，
// 相同输入产出逐字节一致的结果，渲染之间没有共享可变状态，
// 多个请求可以完全并行。
package overlay

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/ByLCY/stamp/layout"
	"github.com/ByLCY/stamp/renderer"
	"github.com/ByLCY/stamp/renderer/raster"
	"github.com/ByLCY/stamp/scene"
	"github.com/ByLCY/stamp/style"
)

// ErrNoText 表示标题与副标题均无文本，叠加请求整体拒绝。
var ErrNoText = errors.New("标题与副标题均为空，没有可渲染的内容")

// Engine 串联 折行 → 布局 → 底衬 → 场景 → 合成 的单向管线。
type Engine struct {
	builder              *scene.Builder
	compositor           renderer.Compositor
	logger               *slog.Logger
	subtitleOpacityScale float64
}

// Options 配置引擎的可注入依赖与样式默认值。
type Options struct {
	// Compositor 为空时使用默认的栅格合成器。
	Compositor renderer.Compositor
	// Logger 为空时静默；降级渲染会通过它记录告警。
	Logger *slog.Logger
	// SubtitleOpacityScale 对副标题透明度做统一缩放，<=0 按 1 处理。
	SubtitleOpacityScale float64
}

// New 创建使用默认依赖的引擎。
func New() *Engine { return NewWithOptions(Options{}) }

// NewWithOptions 创建引擎并应用配置。
func NewWithOptions(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	comp := opts.Compositor
	if comp == nil {
		comp = raster.New(logger)
	}
	scale := opts.SubtitleOpacityScale
	if scale <= 0 {
		scale = 1
	}
	return &Engine{
		builder:              scene.NewBuilder(),
		compositor:           comp,
		logger:               logger,
		subtitleOpacityScale: scale,
	}
}

// Render 将标题与副标题烘焙到底图上，返回与底图同尺寸的新图像。
// title/subtitle 允许为 nil 或空文本，但不能同时为空；
// 传入的样式块不会被修改。
func (e *Engine) Render(base image.Image, title, subtitle *style.Block) (image.Image, error) {
	if base == nil {
		return nil, fmt.Errorf("底图为空")
	}
	if !title.HasText() && !subtitle.HasText() {
		return nil, ErrNoText
	}
	bounds := base.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("底图尺寸非法：%dx%d", bounds.Dx(), bounds.Dy())
	}

	res := Plan(bounds.Dx(), bounds.Dy(), title, subtitle)
	if res.Title == nil && res.Subtitle == nil {
		return nil, ErrNoText
	}

	sc, err := e.builder.Build(res, scene.Options{SubtitleOpacityScale: e.subtitleOpacityScale})
	if err != nil {
		return nil, fmt.Errorf("装配场景失败: %w", err)
	}
	out, err := e.compositor.Composite(base, sc)
	if err != nil {
		return nil, fmt.Errorf("合成失败: %w", err)
	}
	return out, nil
}

// Plan 在给定画布尺寸下计算布局结果，不触碰像素。
// Render 内部使用它，调试工具也可用它导出布局 JSON。
func Plan(width, height int, title, subtitle *style.Block) *layout.Result {
	return layout.Build(float64(width), float64(height), normalized(title), normalized(subtitle))
}

// normalized 返回填充过默认值的副本，避免修改调用方的块。
func normalized(b *style.Block) *style.Block {
	if b == nil {
		return nil
	}
	c := *b
	c.Normalize()
	return &c
}
