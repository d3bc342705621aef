// Package scene 将布局结果装配为可栅格化的矢量图层序列。
// 图层顺序固定：底衬（标题在前）、文字投影、文字本体，
// 保证重叠的块不会互相遮挡对方的文字。
package scene

import (
	"image/color"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/stamp/layout"
	"github.com/ByLCY/stamp/style"
)

const (
	// 投影参数对所有文字统一生效：高斯模糊 σ3，偏移 (2,2)，透明度 ×0.6。
	shadowBlurSigma  = 3.0
	shadowOffsetX    = 2.0
	shadowOffsetY    = 2.0
	shadowAlphaScale = 0.6
	// blur 类型底衬在栅格化后整层模糊的标准差。
	panelBlurSigma = 10.0
	// 渐变底衬顶部透明度相对底部的比例。
	gradientTopScale = 0.8
)

// Scene 是与底图同坐标空间的矢量场景，按序持有若干图层。
type Scene struct {
	Width  float64
	Height float64
	Layers []Layer
}

// Layer 是一张独立栅格化的矢量画布；BlurSigma 大于零时，
// 栅格化结果需整层做高斯模糊后再参与合成。
type Layer struct {
	Canvas    *canvas.Canvas
	BlurSigma float64
}

// Options 控制场景装配的可调行为。
type Options struct {
	// SubtitleOpacityScale 对副标题文字透明度做统一缩放，默认 1（不缩放）。
	// 旧实现在部分路径上隐式使用 0.9，这里改为显式配置。
	SubtitleOpacityScale float64
}

// Build 将布局结果装配为场景。每次调用独立建层，互不共享可变状态。
func (b *Builder) Build(res *layout.Result, opts Options) (*Scene, error) {
	if opts.SubtitleOpacityScale <= 0 {
		opts.SubtitleOpacityScale = 1
	}
	sc := &Scene{Width: res.Width, Height: res.Height}
	blocks := res.Blocks()

	// 底衬层：保持块顺序；blur 类型的底衬独占一层以便栅格化后模糊
	var panelCtx *canvas.Context
	flush := func() { panelCtx = nil }
	for _, pb := range blocks {
		p := pb.Panel
		if p == nil {
			continue
		}
		if p.Type == style.BackgroundBlur {
			ctx := sc.newLayer(panelBlurSigma)
			drawPanel(ctx, p)
			flush()
			continue
		}
		if panelCtx == nil {
			panelCtx = sc.newLayer(0)
		}
		drawPanel(panelCtx, p)
	}

	// 投影层与文字层
	shadowCtx := sc.newLayer(shadowBlurSigma)
	textCtx := sc.newLayer(0)
	for _, pb := range blocks {
		opacity := pb.Style.Opacity
		if pb.Kind == style.KindSubtitle {
			opacity *= opts.SubtitleOpacityScale
		}

		shadow := canvas.RGBA(0, 0, 0, shadowAlphaScale*opacity)
		if err := b.drawBlockText(shadowCtx, pb, shadow, shadowOffsetX, shadowOffsetY); err != nil {
			return nil, err
		}

		c := pb.Style.Color()
		fill := canvas.RGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, opacity)
		if err := b.drawBlockText(textCtx, pb, fill, 0, 0); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

// newLayer 追加一张与场景同尺寸的画布，坐标系取左上角为原点。
func (sc *Scene) newLayer(blurSigma float64) *canvas.Context {
	c := canvas.New(sc.Width, sc.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	sc.Layers = append(sc.Layers, Layer{Canvas: c, BlurSigma: blurSigma})
	return ctx
}

func drawPanel(ctx *canvas.Context, p *layout.Panel) {
	fill := panelColor(p.Color, p.Opacity)

	if p.Circle {
		// 圆形底衬忽略矩形逻辑：直径取 min(宽, 高)，落在面板中心
		r := math.Min(p.Width, p.Height) / 2
		ctx.SetFillColor(fill)
		ctx.DrawPath(p.X+p.Width/2, p.Y+p.Height/2, canvas.Circle(r))
		return
	}

	if p.Type == style.BackgroundGradient {
		g := canvas.NewLinearGradient(
			canvas.Point{X: p.X, Y: p.Y},
			canvas.Point{X: p.X, Y: p.Y + p.Height},
		)
		g.Add(0, panelColor(p.Color, p.Opacity*gradientTopScale))
		g.Add(1, fill)
		ctx.SetFillGradient(g)
	} else {
		ctx.SetFillColor(fill)
	}

	if p.Radius > 0 {
		ctx.DrawPath(p.X, p.Y, canvas.RoundedRectangle(p.Width, p.Height, p.Radius))
		return
	}
	ctx.DrawPath(p.X, p.Y, canvas.Rectangle(p.Width, p.Height))
}

// drawBlockText 按块的锚点与字距将所有行画入画布，(dx, dy) 用于投影偏移。
func (b *Builder) drawBlockText(ctx *canvas.Context, pb *layout.PlacedBlock, fill color.RGBA, dx, dy float64) error {
	face, err := b.face(pb.Style.FontFamily, pb.Style.FontWeight, pb.FontSize, fill)
	if err != nil {
		return err
	}

	spacing := pb.Style.LetterSpacing.Extra(pb.FontSize)
	align := anchorAlign(pb.Style.TextAnchor)
	for _, line := range pb.Lines {
		x := pb.Box.X + dx
		y := line.Y + dy
		if spacing > 0 {
			drawSpacedLine(ctx, face, line.Content, x, y, pb.Style.TextAnchor, spacing)
			continue
		}
		ctx.DrawText(x, y, canvas.NewTextLine(face, line.Content, align))
	}
	return nil
}

// drawSpacedLine 逐字绘制以实现加宽字距；锚点对齐基于总宽度手工换算。
func drawSpacedLine(ctx *canvas.Context, face *canvas.FontFace, content string, anchorX, y float64, anchor style.Anchor, spacing float64) {
	runes := []rune(content)
	if len(runes) == 0 {
		return
	}
	advances := make([]float64, len(runes))
	total := 0.0
	for i, r := range runes {
		advances[i] = face.TextWidth(string(r)) + spacing
		total += advances[i]
	}
	total -= spacing // 末字符之后不再加字距

	x := anchorX
	switch anchor {
	case style.AnchorMiddle:
		x -= total / 2
	case style.AnchorEnd:
		x -= total
	}
	for i, r := range runes {
		ctx.DrawText(x, y, canvas.NewTextLine(face, string(r), canvas.Left))
		x += advances[i]
	}
}

func anchorAlign(a style.Anchor) canvas.TextAlign {
	switch a {
	case style.AnchorStart:
		return canvas.Left
	case style.AnchorEnd:
		return canvas.Right
	default:
		return canvas.Center
	}
}
