package layout

import (
	"math"

	"github.com/ByLCY/stamp/shaper"
	"github.com/ByLCY/stamp/style"
)

// lineHeightFactor 固定行高系数：行高 = 字号 × 1.2。
const lineHeightFactor = 1.2

// Padding 返回画布四周的保护边距：max(30, 0.03 × min(宽, 高))。
// 任何文本块与底衬在收敛后都必须落在该边距之内。
func Padding(canvasWidth, canvasHeight float64) float64 {
	return math.Max(30, 0.03*math.Min(canvasWidth, canvasHeight))
}

// Build 对标题与副标题分别折行、定位并计算底衬，返回完整布局结果。
// 两个块各自独立计算，互不干扰；没有文本的块在结果中为 nil。
func Build(canvasWidth, canvasHeight float64, title, subtitle *style.Block) *Result {
	res := &Result{
		Width:   canvasWidth,
		Height:  canvasHeight,
		Padding: Padding(canvasWidth, canvasHeight),
	}
	if title.HasText() {
		res.Title = placeBlock(title, style.KindTitle, canvasWidth, canvasHeight)
	}
	if subtitle.HasText() {
		res.Subtitle = placeBlock(subtitle, style.KindSubtitle, canvasWidth, canvasHeight)
	}
	return res
}

func placeBlock(b *style.Block, kind style.Kind, canvasWidth, canvasHeight float64) *PlacedBlock {
	fontSize := b.ResolvedFontSize(kind, canvasWidth)
	maxWidth := canvasWidth * b.MaxWidthPercent / 100
	lines := shaper.Wrap(b.TransformedText(), fontSize, maxWidth, b.MaxLines, b.FontWeight)
	if len(lines) == 0 {
		return nil
	}

	box := Place(lines, fontSize, b, canvasWidth, canvasHeight)

	placed := &PlacedBlock{
		Kind:     kind,
		Style:    b,
		FontSize: fontSize,
		Box:      box,
		Lines:    make([]Line, len(lines)),
	}
	for i, content := range lines {
		placed.Lines[i] = Line{
			Content: content,
			Y:       box.Y + float64(i)*box.LineHeight,
		}
	}
	placed.Panel = PanelFor(box, b, canvasWidth, canvasHeight)
	return placed
}

// Place 计算文本块的包围盒与渲染原点。
// 返回的 X 是锚点横坐标（按 textAnchor 解释），Y 是首行基线纵坐标。
// 块大于画布时无法同时满足两侧边距，此时取受限端的值作为尽力而为的结果，
// 允许视觉溢出但绝不报错。
func Place(lines []string, fontSizePx float64, b *style.Block, canvasWidth, canvasHeight float64) Box {
	lineHeight := fontSizePx * lineHeightFactor
	height := float64(len(lines)) * lineHeight
	width := 0.0
	for _, line := range lines {
		if w := shaper.EstimateWidth(line, fontSizePx, b.FontWeight); w > width {
			width = w
		}
	}

	padding := Padding(canvasWidth, canvasHeight)
	requestedX := canvasWidth * b.XPercent / 100
	requestedY := canvasHeight * b.YPercent / 100

	var x float64
	switch b.TextAnchor {
	case style.AnchorStart:
		x = clampBestEffort(requestedX, padding, canvasWidth-width-padding)
	case style.AnchorEnd:
		x = clampBestEffort(requestedX, width+padding, canvasWidth-padding)
	default: // middle
		x = clampBestEffort(requestedX, width/2+padding, canvasWidth-width/2-padding)
	}
	centerY := clampBestEffort(requestedY, height/2+padding, canvasHeight-height/2-padding)

	return Box{
		X:          x,
		Y:          centerY - height/2 + lineHeight,
		Width:      width,
		Height:     height,
		LineHeight: lineHeight,
	}
}

// PanelFor 计算文本块的底衬几何；backgroundType 为 none 或未设颜色时返回 nil。
func PanelFor(box Box, b *style.Block, canvasWidth, canvasHeight float64) *Panel {
	if b.BackgroundType == style.BackgroundNone {
		return nil
	}
	color, ok := b.BackgroundColor()
	if !ok {
		return nil
	}

	pad := b.BackgroundPadding
	width := math.Min(box.Width+2*pad, canvasWidth*0.9)
	height := box.Height + 2*pad
	padding := Padding(canvasWidth, canvasHeight)

	// 水平原点与文本框遵循同一套锚点规则，再收敛进画布边距
	var left float64
	switch b.TextAnchor {
	case style.AnchorStart:
		left = box.X - pad
	case style.AnchorEnd:
		left = box.X - width + pad
	default:
		left = box.X - width/2
	}
	left = clampBestEffort(left, padding, canvasWidth-width-padding)

	// 文本原点是基线而非框顶，垂直中心要回退一个行高
	centerY := box.Y - box.LineHeight + box.Height/2
	top := clampBestEffort(centerY-height/2, padding, canvasHeight-height-padding)

	panel := &Panel{
		X:       left,
		Y:       top,
		Width:   width,
		Height:  height,
		Type:    b.BackgroundType,
		Color:   color,
		Opacity: b.BackgroundOpacity,
	}
	switch b.BackgroundShape {
	case style.ShapeCircle:
		panel.Circle = true
	case style.ShapePill:
		panel.Radius = height / 2
	case style.ShapeRounded:
		panel.Radius = 12
	default:
		panel.Radius = 0
	}
	return panel
}

// clampBestEffort 将 v 收敛到 [lo, hi]；区间翻转（内容大于可用空间）时返回 hi。
func clampBestEffort(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
