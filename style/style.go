package style

// 该文件定义叠加文本的样式模型。标题与副标题各持有一个独立的 Block，
// 双方的排版与合成互不影响。所有百分比字段均以底图的真实像素尺寸为基准。

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Kind 区分标题与副标题，用于推导各自的默认字号。
type Kind int

const (
	KindTitle Kind = iota
	KindSubtitle
)

// FontFamily 为字体族关键字，渲染时映射到具体的内置字体。
type FontFamily string

const (
	FamilySansSerif   FontFamily = "sans-serif"
	FamilySerif       FontFamily = "serif"
	FamilyCursive     FontFamily = "cursive"
	FamilyHandwritten FontFamily = "handwritten"
)

// FontWeight 同时影响渲染字重与字符宽度估算。
type FontWeight string

const (
	WeightLight   FontWeight = "light"
	WeightRegular FontWeight = "regular"
	WeightBold    FontWeight = "bold"
)

// WidthFactor 返回平均字形宽度系数：bold 为 0.7，其余为 0.6。
// 这是刻意简化的估算（宽度 = 字符数 × 字号 × 系数），预览端按同一系数复算，
// 因此系数必须保持稳定，不得替换为真实字形度量。
func (w FontWeight) WidthFactor() float64 {
	if w == WeightBold {
		return 0.7
	}
	return 0.6
}

// Transform 在折行之前应用于原始文本。
type Transform string

const (
	TransformUppercase  Transform = "uppercase"
	TransformLowercase  Transform = "lowercase"
	TransformCapitalize Transform = "capitalize"
	TransformNone       Transform = "none"
)

// Apply 按变换规则处理文本；capitalize 仅将每个词的首字母大写。
func (t Transform) Apply(s string) string {
	switch t {
	case TransformUppercase:
		return strings.ToUpper(s)
	case TransformLowercase:
		return strings.ToLower(s)
	case TransformCapitalize:
		return capitalizeWords(s)
	default:
		return s
	}
}

func capitalizeWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atStart := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			atStart = true
			b.WriteRune(r)
			continue
		}
		if atStart {
			b.WriteRune(unicode.ToUpper(r))
			atStart = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LetterSpacing 控制字符间距；wide 为每个字符增加 0.15em。
type LetterSpacing string

const (
	SpacingNormal LetterSpacing = "normal"
	SpacingWide   LetterSpacing = "wide"
)

// Extra 返回给定字号下的附加字距（像素）。
func (l LetterSpacing) Extra(fontSizePx float64) float64 {
	if l == SpacingWide {
		return 0.15 * fontSizePx
	}
	return 0
}

// Anchor 表示块相对锚点的水平对齐方式。
type Anchor string

const (
	AnchorStart  Anchor = "start"
	AnchorMiddle Anchor = "middle"
	AnchorEnd    Anchor = "end"
)

// BackgroundType 描述文字底衬的类型。
type BackgroundType string

const (
	BackgroundGradient BackgroundType = "gradient"
	BackgroundSolid    BackgroundType = "solid"
	BackgroundBlur     BackgroundType = "blur"
	BackgroundShape    BackgroundType = "shape"
	BackgroundNone     BackgroundType = "none"
)

// BackgroundShapeKind 描述底衬形状。
type BackgroundShapeKind string

const (
	ShapeRectangle BackgroundShapeKind = "rectangle"
	ShapeRounded   BackgroundShapeKind = "rounded"
	ShapePill      BackgroundShapeKind = "pill"
	ShapeCircle    BackgroundShapeKind = "circle"
)

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ParseHex 解析 #rgb / #rrggbb / #rrggbbaa 形式的颜色值（alpha 部分忽略）。
func ParseHex(value string) (Color, error) {
	value = strings.TrimPrefix(value, "#")
	switch len(value) {
	case 3:
		value = strings.Repeat(string(value[0]), 2) +
			strings.Repeat(string(value[1]), 2) +
			strings.Repeat(string(value[2]), 2)
	case 6, 8:
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	v, err := strconv.ParseInt(value, 16, 64)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	if len(value) == 8 {
		v >>= 8
	}
	return Color{
		R: int(v>>16) & 0xff,
		G: int(v>>8) & 0xff,
		B: int(v) & 0xff,
	}, nil
}

// Block 是一个文本块的全部样式与定位参数。
// 每次叠加请求都会构造新的 Block 对，渲染之间没有共享状态。
type Block struct {
	Text          string        `json:"text"`
	FontFamily    FontFamily    `json:"fontFamily"`
	FontWeight    FontWeight    `json:"fontWeight"`
	TextTransform Transform     `json:"textTransform"`
	LetterSpacing LetterSpacing `json:"letterSpacing"`
	ColorHex      string        `json:"colorHex"`

	// 锚点位置与宽度约束均为底图尺寸的百分比（0-100）。
	XPercent        float64 `json:"xPercent"`
	YPercent        float64 `json:"yPercent"`
	TextAnchor      Anchor  `json:"textAnchor"`
	MaxWidthPercent float64 `json:"maxWidthPercent"`
	MaxLines        int     `json:"maxLines"`
	Opacity         float64 `json:"opacity"`

	// FontSizePx 为 0 时按底图宽度推导默认字号。
	FontSizePx float64 `json:"fontSizePx,omitempty"`

	BackgroundType     BackgroundType      `json:"backgroundType"`
	BackgroundColorHex string              `json:"backgroundColorHex,omitempty"`
	BackgroundOpacity  float64             `json:"backgroundOpacity,omitempty"`
	BackgroundShape    BackgroundShapeKind `json:"backgroundShape,omitempty"`
	BackgroundPadding  float64             `json:"backgroundPadding,omitempty"`
}

// Normalize 填充零值字段并把数值收敛到合法区间。
func (b *Block) Normalize() {
	if b.FontFamily == "" {
		b.FontFamily = FamilySansSerif
	}
	if b.FontWeight == "" {
		b.FontWeight = WeightRegular
	}
	if b.TextTransform == "" {
		b.TextTransform = TransformNone
	}
	if b.LetterSpacing == "" {
		b.LetterSpacing = SpacingNormal
	}
	if b.TextAnchor == "" {
		b.TextAnchor = AnchorMiddle
	}
	if b.BackgroundType == "" {
		b.BackgroundType = BackgroundNone
	}
	if b.BackgroundShape == "" {
		b.BackgroundShape = ShapeRectangle
	}
	if b.MaxWidthPercent <= 0 || b.MaxWidthPercent > 100 {
		b.MaxWidthPercent = 80
	}
	if b.MaxLines <= 0 {
		b.MaxLines = 3
	}
	if b.Opacity <= 0 || b.Opacity > 1 {
		b.Opacity = 1
	}
	if b.BackgroundOpacity <= 0 || b.BackgroundOpacity > 1 {
		b.BackgroundOpacity = 1
	}
	b.XPercent = clamp(0, b.XPercent, 100)
	b.YPercent = clamp(0, b.YPercent, 100)
	if b.BackgroundPadding < 0 {
		b.BackgroundPadding = 0
	}
}

// ResolvedFontSize 返回生效字号：显式值优先，否则按底图宽度推导。
// 标题默认 clamp(56, width/10, 120)，副标题默认 clamp(32, width/16, 64)。
func (b *Block) ResolvedFontSize(kind Kind, canvasWidth float64) float64 {
	if b.FontSizePx > 0 {
		return b.FontSizePx
	}
	if kind == KindSubtitle {
		return clamp(32, canvasWidth/16, 64)
	}
	return clamp(56, canvasWidth/10, 120)
}

// TransformedText 返回应用 textTransform 之后的文本。
func (b *Block) TransformedText() string {
	return b.TextTransform.Apply(b.Text)
}

// HasText 判断块是否包含可渲染内容。
func (b *Block) HasText() bool {
	return b != nil && strings.TrimSpace(b.Text) != ""
}

// Color 解析 colorHex；非法或缺省时回退为白色。
func (b *Block) Color() Color {
	if c, err := ParseHex(b.ColorHex); err == nil && b.ColorHex != "" {
		return c
	}
	return Color{R: 255, G: 255, B: 255}
}

// BackgroundColor 返回底衬颜色；第二返回值指示是否设置了颜色。
func (b *Block) BackgroundColor() (Color, bool) {
	if b.BackgroundColorHex == "" {
		return Color{}, false
	}
	c, err := ParseHex(b.BackgroundColorHex)
	if err != nil {
		return Color{}, false
	}
	return c, true
}

func clamp(lo, v, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
