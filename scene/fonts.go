package scene

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/stamp/fonts"
	"github.com/ByLCY/stamp/style"
)

// canvas 的字号按 pt 解释，而场景画布以像素为单位，这里沿用 pt↔mm 的
// 换算系数把像素字号换成 pt 字号（1pt = 0.352777 个画布单位）。
const (
	PtToPx = 0.352777
	PxToPt = 1.0 / PtToPx
)

// Builder 装配场景并缓存字体族。缓存只在首次加载时写入，
// 可在并发渲染请求间共享。
type Builder struct {
	fontMu   sync.Mutex
	families map[string]*fontEntry
}

type fontEntry struct {
	family *canvas.FontFamily
	fstyle canvas.FontStyle
}

// NewBuilder 创建一个场景装配器。
func NewBuilder() *Builder {
	return &Builder{families: map[string]*fontEntry{}}
}

func (b *Builder) face(family style.FontFamily, weight style.FontWeight, sizePx float64, col color.RGBA) (*canvas.FontFace, error) {
	entry, err := b.ensureFamily(family, weight)
	if err != nil {
		return nil, err
	}
	return entry.family.Face(sizePx*PxToPt, col, entry.fstyle, canvas.FontNormal), nil
}

func (b *Builder) ensureFamily(family style.FontFamily, weight style.FontWeight) (*fontEntry, error) {
	key := string(family) + "|" + string(weight)
	b.fontMu.Lock()
	defer b.fontMu.Unlock()

	if entry, ok := b.families[key]; ok {
		return entry, nil
	}

	data, err := fonts.Load(family, weight)
	if err != nil {
		return nil, err
	}
	fstyle := weightStyle(weight)
	fam := canvas.NewFontFamily(fonts.FamilyName(family))
	if err := fam.LoadFont(data, 0, fstyle); err != nil {
		return nil, fmt.Errorf("加载字体 %s/%s 失败: %w", family, weight, err)
	}

	entry := &fontEntry{family: fam, fstyle: fstyle}
	b.families[key] = entry
	return entry, nil
}

// weightStyle 将样式字重映射到 canvas 字重。
// light 的字形数据退化为 regular，字重也按 regular 注册。
func weightStyle(weight style.FontWeight) canvas.FontStyle {
	if weight == style.WeightBold {
		return canvas.FontBold
	}
	return canvas.FontRegular
}

func panelColor(c style.Color, opacity float64) color.RGBA {
	return canvas.RGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, opacity)
}
