// Package fonts 将样式层的字体关键字解析为内置 TTF 数据。
// sans-serif 映射到 Go 字体，serif 映射到 Latin Modern；
// cursive/handwritten 目前退化为 serif 映射。
package fonts

import (
	"fmt"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ByLCY/stamp/style"
)

// FamilyName 返回渲染器注册字体族时使用的名称。
func FamilyName(family style.FontFamily) string {
	if resolve(family) == style.FamilySerif {
		return "Latin Modern Roman"
	}
	return "Go"
}

// Load 返回关键字与字重对应的 TTF 字节数据。
// light 没有独立字形文件，退化为 regular。
func Load(family style.FontFamily, weight style.FontWeight) ([]byte, error) {
	serif := resolve(family) == style.FamilySerif
	switch weight {
	case style.WeightBold:
		if serif {
			return lmroman10bold.TTF, nil
		}
		return gobold.TTF, nil
	case style.WeightLight, style.WeightRegular, "":
		if serif {
			return lmroman10regular.TTF, nil
		}
		return goregular.TTF, nil
	default:
		return nil, fmt.Errorf("未知字重 %q", weight)
	}
}

func resolve(family style.FontFamily) style.FontFamily {
	switch family {
	case style.FamilySerif, style.FamilyCursive, style.FamilyHandwritten:
		return style.FamilySerif
	default:
		return style.FamilySansSerif
	}
}
