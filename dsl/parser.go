// Package dsl 提供叠加描述的紧凑文法，供 CLI 在不手写 JSON 的情况下
// 声明标题/副标题的样式块。示例：
//
//	overlay {
//	    title {
//	        text: "SUMMER SALE"
//	        weight: bold
//	        transform: uppercase
//	        color: #ffffff
//	        x: 50; y: 30
//	        anchor: middle
//	    }
//	    subtitle {
//	        text: "Up to 50% off"
//	        y: 80
//	    }
//	}
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/ByLCY/stamp/style"
)

var (
	overlayLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{8})`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;{}]`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(overlayLexer),
		participle.Elide("Whitespace", "LineComment"),
	)
)

// Document 是叠加描述文件的根节点。
type Document struct {
	Sections []*BlockSection `parser:"Newline* 'overlay' '{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// BlockSection 描述 title 或 subtitle 的属性集合。
type BlockSection struct {
	Name    string   `parser:"@('title' | 'subtitle')"`
	Entries []*Entry `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Entry 使用冒号语法（key: value）。
type Entry struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' @@"`
}

// Value 表示属性值：字符串、数字、颜色或裸关键字。
type Value struct {
	String  *StringLiteral `parser:"  @String"`
	Number  *string        `parser:"| @Number"`
	Color   *string        `parser:"| @Color"`
	Keyword *string        `parser:"| @Ident"`
}

// StringLiteral 在捕获时按 Go 字符串规则去引号。
type StringLiteral string

// Capture 实现 participle.Capture。
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse 从 io.Reader 解析叠加描述。
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString 从字符串解析叠加描述。
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// Blocks 将 AST 转换为样式块对；未声明的块返回 nil。
func (d *Document) Blocks() (title, subtitle *style.Block, err error) {
	for _, section := range d.Sections {
		b := &style.Block{}
		for _, entry := range section.Entries {
			if err := applyEntry(b, entry); err != nil {
				return nil, nil, fmt.Errorf("%s.%s: %w", section.Name, entry.Key, err)
			}
		}
		switch section.Name {
		case "title":
			title = b
		case "subtitle":
			subtitle = b
		}
	}
	return title, subtitle, nil
}

func applyEntry(b *style.Block, entry *Entry) error {
	v := entry.Value
	switch entry.Key {
	case "text":
		s, err := v.text()
		if err != nil {
			return err
		}
		b.Text = s
	case "font":
		b.FontFamily = style.FontFamily(v.keyword())
	case "weight":
		b.FontWeight = style.FontWeight(v.keyword())
	case "transform":
		b.TextTransform = style.Transform(v.keyword())
	case "spacing":
		b.LetterSpacing = style.LetterSpacing(v.keyword())
	case "anchor":
		b.TextAnchor = style.Anchor(v.keyword())
	case "color":
		b.ColorHex = v.colorHex()
	case "x":
		return v.number(&b.XPercent)
	case "y":
		return v.number(&b.YPercent)
	case "max-width":
		return v.number(&b.MaxWidthPercent)
	case "max-lines":
		n, err := v.integer()
		if err != nil {
			return err
		}
		b.MaxLines = n
	case "opacity":
		return v.number(&b.Opacity)
	case "size":
		return v.number(&b.FontSizePx)
	case "background":
		b.BackgroundType = style.BackgroundType(v.keyword())
	case "background-color":
		b.BackgroundColorHex = v.colorHex()
	case "background-opacity":
		return v.number(&b.BackgroundOpacity)
	case "background-shape":
		b.BackgroundShape = style.BackgroundShapeKind(v.keyword())
	case "background-padding":
		return v.number(&b.BackgroundPadding)
	default:
		return fmt.Errorf("未知属性")
	}
	return nil
}

func (v *Value) text() (string, error) {
	if v == nil || v.String == nil {
		return "", fmt.Errorf("需要字符串值")
	}
	return string(*v.String), nil
}

func (v *Value) keyword() string {
	if v == nil {
		return ""
	}
	if v.Keyword != nil {
		return *v.Keyword
	}
	if v.String != nil {
		return string(*v.String)
	}
	return ""
}

func (v *Value) colorHex() string {
	if v == nil {
		return ""
	}
	if v.Color != nil {
		return *v.Color
	}
	if v.String != nil {
		return string(*v.String)
	}
	return ""
}

func (v *Value) number(dst *float64) error {
	if v == nil || v.Number == nil {
		return fmt.Errorf("需要数字值")
	}
	f, err := strconv.ParseFloat(*v.Number, 64)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func (v *Value) integer() (int, error) {
	if v == nil || v.Number == nil {
		return 0, fmt.Errorf("需要数字值")
	}
	return strconv.Atoi(*v.Number)
}
