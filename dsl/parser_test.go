package dsl

import (
	"strings"
	"testing"

	"github.com/ByLCY/stamp/style"
)

const sampleDoc = `
overlay {
    title {
        text: "SUMMER SALE"
        weight: bold
        transform: uppercase
        spacing: wide
        color: #ffffff
        x: 50; y: 30
        anchor: middle
        max-width: 70
        max-lines: 2
        background: solid
        background-color: #000000
        background-opacity: 0.5
        background-shape: pill
        background-padding: 16
    }
    // 副标题只给必要字段，其余走默认值
    subtitle {
        text: "Up to 50% off"
        y: 80
        opacity: 0.9
        size: 40
    }
}
`

func TestParseFullDocument(t *testing.T) {
	doc, err := ParseString(sampleDoc)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	title, subtitle, err := doc.Blocks()
	if err != nil {
		t.Fatalf("Blocks: %v", err)
	}

	if title == nil || subtitle == nil {
		t.Fatalf("expected both blocks, got %v / %v", title, subtitle)
	}
	if title.Text != "SUMMER SALE" {
		t.Fatalf("title text = %q", title.Text)
	}
	if title.FontWeight != style.WeightBold || title.TextTransform != style.TransformUppercase {
		t.Fatalf("title style = %+v", title)
	}
	if title.LetterSpacing != style.SpacingWide || title.TextAnchor != style.AnchorMiddle {
		t.Fatalf("title style = %+v", title)
	}
	if title.ColorHex != "#ffffff" || title.BackgroundColorHex != "#000000" {
		t.Fatalf("colors = %q / %q", title.ColorHex, title.BackgroundColorHex)
	}
	if title.XPercent != 50 || title.YPercent != 30 {
		t.Fatalf("position = %.1f/%.1f", title.XPercent, title.YPercent)
	}
	if title.MaxWidthPercent != 70 || title.MaxLines != 2 {
		t.Fatalf("wrap limits = %.1f/%d", title.MaxWidthPercent, title.MaxLines)
	}
	if title.BackgroundType != style.BackgroundSolid || title.BackgroundShape != style.ShapePill {
		t.Fatalf("background = %+v", title)
	}
	if title.BackgroundOpacity != 0.5 || title.BackgroundPadding != 16 {
		t.Fatalf("background numbers = %.2f/%.1f", title.BackgroundOpacity, title.BackgroundPadding)
	}

	if subtitle.Text != "Up to 50% off" || subtitle.YPercent != 80 {
		t.Fatalf("subtitle = %+v", subtitle)
	}
	if subtitle.Opacity != 0.9 || subtitle.FontSizePx != 40 {
		t.Fatalf("subtitle numbers = %+v", subtitle)
	}
}

func TestParseTitleOnly(t *testing.T) {
	doc, err := ParseString("overlay {\n title {\n text: \"hi\"\n }\n}\n")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	title, subtitle, err := doc.Blocks()
	if err != nil {
		t.Fatalf("Blocks: %v", err)
	}
	if title == nil || title.Text != "hi" {
		t.Fatalf("title = %+v", title)
	}
	if subtitle != nil {
		t.Fatalf("subtitle should be nil, got %+v", subtitle)
	}
}

func TestParseUnknownKey(t *testing.T) {
	doc, err := ParseString("overlay {\n title {\n glow: yes\n }\n}\n")
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if _, _, err := doc.Blocks(); err == nil {
		t.Fatalf("expected error for unknown key")
	} else if !strings.Contains(err.Error(), "title.glow") {
		t.Fatalf("error should name the offending key: %v", err)
	}
}

func TestParseReader(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Sections) != 2 {
		t.Fatalf("sections = %d, want 2", len(doc.Sections))
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := ParseString("title { text: \"hi\" }"); err == nil {
		t.Fatalf("document without overlay wrapper must fail")
	}
	if _, err := ParseString("overlay {\n title {\n text: 12zz\n }\n}\n"); err == nil {
		t.Fatalf("malformed value must fail")
	}
}
