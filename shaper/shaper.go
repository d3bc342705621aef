// Package shaper 将原始文本折成受宽度约束的行。
// 宽度采用 字符数 × 字号 × 宽度系数 的估算，与预览端保持同一套规则；
// 折行行为（贪心按词打包、显式换行优先、末行省略号）是对外契约的一部分。
package shaper

import (
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/stamp/style"
)

// Ellipsis 为末行截断时附加的省略标记。
const Ellipsis = "…"

// EstimateWidth 估算一段文本的渲染宽度（像素）。
// 估算式为 rune 数 × 字号 × 宽度系数，不读取真实字形度量。
func EstimateWidth(s string, fontSizePx float64, weight style.FontWeight) float64 {
	return float64(utf8.RuneCountInString(s)) * fontSizePx * weight.WidthFactor()
}

// Wrap 将文本折成最多 maxLines 行。
//   - 文本包含显式换行并产生多个非空段落时，段落直接作为行使用（截断到 maxLines）；
//   - 否则按空白分词后贪心打包，行宽估算不得超过 maxWidthPx；
//   - 行数到达 maxLines-1 且下一个词放不下时，剩余文本并入当前行，
//     估算仍超宽则追加省略号；
//   - 空输入返回空切片，调用方应跳过该块。
//
// 纯函数，相同输入恒得相同输出。
func Wrap(text string, fontSizePx, maxWidthPx float64, maxLines int, weight style.FontWeight) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if maxLines <= 0 {
		maxLines = 1
	}

	// 显式换行优先于自动折行
	if manual := manualLines(text); len(manual) > 1 {
		if len(manual) > maxLines {
			manual = manual[:maxLines]
		}
		return manual
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for i := 1; i < len(words); i++ {
		word := words[i]
		candidate := current + " " + word
		if EstimateWidth(candidate, fontSizePx, weight) <= maxWidthPx {
			current = candidate
			continue
		}

		// 当前行已满；若这是允许的最后一行，把剩余文本收入本行并按需加省略号
		if len(lines) == maxLines-1 {
			rest := strings.Join(words[i:], " ")
			current = current + " " + rest
			if EstimateWidth(current, fontSizePx, weight) > maxWidthPx {
				current += Ellipsis
			}
			return append(lines, current)
		}

		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// manualLines 按显式换行拆分并去掉空段。
func manualLines(text string) []string {
	parts := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
