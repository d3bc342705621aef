package layout

// 该文件定义布局结果，供场景装配、合成与调试 JSON 共用。
// 所有坐标均为底图像素，原点在左上角。

import (
	"encoding/json"
	"os"

	"github.com/ByLCY/stamp/style"
)

// Result 保存一次叠加请求中两个文本块的布局结果。
// 标题与副标题相互独立，任一方为空不影响另一方的位置。
type Result struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`

	Title    *PlacedBlock `json:"title,omitempty"`
	Subtitle *PlacedBlock `json:"subtitle,omitempty"`
}

// Blocks 按绘制顺序返回非空块（标题在前）。
func (r *Result) Blocks() []*PlacedBlock {
	var out []*PlacedBlock
	if r.Title != nil {
		out = append(out, r.Title)
	}
	if r.Subtitle != nil {
		out = append(out, r.Subtitle)
	}
	return out
}

// WriteDebugJSON 把布局结果写成带缩进的 JSON 文件，方便在不栅格化的
// 情况下核对坐标；res 为 nil 时不产生文件。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// PlacedBlock 是一个排好坐标的文本块及其可选底衬。
type PlacedBlock struct {
	Kind     style.Kind   `json:"kind"`
	Style    *style.Block `json:"style"`
	FontSize float64      `json:"fontSize"`
	Box      Box          `json:"box"`
	Lines    []Line       `json:"lines"`
	Panel    *Panel       `json:"panel,omitempty"`
}

// Box 描述文本块的包围盒。X 为锚点横坐标，Y 为首行基线纵坐标。
type Box struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	LineHeight float64 `json:"lineHeight"`
}

// Line 表示一行折好的文本及其基线纵坐标。
// 每次渲染都会重新计算，不做任何持久化。
type Line struct {
	Content string  `json:"content"`
	Y       float64 `json:"y"`
}

// Panel 描述文字底衬的几何与样式。
type Panel struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Radius 为矩形类形状的圆角半径；Circle 为真时忽略矩形逻辑，
	// 以 min(Width, Height) 为直径在面板中心画圆。
	Radius  float64              `json:"radius"`
	Circle  bool                 `json:"circle,omitempty"`
	Type    style.BackgroundType `json:"type"`
	Color   style.Color          `json:"color"`
	Opacity float64              `json:"opacity"`
}
