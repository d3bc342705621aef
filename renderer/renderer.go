package renderer

import (
	"image"

	"github.com/ByLCY/stamp/scene"
)

// Compositor 将矢量场景栅格化并以 over 混合叠加到底图之上，
// 返回与底图同尺寸的最终图像。实现要么返回完整图像，要么返回错误，
// 不得产出半成品。
type Compositor interface {
	Composite(base image.Image, sc *scene.Scene) (*image.NRGBA, error)
}
