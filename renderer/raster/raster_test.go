package raster

import (
	"bytes"
	"image"
	"log/slog"
	"strings"
	"testing"

	"github.com/ByLCY/stamp/layout"
	"github.com/ByLCY/stamp/scene"
	"github.com/ByLCY/stamp/style"
)

func testScene(t *testing.T, width, height float64) *scene.Scene {
	t.Helper()
	title := &style.Block{
		Text:               "Hello",
		XPercent:           50,
		YPercent:           50,
		BackgroundType:     style.BackgroundSolid,
		BackgroundColorHex: "#1e90ff",
		BackgroundPadding:  10,
	}
	title.Normalize()
	res := layout.Build(width, height, title, nil)
	sc, err := scene.NewBuilder().Build(res, scene.Options{})
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}
	return sc
}

func solidBase(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img
}

func TestCompositeKeepsBaseSize(t *testing.T) {
	sc := testScene(t, 640, 480)
	out, err := New(nil).Composite(solidBase(640, 480), sc)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if got := out.Bounds(); got.Dx() != 640 || got.Dy() != 480 {
		t.Fatalf("output bounds = %v, want 640×480", got)
	}
}

func TestCompositeNilBase(t *testing.T) {
	sc := testScene(t, 640, 480)
	if _, err := New(nil).Composite(nil, sc); err == nil {
		t.Fatalf("expected error for nil base image")
	}
}

func TestCompositeDeterministic(t *testing.T) {
	sc := testScene(t, 320, 240)
	comp := New(nil)
	a, err := comp.Composite(solidBase(320, 240), sc)
	if err != nil {
		t.Fatalf("first composite: %v", err)
	}
	b, err := comp.Composite(solidBase(320, 240), sc)
	if err != nil {
		t.Fatalf("second composite: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("same scene and base must produce identical pixels")
	}
}

func TestCompositeDoesNotMutateBase(t *testing.T) {
	sc := testScene(t, 320, 240)
	base := solidBase(320, 240)
	before := append([]uint8(nil), base.Pix...)
	if _, err := New(nil).Composite(base, sc); err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if !bytes.Equal(base.Pix, before) {
		t.Fatalf("base image was mutated")
	}
}

func TestCompositeChangesPixels(t *testing.T) {
	sc := testScene(t, 320, 240)
	base := solidBase(320, 240)
	out, err := New(nil).Composite(base, sc)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if bytes.Equal(out.Pix, base.Pix) {
		t.Fatalf("overlay left the base unchanged")
	}
}

func TestCompositeFallsBackOnOversampledBase(t *testing.T) {
	// 4200×4200 底图在 2 倍采样下超出像素上限，高保真路径必然失败；
	// 合成仍须成功，并对每个降级图层记录告警
	sc := testScene(t, 4200, 4200)
	var logs bytes.Buffer
	comp := New(slog.New(slog.NewTextHandler(&logs, nil)))

	out, err := comp.Composite(solidBase(4200, 4200), sc)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if got := out.Bounds(); got.Dx() != 4200 || got.Dy() != 4200 {
		t.Fatalf("output bounds = %v, want 4200×4200", got)
	}
	if !strings.Contains(logs.String(), "level=WARN") {
		t.Fatalf("expected WARN log for degraded render, got: %s", logs.String())
	}
	if got := strings.Count(logs.String(), "退回直接合成"); got != len(sc.Layers) {
		t.Fatalf("warning count = %d, want one per layer (%d)", got, len(sc.Layers))
	}
}

func TestRasterizeLayerRejectsOversized(t *testing.T) {
	sc := testScene(t, 64, 64)
	comp := New(nil)
	// 采样后 20000×20000 超过像素上限
	if _, err := comp.rasterizeLayer(&sc.Layers[0], 10000, 10000, 2); err == nil {
		t.Fatalf("expected pixel limit error")
	}
	// 正常尺寸可通过
	img, err := comp.rasterizeLayer(&sc.Layers[0], 64, 64, 2)
	if err != nil {
		t.Fatalf("rasterizeLayer: %v", err)
	}
	if got := img.Bounds(); got.Dx() != 64 || got.Dy() != 64 {
		t.Fatalf("layer bounds = %v, want 64×64", got)
	}
}
