package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/stamp/dsl"
	"github.com/ByLCY/stamp/layout"
	"github.com/ByLCY/stamp/overlay"
	"github.com/ByLCY/stamp/style"
)

func main() {
	basePath := flag.String("image", "", "底图路径（PNG/JPEG/GIF）")
	overlayPath := flag.String("overlay", "", "叠加描述路径（.json 或 DSL 文件）")
	output := flag.String("out", "output/overlay.png", "PNG 输出路径")
	debugPath := flag.String("debug", "", "布局调试 JSON 输出路径")
	flag.Parse()

	if err := run(*basePath, *overlayPath, *output, *debugPath); err != nil {
		log.Fatalf("生成叠加图失败: %v", err)
	}
	fmt.Printf("已生成叠加图：%s\n", *output)
}

// run 串联解码、布局与合成。
func run(basePath, overlayPath, outputPath, debugPath string) error {
	if basePath == "" || overlayPath == "" {
		return fmt.Errorf("必须同时指定 -image 与 -overlay")
	}

	base, err := decodeImage(basePath)
	if err != nil {
		return err
	}
	title, subtitle, err := loadOverlay(overlayPath)
	if err != nil {
		return err
	}

	if debugPath != "" {
		bounds := base.Bounds()
		res := overlay.Plan(bounds.Dx(), bounds.Dy(), title, subtitle)
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
		if err := layout.WriteDebugJSON(res, debugPath); err != nil {
			return fmt.Errorf("输出调试 JSON 失败: %w", err)
		}
	}

	engine := overlay.NewWithOptions(overlay.Options{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	})
	out, err := engine.Render(base, title, subtitle)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer file.Close()
	if err := png.Encode(file, out); err != nil {
		return fmt.Errorf("写入 PNG 失败: %w", err)
	}
	return nil
}

func decodeImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开底图 %s: %w", path, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码底图 %s 失败: %w", path, err)
	}
	return img, nil
}

// loadOverlay 按扩展名选择解析方式：.json 走结构化配置，其余按 DSL 处理。
func loadOverlay(path string) (*style.Block, *style.Block, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("无法读取叠加配置 %s: %w", path, err)
		}
		var cfg struct {
			Title    *style.Block `json:"title"`
			Subtitle *style.Block `json:"subtitle"`
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, nil, fmt.Errorf("解析叠加 JSON 失败: %w", err)
		}
		return cfg.Title, cfg.Subtitle, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("无法打开叠加描述 %s: %w", path, err)
	}
	defer file.Close()
	doc, err := dsl.Parse(file)
	if err != nil {
		return nil, nil, fmt.Errorf("解析叠加 DSL 失败: %w", err)
	}
	title, subtitle, err := doc.Blocks()
	if err != nil {
		return nil, nil, fmt.Errorf("叠加描述不合法: %w", err)
	}
	return title, subtitle, nil
}
