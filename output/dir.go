package output

import (
	"image"
	_ "image/jpeg" // JPEG デコーダ
	_ "image/png"  // PNG デコーダ
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"AutoPageShot/apperr"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// ListImages は dir 内の JPG / PNG をファイル名順で返します。サイズ 0 のファイルは除きます。
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Size() == 0 {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// CompileDir は dir 内の画像をファイル名順で1つの PDF に結合し、outPath に保存します。
func (c *Compiler) CompileDir(dir string, scale float64, outPath string) (Report, error) {
	paths, err := ListImages(dir)
	if err != nil {
		return Report{}, apperr.Wrapf(err, apperr.KindCompile, "フォルダを読み込めませんでした: %s", dir)
	}
	images := make([]image.Image, 0, len(paths))
	for _, p := range paths {
		img, err := decodeFile(p)
		if err != nil {
			slog.Warn("画像を読み込めないため除外します", "path", p, "error", err)
			continue
		}
		images = append(images, img)
	}
	return c.Compile(images, scale, outPath)
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// SanitizeFileName は PDF タイトルをファイル名として使えるように無効文字を除去します。
func SanitizeFileName(title string) string {
	const invalid = `\/:*?"<>|`
	s := strings.TrimSpace(title)
	var b strings.Builder
	for _, r := range s {
		if !strings.ContainsRune(invalid, r) && r >= 0x20 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// PDFFileName はタイトルから PDF のファイル名を作ります。空なら screenshots.pdf です。
func PDFFileName(title string) string {
	name := SanitizeFileName(title)
	if name == "" {
		return "screenshots.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name += ".pdf"
	}
	return name
}
