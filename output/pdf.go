package output

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/nfnt/resize"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"AutoPageShot/apperr"
)

// 画質倍率の範囲。
const (
	MinScale = 1.0
	MaxScale = 3.0
)

// 読書用の DPI。倍率が dpiThresholdScale 以下なら lowDPI、それより大きければ highDPI。
const (
	lowDPI            = 100
	highDPI           = 150
	dpiThresholdScale = 1.5
	pointsPerInch     = 72.0
)

// ErrNoImages は PDF 化する画像が1枚もないことを表します。
var ErrNoImages = errors.New("保存する画像がありません")

// DPIForScale は倍率に対応する DPI を返します。
func DPIForScale(scale float64) int {
	if scale <= dpiThresholdScale {
		return lowDPI
	}
	return highDPI
}

// Page は PDF の1ページ分に変換した画像です。
type Page struct {
	Image *image.RGBA
	DPI   int
}

// SizePoints は DPI を反映したページサイズ（pt）です。
func (p Page) SizePoints() (w, h float64) {
	b := p.Image.Bounds()
	return float64(b.Dx()) * pointsPerInch / float64(p.DPI), float64(b.Dy()) * pointsPerInch / float64(p.DPI)
}

// PreparePage は img を RGB に変換し、Lanczos で scale 倍に拡大した複製を返します。img 自体は変更しません。
func PreparePage(img image.Image, scale float64) Page {
	rgb := toRGB(img)
	b := rgb.Bounds()
	w := uint(math.Round(float64(b.Dx()) * scale))
	h := uint(math.Round(float64(b.Dy()) * scale))
	if w != uint(b.Dx()) || h != uint(b.Dy()) {
		rgb = toRGB(resize.Resize(w, h, rgb, resize.Lanczos3))
	}
	return Page{Image: rgb, DPI: DPIForScale(scale)}
}

// toRGB は白背景に合成して不透明な RGBA（原点 0,0）にします。
func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// Report は生成した PDF の概要です。
type Report struct {
	Path  string
	Pages int
	DPI   int
	Bytes int
}

// Compiler は画像列を1つの PDF にまとめます。
type Compiler struct {
	// JPEGQuality は各ページの JPEG 品質です（0 なら 85）。
	JPEGQuality int
	// Title は PDF のメタデータタイトルです。
	Title string
	// Now は作成日時に使う時刻です（nil なら time.Now）。固定すると同じ入力から同じ PDF になります。
	Now func() time.Time
}

// Compile は images を順に1ページずつ PDF にして outPath に保存します。
// images が空の場合は何も書き出さず ErrNoImages を含むエラーを返します。
func (c *Compiler) Compile(images []image.Image, scale float64, outPath string) (Report, error) {
	if len(images) == 0 {
		slog.Warn("保存する画像がないため PDF を作成しません", "path", outPath)
		return Report{}, apperr.Wrap(ErrNoImages, apperr.KindCompile, "PDFを作成できません")
	}
	if strings.TrimSpace(outPath) == "" {
		return Report{}, apperr.New(apperr.KindCompile, "PDF出力パスが設定されていません")
	}
	if scale < MinScale || scale > MaxScale {
		return Report{}, apperr.Newf(apperr.KindConfig, "PDF品質設定は %.1f〜%.1f 倍で指定してください (%.2f)", MinScale, MaxScale, scale)
	}

	data, err := c.render(images, scale)
	if err != nil {
		return Report{}, err
	}

	pages, err := countPages(data)
	if err != nil {
		return Report{}, apperr.Wrap(err, apperr.KindCompile, "生成したPDFを検証できませんでした")
	}
	if pages != len(images) {
		return Report{}, apperr.Newf(apperr.KindCompile, "PDFのページ数が一致しません (%d / %d)", pages, len(images))
	}

	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return Report{}, apperr.Wrapf(err, apperr.KindCompile, "PDFを保存できませんでした: %s", outPath)
	}

	r := Report{Path: outPath, Pages: pages, DPI: DPIForScale(scale), Bytes: len(data)}
	slog.Info("PDFを保存しました", "path", outPath, "pages", r.Pages, "dpi", r.DPI, "bytes", r.Bytes)
	return r, nil
}

func (c *Compiler) render(images []image.Image, scale float64) ([]byte, error) {
	quality := c.JPEGQuality
	if quality <= 0 {
		quality = defaultJpegQuality
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: 595.28, Ht: 841.89}, // 既定は A4。ページごとに上書きする
	})
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	ts := now()
	pdf.SetCreationDate(ts)
	pdf.SetModificationDate(ts)
	if c.Title != "" {
		pdf.SetTitle(c.Title, true) // true = UTF-8（日本語対応）
	}

	opt := gofpdf.ImageOptions{ImageType: "JPEG"}
	for i, img := range images {
		if img == nil {
			return nil, apperr.Newf(apperr.KindCompile, "%d 枚目の画像が空です", i+1)
		}
		page := PreparePage(img, scale)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, page.Image, &jpeg.Options{Quality: quality}); err != nil {
			return nil, apperr.Wrapf(err, apperr.KindCompile, "%d 枚目の画像をエンコードできませんでした", i+1)
		}

		name := fmt.Sprintf("page_%05d", i+1)
		pdf.RegisterImageOptionsReader(name, opt, &buf)
		w, h := page.SizePoints()
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
		pdf.ImageOptions(name, 0, 0, w, h, false, opt, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, apperr.Wrapf(err, apperr.KindCompile, "%d 枚目のページを追加できませんでした", i+1)
		}
		slog.Debug("ページを追加しました", "page", i+1, "width", page.Image.Bounds().Dx(), "height", page.Image.Bounds().Dy(), "dpi", page.DPI)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, apperr.Wrap(err, apperr.KindCompile, "PDFを生成できませんでした")
	}
	data, err := canonicalImageOrder(out.Bytes())
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindCompile, "PDFを生成できませんでした")
	}
	return data, nil
}

// countPages は pdfcpu で PDF を読み直してページ数を返します。
func countPages(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx.PageCount, nil
}
