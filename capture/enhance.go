package capture

import (
	"image"

	"github.com/disintegration/imaging"
)

// 汎用キャプチャの画質補正。読書用に控えめな値にしている。
const (
	contrastPercent = 5.0 // コントラスト 1.05 倍
	sharpenSigma    = 0.5
)

// Enhance は汎用キャプチャの画像に軽いコントラスト強調とシャープネス強調をかけた複製を返します。
// 同じ入力には常に同じ出力を返します。
func Enhance(img image.Image) image.Image {
	out := imaging.AdjustContrast(img, contrastPercent)
	return imaging.Sharpen(out, sharpenSigma)
}
