// Package capture は指定範囲のスクリーンショットを、利用できる最も高品質な手段で取得します。
package capture

import (
	"fmt"
	"image"
	"log/slog"

	"AutoPageShot/apperr"
)

// Region はキャプチャ範囲（左上座標と幅・高さ）を表します。
type Region struct {
	X, Y, Width, Height int
}

// Valid は幅・高さが正のときに true を返します。
func (r Region) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// Rect は image.Rectangle に変換します。
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Region) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}

// Frame はキャプチャした1枚の画像とそのメタデータです。
// Pixels は取得後に変更されません。
type Frame struct {
	// Index は撮影順の番号（1 始まり）です。Capturer は設定せず 0 のまま返し、撮影ループが振ります。
	Index      int
	Pixels     image.Image
	Source     string // 取得に使った手段の名前
	Native     bool   // プラットフォーム固有の手段で取得した場合 true
	Resolution image.Point
}

// Strategy は1つのキャプチャ手段です。
type Strategy interface {
	Name() string
	Available() bool
	Capture(region Region) (image.Image, error)
}

// Capturer はネイティブ手段を優先順に試し、すべて失敗したら汎用手段にフォールバックします。
type Capturer struct {
	native   []Strategy
	fallback Strategy
	enhance  func(image.Image) image.Image
}

// New は実行中の OS に合わせたネイティブ手段と kbinani/screenshot のフォールバックで Capturer を作成します。
func New() *Capturer {
	return NewWithStrategies(nativeStrategies(), Portable{})
}

// NewWithStrategies は手段を指定して Capturer を作成します。
func NewWithStrategies(native []Strategy, fallback Strategy) *Capturer {
	return &Capturer{native: native, fallback: fallback, enhance: Enhance}
}

// Strategies は試行順の手段名を返します（フォールバックを含む）。
func (c *Capturer) Strategies() []string {
	names := make([]string, 0, len(c.native)+1)
	for _, s := range c.native {
		names = append(names, s.Name())
	}
	if c.fallback != nil {
		names = append(names, c.fallback.Name())
	}
	return names
}

// Capture は指定範囲をキャプチャします。
// ネイティブ手段の失敗は記録だけして次へ進み、フォールバックの失敗のみ KindCapture で返します。
// 返す Frame の Index は 0 です。
func (c *Capturer) Capture(region Region) (Frame, error) {
	if !region.Valid() {
		return Frame{}, apperr.Newf(apperr.KindConfig, "キャプチャ範囲が不正です: %s", region)
	}

	for _, s := range c.native {
		if !s.Available() {
			continue
		}
		img, err := safeCapture(s, region)
		if err != nil {
			slog.Debug("ネイティブキャプチャに失敗しました", "strategy", s.Name(), "error", err)
			continue
		}
		return newFrame(img, s.Name(), true), nil
	}

	if c.fallback == nil {
		return Frame{}, apperr.New(apperr.KindCapture, "利用できるキャプチャ手段がありません")
	}
	img, err := safeCapture(c.fallback, region)
	if err != nil {
		return Frame{}, apperr.Wrapf(err, apperr.KindCapture, "スクリーンショットの取得に失敗しました (%s)", region)
	}
	if c.enhance != nil {
		img = c.enhance(img)
	}
	return newFrame(img, c.fallback.Name(), false), nil
}

func newFrame(img image.Image, source string, native bool) Frame {
	return Frame{
		Pixels:     img,
		Source:     source,
		Native:     native,
		Resolution: img.Bounds().Size(),
	}
}

// safeCapture は手段内の panic もエラーとして扱います。
func safeCapture(s Strategy, region Region) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("%s: panic: %v", s.Name(), r)
		}
	}()
	img, err = s.Capture(region)
	if err == nil && img == nil {
		err = fmt.Errorf("%s: 画像が空です", s.Name())
	}
	return img, err
}
