package capture

import (
	"image"

	"github.com/kbinani/screenshot"
)

// Portable は kbinani/screenshot による汎用キャプチャです。
type Portable struct{}

func (Portable) Name() string { return "screenshot" }

func (Portable) Available() bool { return true }

// Capture は指定範囲をキャプチャして image.Image を返します。
func (Portable) Capture(region Region) (image.Image, error) {
	img, err := screenshot.CaptureRect(region.Rect())
	if err != nil {
		return nil, err
	}
	return img, nil
}
