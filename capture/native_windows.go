//go:build windows

package capture

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

const (
	srcCopy      = 0x00CC0020
	captureBlt   = 0x40000000 // レイヤードウィンドウも含める
	biRGB        = 0
	dibRGBColors = 0
)

var (
	user32                 = syscall.NewLazyDLL("user32.dll")
	gdi32                  = syscall.NewLazyDLL("gdi32.dll")
	procSetProcessDPIAware = user32.NewProc("SetProcessDPIAware")
	procBitBlt             = gdi32.NewProc("BitBlt")
	procGetDIBits          = gdi32.NewProc("GetDIBits")
)

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// gdiStrategy は DPI 対応を有効にしたうえで GDI の BitBlt で物理解像度のまま取得します。
type gdiStrategy struct {
	dpiOnce sync.Once
}

func nativeStrategies() []Strategy {
	return []Strategy{&gdiStrategy{}}
}

func (g *gdiStrategy) Name() string { return "gdi" }

func (g *gdiStrategy) Available() bool {
	return procBitBlt.Find() == nil && procGetDIBits.Find() == nil
}

func (g *gdiStrategy) Capture(region Region) (image.Image, error) {
	g.dpiOnce.Do(func() {
		if procSetProcessDPIAware.Find() == nil {
			procSetProcessDPIAware.Call()
		}
	})

	w, h := int32(region.Width), int32(region.Height)

	screenDC := win.GetDC(0)
	if screenDC == 0 {
		return nil, errors.New("GetDC に失敗しました")
	}
	defer win.ReleaseDC(0, screenDC)

	memDC := win.CreateCompatibleDC(screenDC)
	if memDC == 0 {
		return nil, errors.New("CreateCompatibleDC に失敗しました")
	}
	defer win.DeleteDC(memDC)

	bmp := win.CreateCompatibleBitmap(screenDC, w, h)
	if bmp == 0 {
		return nil, errors.New("CreateCompatibleBitmap に失敗しました")
	}
	defer win.DeleteObject(win.HGDIOBJ(bmp))

	old := win.SelectObject(memDC, win.HGDIOBJ(bmp))
	defer win.SelectObject(memDC, old)

	r, _, e1 := procBitBlt.Call(
		uintptr(memDC), 0, 0, uintptr(w), uintptr(h),
		uintptr(screenDC), uintptr(int32(region.X)), uintptr(int32(region.Y)),
		srcCopy|captureBlt)
	if r == 0 {
		return nil, fmt.Errorf("BitBlt に失敗しました: %v", e1)
	}

	hdr := bitmapInfoHeader{
		Width:       w,
		Height:      -h, // トップダウン
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}
	hdr.Size = uint32(unsafe.Sizeof(hdr))

	img := image.NewRGBA(image.Rect(0, 0, region.Width, region.Height))
	r, _, e1 = procGetDIBits.Call(
		uintptr(memDC), uintptr(bmp), 0, uintptr(h),
		uintptr(unsafe.Pointer(&img.Pix[0])),
		uintptr(unsafe.Pointer(&hdr)), dibRGBColors)
	if r == 0 {
		return nil, fmt.Errorf("GetDIBits に失敗しました: %v", e1)
	}

	// BGRA -> RGBA
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+2] = img.Pix[i+2], img.Pix[i]
		img.Pix[i+3] = 0xff
	}
	return img, nil
}
