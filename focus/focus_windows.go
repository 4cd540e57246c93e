//go:build windows

package focus

import (
	"strings"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

const clickToFocus = false

var (
	user32             = syscall.NewLazyDLL("user32.dll")
	procEnumWindows    = user32.NewProc("EnumWindows")
	procGetWindowTextW = user32.NewProc("GetWindowTextW")
)

// enumVisible は表示中のトップレベルウィンドウを列挙し、fn が false を返したら止めます。
func enumVisible(fn func(hwnd win.HWND, title string) bool) {
	cb := syscall.NewCallback(func(hwnd win.HWND, lParam uintptr) uintptr {
		if !win.IsWindowVisible(hwnd) {
			return 1
		}
		buf := make([]uint16, 256)
		n := getWindowText(hwnd, buf)
		if n == 0 {
			return 1
		}
		if !fn(hwnd, syscall.UTF16ToString(buf[:n])) {
			return 0 // 列挙中止
		}
		return 1
	})
	_, _, _ = procEnumWindows.Call(cb, 0)
}

func getWindowText(hwnd win.HWND, buf []uint16) int {
	r0, _, _ := procGetWindowTextW.Call(
		uintptr(hwnd),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)))
	return int(r0)
}

// ListVisibleWindowTitles は表示されているトップレベルウィンドウのタイトル一覧を返します。
func ListVisibleWindowTitles() []string {
	var titles []string
	enumVisible(func(_ win.HWND, title string) bool {
		titles = append(titles, title)
		return true
	})
	return titles
}

// SetForegroundByTitle は title に完全一致する（なければ部分一致する）最初のウィンドウを前面にします。
// 見つからなければ false を返します。
func SetForegroundByTitle(title string) bool {
	var exact, partial win.HWND
	enumVisible(func(hwnd win.HWND, t string) bool {
		if t == title {
			exact = hwnd
			return false
		}
		if partial == 0 && strings.Contains(t, title) {
			partial = hwnd
		}
		return true
	})
	found := exact
	if found == 0 {
		found = partial
	}
	if found == 0 {
		return false
	}
	return win.SetForegroundWindow(found)
}
