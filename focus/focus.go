// Package focus は撮影開始時に対象アプリを前面にするための前処理です。
package focus

import (
	"log/slog"
	"time"

	"github.com/kbinani/screenshot"

	"AutoPageShot/input"
)

const defaultSettle = time.Second

// Activator は1枚目の撮影後、ページめくりを始める前に一度だけ実行されます。
type Activator struct {
	// Title が空でなければ、そのタイトルのウィンドウを前面にします（Windows のみ）。
	Title string
	// Point が nil でなければ、その位置を1回クリックして前面化します（ページめくりしない位置）。
	Point   *input.Point
	Clicker input.Clicker
	Settle  time.Duration
	Sleep   func(time.Duration)
}

// ForPlatform は実行中の OS に合わせた Activator を返します。
// macOS では画面中央をクリックし、Windows では title が指定されていればそのウィンドウを前面にします。
func ForPlatform(title string, clicker input.Clicker) *Activator {
	a := &Activator{Title: title, Clicker: clicker}
	if clickToFocus {
		if p, ok := DisplayCenter(); ok {
			a.Point = &p
		}
	}
	return a
}

// Activate は前面化を行います。
func (a *Activator) Activate() {
	sleep := a.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	settle := a.Settle
	if settle <= 0 {
		settle = defaultSettle
	}

	if a.Title != "" {
		if SetForegroundByTitle(a.Title) {
			slog.Info("ウィンドウを前面にしました", "title", a.Title)
			sleep(settle)
		} else {
			slog.Warn("前面にするウィンドウが見つかりません", "title", a.Title)
		}
	}

	if a.Point != nil && a.Clicker != nil {
		sleep(settle)
		if err := input.NewInjector(a.Clicker).Trigger(a.Point); err != nil {
			slog.Warn("前面化クリックに失敗しました", "error", err)
		}
		sleep(settle)
	}
}

// DisplayCenter はプライマリディスプレイの中央座標を返します。
func DisplayCenter() (input.Point, bool) {
	if screenshot.NumActiveDisplays() == 0 {
		return input.Point{}, false
	}
	b := screenshot.GetDisplayBounds(0)
	return input.Point{X: b.Min.X + b.Dx()/2, Y: b.Min.Y + b.Dy()/2}, true
}
