// Package robot は robotgo による疑似入力の実装です。
package robot

import (
	"fmt"
	"strings"

	"github.com/go-vgo/robotgo"

	"AutoPageShot/input"
)

// Mouse は robotgo でカーソルを移動して左クリックします。
type Mouse struct{}

func (Mouse) Click(p input.Point) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("robotgo: %v", r)
		}
	}()
	robotgo.Move(p.X, p.Y)
	robotgo.Click("left", false)
	return nil
}

// Keys は robotgo の KeyTap でキー操作を送信します。
type Keys struct{}

// robotgo のキー名に合わせる。
var keyNames = map[string]string{
	"ENTER":      "enter",
	"RETURN":     "enter",
	"ARROWRIGHT": "right",
	"RIGHT":      "right",
	"ARROWLEFT":  "left",
	"LEFT":       "left",
	"ARROWUP":    "up",
	"UP":         "up",
	"ARROWDOWN":  "down",
	"DOWN":       "down",
	"PAGEDOWN":   "pagedown",
	"NEXT":       "pagedown",
	"PAGEUP":     "pageup",
	"PRIOR":      "pageup",
	"SPACE":      "space",
	"TAB":        "tab",
	"CTRL":       "ctrl",
	"CONTROL":    "ctrl",
	"ALT":        "alt",
	"SHIFT":      "shift",
	"WIN":        "cmd",
	"CMD":        "cmd",
}

// KeyName は "ArrowRight" などの表記を robotgo のキー名に変換します。
func KeyName(k string) string {
	if n, ok := keyNames[strings.ToUpper(strings.TrimSpace(k))]; ok {
		return n
	}
	return strings.ToLower(strings.TrimSpace(k))
}

func (Keys) Press(keyOperation string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("robotgo: %v", r)
		}
	}()
	mods, main := input.SplitKeyOperation(keyOperation)
	if main == "" {
		return fmt.Errorf("キーが指定されていません: %q", keyOperation)
	}
	args := make([]interface{}, 0, len(mods))
	for _, m := range mods {
		args = append(args, KeyName(m))
	}
	robotgo.KeyTap(KeyName(main), args...)
	return nil
}
