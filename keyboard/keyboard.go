//go:build windows

// Package keyboard は sendinput で Windows にキー操作を送信します。
package keyboard

import (
	"fmt"
	"strings"

	"github.com/dacapoday/sendinput"

	"AutoPageShot/input"
)

// SendInput は input.KeyPresser の Windows 実装です。
type SendInput struct{}

func (SendInput) Press(keyOperation string) error { return Send(keyOperation) }

// 表示名と sendinput のキー名が異なるもの。
var keyAliases = map[string]string{
	"ENTER":      "RETURN",
	"ARROWRIGHT": "RIGHT",
	"ARROWLEFT":  "LEFT",
	"ARROWUP":    "UP",
	"ARROWDOWN":  "DOWN",
	"PAGEDOWN":   "NEXT",
	"PAGEUP":     "PRIOR",
}

// Send はキー操作文字列（例: "Enter", "Tab", "Ctrl+C"）を1回送信します。
func Send(keyOperation string) error {
	mods, mainKey := input.SplitKeyOperation(strings.TrimSpace(keyOperation))
	if mainKey == "" {
		return nil
	}

	var modifiers []sendinput.KeyCode
	for _, m := range mods {
		switch strings.ToUpper(m) {
		case "CTRL", "CONTROL":
			modifiers = append(modifiers, sendinput.KEY_LCONTROL)
		case "ALT":
			modifiers = append(modifiers, sendinput.KEY_LMENU)
		case "SHIFT":
			modifiers = append(modifiers, sendinput.KEY_LSHIFT)
		case "WIN":
			modifiers = append(modifiers, sendinput.KEY_LWIN)
		}
	}

	main := keyCode(mainKey)
	if main == 0 {
		return fmt.Errorf("不明なキーです: %q", mainKey)
	}

	// 修飾キーを押す
	for _, m := range modifiers {
		_ = sendinput.SendKeyboardInput(m, true)
	}
	// メインキーを押して離す
	if err := sendinput.SendKeyboardInput(main, true); err != nil {
		releaseModifiers(modifiers)
		return err
	}
	if err := sendinput.SendKeyboardInput(main, false); err != nil {
		releaseModifiers(modifiers)
		return err
	}
	// 修飾キーを離す（逆順）
	releaseModifiers(modifiers)
	return nil
}

func keyCode(name string) sendinput.KeyCode {
	upper := strings.ToUpper(name)
	if len(upper) == 1 {
		c := upper[0]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return sendinput.KeyCode(c)
		}
	}
	if k := sendinput.Key(upper); k != 0 {
		return k
	}
	if alias, ok := keyAliases[upper]; ok {
		return sendinput.Key(alias)
	}
	return 0
}

func releaseModifiers(modifiers []sendinput.KeyCode) {
	for i := len(modifiers) - 1; i >= 0; i-- {
		_ = sendinput.SendKeyboardInput(modifiers[i], false)
	}
}
