//go:build darwin

package capture

import "fmt"

// screencapture は Retina のバッキングスケールで書き出すため、論理座標の範囲でも実解像度の画像になる。
func nativeStrategies() []Strategy {
	return []Strategy{
		commandStrategy{
			name: "screencapture",
			bin:  "screencapture",
			args: func(r Region, out string) []string {
				return []string{"-x", "-t", "png", "-R", fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height), out}
			},
		},
	}
}
