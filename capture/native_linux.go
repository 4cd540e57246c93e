//go:build linux

package capture

import (
	"fmt"
	"os"
)

func nativeStrategies() []Strategy {
	return []Strategy{
		commandStrategy{
			name: "grim",
			bin:  "grim",
			args: func(r Region, out string) []string {
				return []string{"-g", fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height), out}
			},
			guard: func() bool { return os.Getenv("WAYLAND_DISPLAY") != "" },
		},
		commandStrategy{
			name: "scrot",
			bin:  "scrot",
			args: func(r Region, out string) []string {
				return []string{"-o", "-a", fmt.Sprintf("%d,%d,%d,%d", r.X, r.Y, r.Width, r.Height), out}
			},
			guard: func() bool { return os.Getenv("DISPLAY") != "" },
		},
	}
}
