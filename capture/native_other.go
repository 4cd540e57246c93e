//go:build !windows && !darwin && !linux

package capture

func nativeStrategies() []Strategy { return nil }
