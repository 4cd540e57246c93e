//go:build !windows

package main

import (
	"AutoPageShot/input"
	"AutoPageShot/input/robot"
)

func keyPresser() input.KeyPresser { return robot.Keys{} }
