package main

import (
	"AutoPageShot/input"
	"AutoPageShot/keyboard"
)

func keyPresser() input.KeyPresser { return keyboard.SendInput{} }
