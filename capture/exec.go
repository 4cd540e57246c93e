//go:build darwin || linux

package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
)

// commandStrategy は外部コマンドで PNG を書き出すキャプチャ手段です。
type commandStrategy struct {
	name  string
	bin   string
	args  func(region Region, out string) []string
	guard func() bool
}

func (c commandStrategy) Name() string { return c.name }

func (c commandStrategy) Available() bool {
	if c.guard != nil && !c.guard() {
		return false
	}
	_, err := exec.LookPath(c.bin)
	return err == nil
}

func (c commandStrategy) Capture(region Region) (image.Image, error) {
	dir, err := os.MkdirTemp("", "autopageshot-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "capture.png")
	cmd := exec.Command(c.bin, c.args(region, out)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", c.bin, err, bytes.TrimSpace(stderr.Bytes()))
	}

	f, err := os.Open(out)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}
