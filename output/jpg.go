// Package output は撮影した画像を PDF や JPG ファイルとして書き出します。
package output

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	"AutoPageShot/apperr"
)

const defaultJpegQuality = 85

// PageFileName は index（1 始まり）番目のページの JPG ファイル名です。
func PageFileName(index int) string {
	return fmt.Sprintf("screenshot_%05d.jpg", index)
}

// SaveJPG は画像を指定フォルダに連番の JPG として保存し、ファイルパスを返します。
func SaveJPG(dir string, index int, img image.Image, quality int) (string, error) {
	if quality <= 0 {
		quality = defaultJpegQuality
	}
	path := filepath.Join(dir, PageFileName(index))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// SavePages は images を順に dir に JPG として保存します（フォルダがなければ作成します）。
func SavePages(dir string, images []image.Image, quality int) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperr.Wrapf(err, apperr.KindCompile, "フォルダ作成に失敗しました: %s", dir)
	}
	paths := make([]string, 0, len(images))
	for i, img := range images {
		p, err := SaveJPG(dir, i+1, img, quality)
		if err != nil {
			return paths, apperr.Wrapf(err, apperr.KindCompile, "保存に失敗しました: %s", PageFileName(i+1))
		}
		paths = append(paths, p)
	}
	return paths, nil
}
