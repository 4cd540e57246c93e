// Package curation は撮影後の画像の確認・削除・並べ替えを扱います。
// 撮影ループの終了後に制御側からのみ操作するため、ロックはしません。
package curation

import (
	"image"

	"github.com/nfnt/resize"

	"AutoPageShot/capture"
)

// DefaultThumbnailSize はサムネイルの長辺の既定値です。
const DefaultThumbnailSize = 120

const noSelection = -1

// Store は順序付きの画像列と現在の選択位置を持ちます。
// 選択位置は常に範囲内か、空のときは未選択です。
type Store struct {
	frames   []capture.Frame
	selected int
}

// New は frames の複製で Store を作成し、先頭を選択します。
func New(frames []capture.Frame) *Store {
	s := &Store{frames: append([]capture.Frame(nil), frames...), selected: noSelection}
	if len(s.frames) > 0 {
		s.selected = 0
	}
	return s
}

// Len は画像の枚数です。
func (s *Store) Len() int { return len(s.frames) }

// Frames は現在の順序の画像列の複製を返します。
func (s *Store) Frames() []capture.Frame {
	return append([]capture.Frame(nil), s.frames...)
}

// Images は PDF 化に渡す画像を現在の順序で返します。
func (s *Store) Images() []image.Image {
	out := make([]image.Image, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.Pixels
	}
	return out
}

// At は index 番目の画像を返します。
func (s *Store) At(index int) (capture.Frame, bool) {
	if !s.inRange(index) {
		return capture.Frame{}, false
	}
	return s.frames[index], true
}

// Selected は選択中の位置を返します。空なら ok は false です。
func (s *Store) Selected() (index int, ok bool) {
	if s.selected == noSelection {
		return 0, false
	}
	return s.selected, true
}

// Select は index を選択します。範囲外なら何もせず false を返します。
func (s *Store) Select(index int) bool {
	if !s.inRange(index) {
		return false
	}
	s.selected = index
	return true
}

// Next は次の画像を選択します。
func (s *Store) Next() bool { return s.Select(s.selected + 1) }

// Prev は前の画像を選択します。
func (s *Store) Prev() bool { return s.Select(s.selected - 1) }

// Remove は index の画像を削除し、後ろの画像を詰めます。
// 選択位置は新しい末尾に収まるよう調整し、空になれば未選択にします。
func (s *Store) Remove(index int) bool {
	if !s.inRange(index) {
		return false
	}
	s.frames = append(s.frames[:index], s.frames[index+1:]...)
	switch {
	case len(s.frames) == 0:
		s.selected = noSelection
	case s.selected > index:
		s.selected--
	case s.selected >= len(s.frames):
		s.selected = len(s.frames) - 1
	}
	return true
}

// RemoveSelected は選択中の画像を削除します。
func (s *Store) RemoveSelected() bool {
	if s.selected == noSelection {
		return false
	}
	return s.Remove(s.selected)
}

// Move は from の画像を to の位置に移動し、移動した画像を選択します。
func (s *Store) Move(from, to int) bool {
	if !s.inRange(from) || !s.inRange(to) {
		return false
	}
	if from != to {
		f := s.frames[from]
		s.frames = append(s.frames[:from], s.frames[from+1:]...)
		s.frames = append(s.frames[:to], append([]capture.Frame{f}, s.frames[to:]...)...)
	}
	s.selected = to
	return true
}

// Thumbnail は index の画像を長辺 size ピクセル以内に縮小した複製を返します。
func (s *Store) Thumbnail(index int, size uint) (image.Image, bool) {
	if !s.inRange(index) {
		return nil, false
	}
	if size == 0 {
		size = DefaultThumbnailSize
	}
	return resize.Thumbnail(size, size, s.frames[index].Pixels, resize.Lanczos3), true
}

func (s *Store) inRange(index int) bool {
	return index >= 0 && index < len(s.frames)
}
