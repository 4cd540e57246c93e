// Package compare は連続して同じページが撮れたこと（最終ページに到達したこと）を検出します。
package compare

import (
	"image"

	"github.com/corona10/goimagehash"
)

// 32x32 の差分ハッシュ（1024 bit）。文字だけのページ同士でも衝突しにくい。
const hashSide = 32

// Hash は画像の差分ハッシュを返します。
func Hash(img image.Image) (*goimagehash.ExtImageHash, error) {
	return goimagehash.ExtDifferenceHash(img, hashSide, hashSide)
}

// Same は2つのハッシュの距離が threshold 以下なら true を返します。nil が含まれる場合は false です。
func Same(a, b *goimagehash.ExtImageHash, threshold int) bool {
	if a == nil || b == nil {
		return false
	}
	d, err := a.Distance(b)
	if err != nil {
		return false
	}
	return d <= threshold
}

// Tracker は直近の画像が何枚連続で同一かを数えます。
type Tracker struct {
	// Limit 枚連続で同一になったら Observe が true を返します。2 未満なら検出しません。
	Limit int
	// Threshold はハッシュ距離の許容値です（0 で完全一致）。
	Threshold int

	last *goimagehash.ExtImageHash
	run  int
}

// NewTracker は limit 枚連続で同一を検出する Tracker を作成します。
func NewTracker(limit int) *Tracker {
	return &Tracker{Limit: limit}
}

// Observe は新しい画像を記録し、直近 Limit 枚が同一になったら true を返します。
func (t *Tracker) Observe(img image.Image) (bool, error) {
	if t.Limit < 2 {
		return false, nil
	}
	h, err := Hash(img)
	if err != nil {
		return false, err
	}
	if Same(t.last, h, t.Threshold) {
		t.run++
	} else {
		t.run = 1
	}
	t.last = h
	return t.run >= t.Limit, nil
}

// Run は現在の連続同一枚数を返します。
func (t *Tracker) Run() int { return t.run }

// Reset は記録を破棄します。
func (t *Tracker) Reset() {
	t.last = nil
	t.run = 0
}
