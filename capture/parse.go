package capture

import (
	"strconv"
	"strings"

	"AutoPageShot/apperr"
)

// ParseRegion は "x,y,幅,高さ" 形式のキャプチャ範囲を読み取ります。
func ParseRegion(s string) (Region, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Region{}, apperr.Newf(apperr.KindConfig, "キャプチャ範囲は x,y,幅,高さ で指定してください: %q", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Region{}, apperr.Wrapf(err, apperr.KindConfig, "キャプチャ範囲の形式が正しくありません: %q", s)
		}
		v[i] = n
	}
	r := Region{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
	if !r.Valid() {
		return Region{}, apperr.Newf(apperr.KindConfig, "キャプチャ範囲の幅と高さは 1 以上にしてください: %q", s)
	}
	return r, nil
}
