package curation

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"AutoPageShot/apperr"
	"AutoPageShot/capture"
)

// PageMove は 1 始まりのページ番号による並べ替え指定です。
type PageMove struct {
	From, To int
}

// ParsePageList は "1,5,7" を昇順・重複なしの 1 始まりのページ番号にします。空文字は nil です。
func ParsePageList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	seen := map[int]bool{}
	var pages []int
	for _, p := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return nil, apperr.Newf(apperr.KindConfig, "ページ番号が正しくありません: %q", p)
		}
		if !seen[n] {
			seen[n] = true
			pages = append(pages, n)
		}
	}
	sort.Ints(pages)
	return pages, nil
}

// ParseMoves は "移動元:移動先" の並びを読み取ります。
func ParseMoves(args []string) ([]PageMove, error) {
	moves := make([]PageMove, 0, len(args))
	for _, m := range args {
		from, to, ok := strings.Cut(m, ":")
		if !ok {
			return nil, apperr.Newf(apperr.KindConfig, "並べ替えは 移動元:移動先 で指定してください: %q", m)
		}
		f, errF := strconv.Atoi(strings.TrimSpace(from))
		t, errT := strconv.Atoi(strings.TrimSpace(to))
		if errF != nil || errT != nil || f < 1 || t < 1 {
			return nil, apperr.Newf(apperr.KindConfig, "並べ替えの指定が正しくありません: %q", m)
		}
		moves = append(moves, PageMove{From: f, To: t})
	}
	return moves, nil
}

// CheckRange は n 枚の撮影に対して drops と moves が範囲内かを確かめます。
// drops は ParsePageList の結果（昇順・重複なし）を想定しています。
func CheckRange(drops []int, moves []PageMove, n int) error {
	if k := len(drops); k > 0 && drops[k-1] > n {
		return apperr.Newf(apperr.KindConfig, "削除するページ %d がありません（%d 枚）", drops[k-1], n)
	}
	remain := n - len(drops)
	for _, m := range moves {
		if m.From > remain || m.To > remain {
			return apperr.Newf(apperr.KindConfig, "ページ %d を %d に移動できません（%d ページ）", m.From, m.To, remain)
		}
	}
	return nil
}

// Apply は撮影順のページ番号 drops を削除してから、moves を現在の位置で順に適用します。
// 存在しないページを指定した場合は何も変更せずに KindConfig を返します。
func (s *Store) Apply(drops []int, moves []PageMove) error {
	if err := CheckRange(drops, moves, len(s.frames)); err != nil {
		return err
	}
	for i := len(drops) - 1; i >= 0; i-- {
		s.Remove(drops[i] - 1)
	}
	for _, m := range moves {
		s.Move(m.From-1, m.To-1)
	}
	return nil
}

// NewCurated は frames から Store を作り、drops と moves を適用します。
// 停止や連続同一で撮影枚数が減り適用できない場合は、警告を記録して撮影順のまま返します。
func NewCurated(frames []capture.Frame, drops []int, moves []PageMove) *Store {
	s := New(frames)
	if err := s.Apply(drops, moves); err != nil {
		slog.Warn("ページの削除・並べ替えを適用できないため、撮影順のまま保存します", "frames", len(frames), "error", err)
	}
	return s
}
