// Package session はページめくりと撮影を繰り返すループと、その実行状態を管理します。
package session

import (
	"strings"
	"time"

	"AutoPageShot/apperr"
	"AutoPageShot/capture"
	"AutoPageShot/input"
)

// 画質倍率の範囲。
const (
	MinQualityScale = 1.0
	MaxQualityScale = 3.0
)

// RunConfig は1回の撮影に使う設定です。撮影中は変更しません。
type RunConfig struct {
	Region capture.Region
	// Advance はページめくりのクリック位置です。AdvanceKey を使う場合は nil でも構いません。
	Advance *input.Point
	// AdvanceKey が空でなければクリックの代わりにキー操作でページをめくります。
	AdvanceKey   string
	Wait         time.Duration
	Count        int
	QualityScale float64
	OutputPath   string
	// StopOnRepeat 枚連続で同じ画像になったら終了します（0 で無効）。
	StopOnRepeat int
	// FocusTitle は撮影開始時に前面にするウィンドウのタイトルです。
	FocusTitle string
}

// Validate は撮影開始前に必須項目を確認し、不足があれば KindConfig を返します。
func (c RunConfig) Validate() error {
	switch {
	case strings.TrimSpace(c.OutputPath) == "":
		return apperr.New(apperr.KindConfig, "PDF出力パスが設定されていません。")
	case !c.Region.Valid():
		return apperr.New(apperr.KindConfig, "スクリーンショット範囲が設定されていません。")
	case c.Advance == nil && strings.TrimSpace(c.AdvanceKey) == "":
		return apperr.New(apperr.KindConfig, "クリック位置が設定されていません。")
	case c.Count <= 0:
		return apperr.New(apperr.KindConfig, "撮影枚数は1以上に設定してください。")
	case c.Wait <= 0:
		return apperr.New(apperr.KindConfig, "待機時間は0より大きく設定してください。")
	case c.QualityScale < MinQualityScale || c.QualityScale > MaxQualityScale:
		return apperr.Newf(apperr.KindConfig, "PDF品質設定は %.1f〜%.1f 倍で指定してください。", MinQualityScale, MaxQualityScale)
	case c.StopOnRepeat < 0:
		return apperr.New(apperr.KindConfig, "連続同一枚数は0以上で指定してください。")
	}
	return nil
}
