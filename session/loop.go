package session

import (
	"fmt"
	"log/slog"
	"time"

	"AutoPageShot/apperr"
	"AutoPageShot/capture"
	"AutoPageShot/compare"
	"AutoPageShot/input"
)

// DefaultWarmup は1回目のページめくり後の待機時間です。アプリの描画や前面化が遅い環境向け。
const DefaultWarmup = time.Second

// FrameSource は範囲キャプチャを行うものです。*capture.Capturer が満たします。
type FrameSource interface {
	Capture(region capture.Region) (capture.Frame, error)
}

// ProgressFunc は撮影するたびに (撮影済み枚数, 目標枚数) で呼ばれます。
// ワーカー側の goroutine から呼ばれるため、UI を触る場合は呼び出し側で制御スレッドに戻すこと。
type ProgressFunc func(current, target int)

// EndReason はループの終了理由です。
type EndReason int

const (
	Completed EndReason = iota
	Cancelled
	RepeatDetected
	Failed
)

func (r EndReason) String() string {
	switch r {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case RepeatDetected:
		return "repeat"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("reason(%d)", int(r))
}

// Loop はページめくりと撮影を交互に行います。
type Loop struct {
	Source   FrameSource
	Advancer input.Advancer
	// Prepare は1枚目の撮影後、最初のページめくりの前に一度だけ呼ばれます（省略可）。
	Prepare func()
	Warmup  time.Duration
	Sleep   func(time.Duration)

	reason EndReason
}

// Run は cfg.Count 枚まで撮影し、撮影した画像を順に返します。
// shouldContinue が false を返したらその時点までの画像を返します（エラーではありません）。
// 1枚ごとのキャプチャ・入力の失敗は記録して次へ進みます。
// 予期しない panic は KindRun に変換し、それまでの画像と一緒に返します。
func (l *Loop) Run(cfg RunConfig, onProgress ProgressFunc, shouldContinue func() bool) (frames []capture.Frame, err error) {
	l.reason = Completed
	if onProgress == nil {
		onProgress = func(int, int) {}
	}
	if shouldContinue == nil {
		shouldContinue = func() bool { return true }
	}
	sleep := l.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	warmup := l.Warmup
	if warmup <= 0 {
		warmup = DefaultWarmup
	}

	defer func() {
		if r := recover(); r != nil {
			l.reason = Failed
			err = apperr.Newf(apperr.KindRun, "撮影処理が異常終了しました（%d 枚撮影済み）: %v", len(frames), r)
			slog.Error("撮影ループが異常終了しました", "captured", len(frames), "panic", r)
		}
	}()

	tracker := compare.NewTracker(cfg.StopOnRepeat)
	failures := 0

	// 撮影して追加する。連続同一で終了すべきなら true を返す。
	shoot := func(attempt int) bool {
		f, err := l.Source.Capture(cfg.Region)
		if err != nil {
			failures++
			slog.Warn("キャプチャに失敗しました", "attempt", attempt, "error", err)
			return false
		}
		f.Index = len(frames) + 1
		frames = append(frames, f)
		onProgress(len(frames), cfg.Count)

		repeated, err := tracker.Observe(f.Pixels)
		if err != nil {
			slog.Debug("画像ハッシュの計算に失敗しました", "error", err)
			return false
		}
		return repeated
	}

	stop := shoot(1)
	if l.Prepare != nil && cfg.Count > 1 && !stop && shouldContinue() {
		l.Prepare()
	}

	for i := 2; i <= cfg.Count && !stop; i++ {
		if !shouldContinue() {
			l.reason = Cancelled
			break
		}
		if l.Advancer != nil {
			if err := l.Advancer.Advance(); err != nil {
				slog.Warn("ページめくりに失敗しました", "attempt", i, "error", err)
			}
		}
		wait := cfg.Wait
		if i == 2 && warmup > wait {
			wait = warmup
		}
		sleep(wait)
		if !shouldContinue() {
			l.reason = Cancelled
			break
		}
		stop = shoot(i)
	}

	if stop {
		// 同一の N 枚のうち最初の1枚だけ残す
		drop := cfg.StopOnRepeat - 1
		frames = frames[:len(frames)-drop]
		l.reason = RepeatDetected
		slog.Info("同じページが続いたため終了しました", "repeat", cfg.StopOnRepeat, "kept", len(frames))
	}

	if len(frames) == 0 && failures > 0 {
		l.reason = Failed
		return frames, apperr.Newf(apperr.KindRun, "1枚も撮影できませんでした（%d 回失敗）", failures)
	}
	return frames, nil
}

// Reason は直前の Run の終了理由を返します。
func (l *Loop) Reason() EndReason { return l.reason }
