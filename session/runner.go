package session

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"AutoPageShot/apperr"
	"AutoPageShot/capture"
)

// State は実行状態です。
type State struct {
	Running  bool
	Captured int
}

// Result は1回の撮影の結果です。Err が nil でなくても Frames には撮影済みの画像が入ります。
type Result struct {
	Frames []capture.Frame
	Reason EndReason
	Err    error
}

// Runner は Loop を1つのワーカー goroutine で実行します。同時に実行できるのは1回だけです。
type Runner struct {
	loop *Loop

	running  atomic.Bool
	stop     atomic.Bool
	captured atomic.Int64

	mu     sync.Mutex
	done   chan struct{}
	result Result
}

// NewRunner は Runner を作成します。
func NewRunner(loop *Loop) *Runner {
	return &Runner{loop: loop}
}

// Start は設定を検証してから撮影を開始します。
// 設定不備は goroutine を起動する前に KindConfig で返し、実行中の場合も開始しません。
// onDone は終了時（完了・停止・異常終了のいずれも）にワーカー goroutine から呼ばれます。
func (r *Runner) Start(cfg RunConfig, onProgress ProgressFunc, onDone func(Result)) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !r.running.CompareAndSwap(false, true) {
		return apperr.New(apperr.KindConfig, "撮影はすでに実行中です。")
	}

	r.stop.Store(false)
	r.captured.Store(0)
	done := make(chan struct{})
	r.mu.Lock()
	r.done = done
	r.result = Result{}
	r.mu.Unlock()

	progress := func(current, target int) {
		r.captured.Store(int64(current))
		if onProgress != nil {
			onProgress(current, target)
		}
	}

	go func() {
		defer close(done)
		frames, err := r.loop.Run(cfg, progress, r.shouldContinue)
		res := Result{Frames: frames, Reason: r.loop.Reason(), Err: err}
		slog.Info("撮影を終了しました", "frames", len(frames), "reason", res.Reason.String(), "error", err)

		r.mu.Lock()
		r.result = res
		r.mu.Unlock()
		r.running.Store(false)
		if onDone != nil {
			onDone(res)
		}
	}()
	return nil
}

// Cancel は停止を要求します。実行中のキャプチャ・クリックが終わってから止まります。
func (r *Runner) Cancel() {
	if r.running.Load() {
		slog.Info("停止が要求されました")
	}
	r.stop.Store(true)
}

// Wait はワーカーの終了を待って結果を返します。一度も開始していなければゼロ値を返します。
func (r *Runner) Wait() Result {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return Result{}
	}
	<-done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// State は現在の実行状態を返します。
func (r *Runner) State() State {
	return State{Running: r.running.Load(), Captured: int(r.captured.Load())}
}

func (r *Runner) shouldContinue() bool {
	return !r.stop.Load()
}
