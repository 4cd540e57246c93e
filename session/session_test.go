package session

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"AutoPageShot/apperr"
	"AutoPageShot/capture"
	"AutoPageShot/input"
)

// fakeBook は「ページ」ごとに異なる画像を返し、Advance で次のページに進む。
type fakeBook struct {
	mu       sync.Mutex
	page     int
	lastPage int // 0 なら無制限
	captures int
	advances int
	failAt   map[int]error // captures の回数 -> エラー
	panicAt  int
}

func (b *fakeBook) Capture(r capture.Region) (capture.Frame, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.captures++
	if b.panicAt != 0 && b.captures == b.panicAt {
		panic("driver crashed")
	}
	if err, ok := b.failAt[b.captures]; ok {
		return capture.Frame{}, err
	}
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x*(b.page+3) + y*(b.page+1)*5) % 256)})
		}
	}
	return capture.Frame{Pixels: img, Source: "fake", Resolution: img.Bounds().Size()}, nil
}

func (b *fakeBook) Advance() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advances++
	if b.lastPage == 0 || b.page < b.lastPage {
		b.page++
	}
	return nil
}

func validConfig(n int) RunConfig {
	return RunConfig{
		Region:       capture.Region{X: 0, Y: 0, Width: 32, Height: 32},
		Advance:      &input.Point{X: 100, Y: 100},
		Wait:         10 * time.Millisecond,
		Count:        n,
		QualityScale: 1.5,
		OutputPath:   "book.pdf",
	}
}

func newLoop(b *fakeBook, slept *[]time.Duration) *Loop {
	return &Loop{
		Source:   b,
		Advancer: b,
		Warmup:   time.Second,
		Sleep: func(d time.Duration) {
			if slept != nil {
				*slept = append(*slept, d)
			}
		},
	}
}

type progressCall struct{ current, target int }

func TestLoopCapturesAllInOrder(t *testing.T) {
	const n = 5
	b := &fakeBook{}
	var slept []time.Duration
	var calls []progressCall

	l := newLoop(b, &slept)
	frames, err := l.Run(validConfig(n), func(c, tgt int) { calls = append(calls, progressCall{c, tgt}) }, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(frames) != n {
		t.Fatalf("frames = %d, want %d", len(frames), n)
	}
	for i, f := range frames {
		if f.Index != i+1 {
			t.Errorf("frames[%d].Index = %d", i, f.Index)
		}
	}
	if len(calls) != n {
		t.Fatalf("progress calls = %v", calls)
	}
	for i, c := range calls {
		if c != (progressCall{i + 1, n}) {
			t.Errorf("progress[%d] = %v, want (%d,%d)", i, c, i+1, n)
		}
	}
	if b.advances != n-1 {
		t.Errorf("advances = %d, want %d (no advance before the first capture)", b.advances, n-1)
	}
	if l.Reason() != Completed {
		t.Errorf("Reason = %v", l.Reason())
	}

	// 最初の待機だけウォームアップ
	if len(slept) != n-1 || slept[0] != time.Second {
		t.Fatalf("sleeps = %v", slept)
	}
	for _, d := range slept[1:] {
		if d != 10*time.Millisecond {
			t.Errorf("sleep = %v, want 10ms", d)
		}
	}
}

func TestLoopWarmupNotShorterThanWait(t *testing.T) {
	b := &fakeBook{}
	var slept []time.Duration
	cfg := validConfig(3)
	cfg.Wait = 3 * time.Second
	if _, err := newLoop(b, &slept).Run(cfg, nil, nil); err != nil {
		t.Fatal(err)
	}
	for _, d := range slept {
		if d != 3*time.Second {
			t.Errorf("sleep = %v, want the configured wait", d)
		}
	}
}

func TestLoopCancelAfterK(t *testing.T) {
	const n, k = 10, 4
	b := &fakeBook{}
	stopped := false

	l := newLoop(b, nil)
	frames, err := l.Run(validConfig(n),
		func(c, _ int) {
			if c == k {
				stopped = true
			}
		},
		func() bool { return !stopped })
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(frames) != k {
		t.Errorf("frames = %d, want %d", len(frames), k)
	}
	if b.captures != k {
		t.Errorf("captures attempted = %d, want %d", b.captures, k)
	}
	if l.Reason() != Cancelled {
		t.Errorf("Reason = %v, want cancelled", l.Reason())
	}
}

func TestLoopSkipsFailedFrames(t *testing.T) {
	b := &fakeBook{failAt: map[int]error{2: errors.New("flaky")}}
	var calls []progressCall
	frames, err := newLoop(b, nil).Run(validConfig(4), func(c, tgt int) { calls = append(calls, progressCall{c, tgt}) }, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(frames) != 3 {
		t.Errorf("frames = %d, want 3", len(frames))
	}
	if b.captures != 4 {
		t.Errorf("captures = %d, want 4", b.captures)
	}
	if len(calls) != 3 || calls[2] != (progressCall{3, 4}) {
		t.Errorf("progress = %v", calls)
	}
}

func TestLoopAllFailuresIsRunError(t *testing.T) {
	b := &fakeBook{failAt: map[int]error{1: errors.New("a"), 2: errors.New("b")}}
	l := newLoop(b, nil)
	frames, err := l.Run(validConfig(2), nil, nil)
	if !apperr.Is(err, apperr.KindRun) {
		t.Fatalf("err = %v, want KindRun", err)
	}
	if len(frames) != 0 || l.Reason() != Failed {
		t.Errorf("frames = %d reason = %v", len(frames), l.Reason())
	}
}

func TestLoopPanicKeepsPartialResult(t *testing.T) {
	b := &fakeBook{panicAt: 3}
	l := newLoop(b, nil)
	frames, err := l.Run(validConfig(5), nil, nil)
	if !apperr.Is(err, apperr.KindRun) {
		t.Fatalf("err = %v, want KindRun", err)
	}
	if len(frames) != 2 {
		t.Errorf("partial frames = %d, want 2", len(frames))
	}
	if l.Reason() != Failed {
		t.Errorf("Reason = %v", l.Reason())
	}
}

func TestLoopStopsOnRepeatedPage(t *testing.T) {
	// 3ページで終わる本。4枚目以降は同じページが続く。
	b := &fakeBook{lastPage: 2}
	cfg := validConfig(20)
	cfg.StopOnRepeat = 3

	l := newLoop(b, nil)
	frames, err := l.Run(cfg, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.Reason() != RepeatDetected {
		t.Fatalf("Reason = %v, want repeat", l.Reason())
	}
	if len(frames) != 3 {
		t.Errorf("frames = %d, want 3 (duplicates dropped)", len(frames))
	}
	if b.captures != 5 {
		t.Errorf("captures = %d, want 5", b.captures)
	}
}

func TestLoopPrepareRunsOnceAfterFirstFrame(t *testing.T) {
	b := &fakeBook{}
	prepared := 0
	l := newLoop(b, nil)
	l.Prepare = func() {
		prepared++
		if b.captures != 1 || b.advances != 0 {
			t.Errorf("Prepare ran at captures=%d advances=%d", b.captures, b.advances)
		}
	}
	if _, err := l.Run(validConfig(3), nil, nil); err != nil {
		t.Fatal(err)
	}
	if prepared != 1 {
		t.Errorf("Prepare called %d times", prepared)
	}
}

func TestLoopSkipsPrepareWhenCancelledAfterFirstFrame(t *testing.T) {
	b := &fakeBook{}
	prepared := false
	l := newLoop(b, nil)
	l.Prepare = func() { prepared = true }
	frames, err := l.Run(validConfig(3), nil, func() bool { return false })
	if err != nil {
		t.Fatal(err)
	}
	if prepared {
		t.Error("Prepare ran after cancel")
	}
	if len(frames) != 1 || b.advances != 0 || l.Reason() != Cancelled {
		t.Errorf("frames=%d advances=%d reason=%v", len(frames), b.advances, l.Reason())
	}
}

func TestLoopSingleFrame(t *testing.T) {
	b := &fakeBook{}
	frames, err := newLoop(b, nil).Run(validConfig(1), nil, nil)
	if err != nil || len(frames) != 1 || b.advances != 0 {
		t.Errorf("frames=%d err=%v advances=%d", len(frames), err, b.advances)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RunConfig)
		ok     bool
	}{
		{"valid", func(*RunConfig) {}, true},
		{"key instead of point", func(c *RunConfig) { c.Advance = nil; c.AdvanceKey = "Right" }, true},
		{"no output", func(c *RunConfig) { c.OutputPath = " " }, false},
		{"no region", func(c *RunConfig) { c.Region = capture.Region{} }, false},
		{"no advance", func(c *RunConfig) { c.Advance = nil }, false},
		{"zero count", func(c *RunConfig) { c.Count = 0 }, false},
		{"zero wait", func(c *RunConfig) { c.Wait = 0 }, false},
		{"scale low", func(c *RunConfig) { c.QualityScale = 0.5 }, false},
		{"scale high", func(c *RunConfig) { c.QualityScale = 3.5 }, false},
		{"negative repeat", func(c *RunConfig) { c.StopOnRepeat = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(3)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !apperr.Is(err, apperr.KindConfig) {
				t.Errorf("Validate() = %v, want KindConfig", err)
			}
		})
	}
}

func TestRunnerRejectsInvalidConfigBeforeStarting(t *testing.T) {
	b := &fakeBook{}
	r := NewRunner(newLoop(b, nil))
	cfg := validConfig(3)
	cfg.Region = capture.Region{}

	if err := r.Start(cfg, nil, nil); !apperr.Is(err, apperr.KindConfig) {
		t.Fatalf("Start = %v, want KindConfig", err)
	}
	if r.State().Running {
		t.Error("runner should not be running")
	}
	if b.captures != 0 {
		t.Error("no capture should happen")
	}
	if res := r.Wait(); len(res.Frames) != 0 {
		t.Error("Wait without a run should return an empty result")
	}
}

func TestRunnerRunsAndJoins(t *testing.T) {
	b := &fakeBook{}
	r := NewRunner(newLoop(b, nil))
	doneCh := make(chan Result, 1)

	if err := r.Start(validConfig(4), nil, func(res Result) { doneCh <- res }); err != nil {
		t.Fatal(err)
	}
	res := r.Wait()
	if len(res.Frames) != 4 || res.Reason != Completed || res.Err != nil {
		t.Errorf("result = %d frames, %v, %v", len(res.Frames), res.Reason, res.Err)
	}
	cb := <-doneCh
	if len(cb.Frames) != 4 {
		t.Errorf("onDone frames = %d", len(cb.Frames))
	}
	if st := r.State(); st.Running || st.Captured != 4 {
		t.Errorf("State = %+v", st)
	}
}

func TestRunnerRejectsSecondStartAndCancels(t *testing.T) {
	b := &fakeBook{}
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	l := newLoop(b, nil)
	l.Sleep = func(time.Duration) {
		once.Do(func() { close(started) })
		<-release
	}
	r := NewRunner(l)
	if err := r.Start(validConfig(50), nil, nil); err != nil {
		t.Fatal(err)
	}
	<-started

	if err := r.Start(validConfig(2), nil, nil); !apperr.Is(err, apperr.KindConfig) {
		t.Errorf("second Start = %v, want rejection", err)
	}
	if !r.State().Running {
		t.Error("State().Running should be true mid-run")
	}

	r.Cancel()
	close(release)
	res := r.Wait()
	if res.Reason != Cancelled {
		t.Errorf("Reason = %v, want cancelled", res.Reason)
	}
	// 待機中に停止したので、1枚目のみ
	if len(res.Frames) != 1 {
		t.Errorf("frames = %d, want 1", len(res.Frames))
	}
}
