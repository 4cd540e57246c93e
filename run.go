package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"AutoPageShot/apperr"
	"AutoPageShot/capture"
	"AutoPageShot/config"
	"AutoPageShot/curation"
	"AutoPageShot/focus"
	"AutoPageShot/input"
	"AutoPageShot/input/robot"
	"AutoPageShot/output"
	"AutoPageShot/session"
)

type runOptions struct {
	region       string
	advance      string
	key          string
	wait         float64
	count        int
	scale        float64
	out          string
	title        string
	stopOnRepeat int
	focusTitle   string
	savePages    string
	drop         string
	moves        []string
	jpegQuality  int
	warmup       float64
}

func newRunCmd(d config.Defaults) *cobra.Command {
	opts := &runOptions{
		wait:         d.Wait.Seconds(),
		count:        d.Count,
		scale:        d.QualityScale,
		stopOnRepeat: d.StopOnRepeat,
		jpegQuality:  d.JPEGQuality,
		warmup:       d.Warmup.Seconds(),
		title:        "screenshot-" + time.Now().Format("2006-01-02_15-04-05"),
	}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "ページをめくりながら撮影し、PDF を作成する",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(cmd.Context(), *opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.region, "region", "", "キャプチャ範囲 x,y,幅,高さ")
	f.StringVar(&opts.advance, "advance", "", "ページめくりのクリック位置 x,y")
	f.StringVar(&opts.key, "key", "", "クリックの代わりに送信するキー操作（例: Right, Ctrl+Right）")
	f.Float64Var(&opts.wait, "wait", opts.wait, "ページめくり後の待機時間（秒）")
	f.IntVar(&opts.count, "count", opts.count, "撮影枚数")
	f.Float64Var(&opts.scale, "scale", opts.scale, "PDF品質設定 1.0〜3.0 倍 (1.0=軽量, 1.5=推奨, 3.0=高品質)")
	f.StringVar(&opts.out, "out", "", "PDF出力パス（省略時はタイトルから作成）")
	f.StringVar(&opts.title, "title", opts.title, "PDFのタイトル")
	f.IntVar(&opts.stopOnRepeat, "stop-on-repeat", opts.stopOnRepeat, "この枚数連続で同じ画像になったら終了（0=無効）")
	f.StringVar(&opts.focusTitle, "focus-title", "", "開始時に前面にするウィンドウのタイトル")
	f.StringVar(&opts.savePages, "save-pages", "", "PDFに入れたページを JPG でも保存するフォルダ")
	f.StringVar(&opts.drop, "drop", "", "PDFから除くページ番号（例: 1,5,7）")
	f.StringArrayVar(&opts.moves, "move", nil, "ページの並べ替え 移動元:移動先（例: 3:1）。複数指定可")
	f.IntVar(&opts.jpegQuality, "jpeg-quality", opts.jpegQuality, "PDF内の JPEG 品質")
	f.Float64Var(&opts.warmup, "warmup", opts.warmup, "1回目のページめくり後の待機時間（秒）")
	return cmd
}

// runConfig はフラグを検証前の RunConfig に変換します。
func (o runOptions) runConfig() (session.RunConfig, error) {
	cfg := session.RunConfig{
		AdvanceKey:   o.key,
		Wait:         config.Seconds(o.wait),
		Count:        o.count,
		QualityScale: o.scale,
		OutputPath:   o.out,
		StopOnRepeat: o.stopOnRepeat,
		FocusTitle:   o.focusTitle,
	}
	if cfg.OutputPath == "" && o.title != "" {
		cfg.OutputPath = output.PDFFileName(o.title)
	}
	if o.region != "" {
		r, err := capture.ParseRegion(o.region)
		if err != nil {
			return cfg, err
		}
		cfg.Region = r
	}
	if o.advance != "" {
		p, err := input.ParsePoint(o.advance)
		if err != nil {
			return cfg, err
		}
		cfg.Advance = &p
	}
	return cfg, nil
}

func runCapture(ctx context.Context, o runOptions) error {
	cfg, err := o.runConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	drops, err := curation.ParsePageList(o.drop)
	if err != nil {
		return err
	}
	moves, err := curation.ParseMoves(o.moves)
	if err != nil {
		return err
	}
	if err := curation.CheckRange(drops, moves, cfg.Count); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0755); err != nil {
		return apperr.Wrap(err, apperr.KindCompile, "フォルダ作成に失敗しました")
	}

	capturer := capture.New()
	slog.Debug("キャプチャ手段", "strategies", capturer.Strategies())

	mouse := robot.Mouse{}
	var adv input.Advancer = input.PointAdvancer{Injector: input.NewInjector(mouse), Point: cfg.Advance}
	if cfg.AdvanceKey != "" {
		adv = input.KeyAdvancer{Keys: keyPresser(), Key: cfg.AdvanceKey}
	}

	loop := &session.Loop{
		Source:   capturer,
		Advancer: adv,
		Prepare:  focus.ForPlatform(cfg.FocusTitle, mouse).Activate,
		Warmup:   config.Seconds(o.warmup),
	}
	runner := session.NewRunner(loop)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.Start(cfg, func(current, target int) {
		fmt.Fprintf(os.Stderr, "撮影枚数: %d/%d\n", current, target)
	}, nil); err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		runner.Cancel()
	}()

	res := runner.Wait()
	stop()
	fmt.Fprintf(os.Stderr, "撮影終了 (%s): %d 枚\n", res.Reason, len(res.Frames))
	if res.Err != nil {
		slog.Error("撮影が途中で終了しました", "error", res.Err)
		if len(res.Frames) == 0 {
			return res.Err
		}
	}

	store := curation.NewCurated(res.Frames, drops, moves)

	if o.savePages != "" {
		if _, err := output.SavePages(o.savePages, store.Images(), o.jpegQuality); err != nil {
			return err
		}
	}

	c := &output.Compiler{JPEGQuality: o.jpegQuality, Title: o.title}
	rep, err := c.Compile(store.Images(), cfg.QualityScale, cfg.OutputPath)
	if err != nil {
		return err
	}
	fmt.Printf("完了: %d ページの PDF を %s に出力しました。\n", rep.Pages, rep.Path)
	return nil
}
