// Package logutil は slog の出力先を設定します。
package logutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Setup はデフォルトの slog ロガーを設定します。
// logFile が空なら標準エラー出力、指定があればそのファイルに追記します。
// 返り値の close はファイルを開いた場合にそれを閉じます。
func Setup(verbose bool, logFile string) (close func() error, err error) {
	var w io.Writer = os.Stderr
	close = func() error { return nil }
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return close, fmt.Errorf("ログファイルを開けませんでした %s: %w", logFile, err)
		}
		w = f
		close = f.Close
	}
	slog.SetDefault(slog.New(NewHandler(w, verbose)))
	return close, nil
}

// NewHandler は verbose のとき Debug、それ以外は Info 以上を出力するテキストハンドラを返します。
func NewHandler(w io.Writer, verbose bool) slog.Handler {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}
