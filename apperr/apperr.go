// Package apperr はユーザーにそのまま表示できるエラー種別を定義します。
package apperr

import (
	"errors"
	"fmt"
)

// Kind はエラーの種別です。
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfig は実行開始前に検出される設定不備です。
	KindConfig
	// KindCapture はすべてのキャプチャ手段が失敗したことを表します。
	KindCapture
	// KindInjection はクリック・キー送信の失敗です（致命的ではない警告）。
	KindInjection
	// KindRun は撮影ループが途中で異常終了したことを表します。
	KindRun
	// KindCompile は PDF 生成の失敗です。
	KindCompile
)

var kindNames = map[Kind]string{
	KindUnknown:   "unknown",
	KindConfig:    "config",
	KindCapture:   "capture",
	KindInjection: "injection",
	KindRun:       "run",
	KindCompile:   "compile",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error は種別・メッセージ・原因を持つエラーです。
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

// Unwrap は errors.Is / errors.As のために原因を返します。
func (e *Error) Unwrap() error { return e.Cause }

// New は種別とメッセージからエラーを作成します。
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf はメッセージを書式指定して作成します。
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap は既存のエラーを原因として包みます。
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Cause: err}
}

// Wrapf は Wrap の書式指定版です。
func Wrapf(err error, kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: err}
}

// KindOf はエラーチェーン中の最初の *Error の種別を返します。見つからなければ KindUnknown です。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is は err が指定した種別かどうかを返します。
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
