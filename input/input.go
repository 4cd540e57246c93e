// Package input はページめくり用の疑似入力（クリック・キー送信）を扱います。
package input

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"AutoPageShot/apperr"
)

// Point は画面座標です。
type Point struct {
	X, Y int
}

func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Clicker は指定座標で1回の押下・解放を行います。
type Clicker interface {
	Click(p Point) error
}

// KeyPresser はキー操作文字列（例: "Enter", "Ctrl+Right"）を1回送信します。
type KeyPresser interface {
	Press(keyOperation string) error
}

// Advancer はページを1つ進めます。
type Advancer interface {
	Advance() error
}

// Injector は Clicker を包み、失敗を KindInjection の警告として返します。
type Injector struct {
	clicker Clicker
}

// NewInjector は Injector を作成します。
func NewInjector(c Clicker) *Injector {
	return &Injector{clicker: c}
}

// Trigger は p で1回クリックします。p が nil の場合は記録だけして何もしません。
func (in *Injector) Trigger(p *Point) (err error) {
	if p == nil {
		slog.Warn("クリック位置が設定されていません")
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Newf(apperr.KindInjection, "クリックに失敗しました (%s): %v", p, r)
		}
	}()
	slog.Debug("クリック実行", "point", p.String())
	if err := in.clicker.Click(*p); err != nil {
		return apperr.Wrapf(err, apperr.KindInjection, "クリックに失敗しました (%s)", p)
	}
	return nil
}

// PointAdvancer は決まった座標をクリックしてページを進めます。
type PointAdvancer struct {
	Injector *Injector
	Point    *Point
}

func (a PointAdvancer) Advance() error {
	return a.Injector.Trigger(a.Point)
}

// KeyAdvancer はキー操作を送信してページを進めます。
type KeyAdvancer struct {
	Keys KeyPresser
	Key  string
}

func (a KeyAdvancer) Advance() (err error) {
	key := strings.TrimSpace(a.Key)
	if key == "" {
		slog.Warn("キー操作が設定されていません")
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Newf(apperr.KindInjection, "キー送信に失敗しました (%s): %v", key, r)
		}
	}()
	if err := a.Keys.Press(key); err != nil {
		return apperr.Wrapf(err, apperr.KindInjection, "キー送信に失敗しました (%s)", key)
	}
	return nil
}

// SplitKeyOperation は "Ctrl+Shift+Right" を修飾キーとメインキーに分けます。
func SplitKeyOperation(keyOperation string) (modifiers []string, main string) {
	parts := strings.Split(keyOperation, "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i < len(parts)-1 {
			if p != "" {
				modifiers = append(modifiers, p)
			}
			continue
		}
		main = p
	}
	return modifiers, main
}

// ParsePoint は "x,y" 形式の座標を読み取ります。
func ParsePoint(s string) (Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, apperr.Newf(apperr.KindConfig, "座標は x,y で指定してください: %q", s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if errX != nil || errY != nil {
		return Point{}, apperr.Newf(apperr.KindConfig, "座標の形式が正しくありません: %q", s)
	}
	return Point{X: x, Y: y}, nil
}
