// Package config は .env と環境変数から既定値を読み込みます。コマンドラインの指定がこれを上書きします。
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "AUTOPAGESHOT_"

// Defaults は撮影・PDF 化の既定値です。
type Defaults struct {
	Wait         time.Duration
	Count        int
	QualityScale float64
	Warmup       time.Duration
	StopOnRepeat int
	JPEGQuality  int
	LogFile      string
	Verbose      bool
	EnvFile      string // 読み込んだ .env のパス（なければ空）
}

// Builtin は設定ファイルがない場合の既定値です。
func Builtin() Defaults {
	return Defaults{
		Wait:         500 * time.Millisecond,
		Count:        10,
		QualityScale: 1.5,
		Warmup:       time.Second,
		JPEGQuality:  85,
	}
}

// Load はカレントディレクトリ、次に実行ファイルのディレクトリの .env を読み込み、環境変数から既定値を作ります。
func Load() Defaults {
	envPath := resolveEnvPath()
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}
	d := FromEnv(os.Getenv)
	d.EnvFile = envPath
	return d
}

// FromEnv は getenv から既定値を作ります。不正な値は無視して組み込みの既定値を使います。
func FromEnv(getenv func(string) string) Defaults {
	d := Builtin()
	get := func(key string) string { return strings.TrimSpace(getenv(envPrefix + key)) }

	if v := get("WAIT"); v != "" {
		if sec, err := strconv.ParseFloat(v, 64); err == nil && sec > 0 {
			d.Wait = Seconds(sec)
		}
	}
	if v := get("WARMUP"); v != "" {
		if sec, err := strconv.ParseFloat(v, 64); err == nil && sec >= 0 {
			d.Warmup = Seconds(sec)
		}
	}
	if v := get("COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			d.Count = n
		}
	}
	if v := get("SCALE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 1 && f <= 3 {
			d.QualityScale = f
		}
	}
	if v := get("STOP_ON_REPEAT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			d.StopOnRepeat = n
		}
	}
	if v := get("JPEG_QUALITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 100 {
			d.JPEGQuality = n
		}
	}
	d.LogFile = get("LOG_FILE")
	if v := strings.ToLower(get("VERBOSE")); v == "true" || v == "1" {
		d.Verbose = true
	}
	return d
}

// Seconds は秒数（小数可）を time.Duration にします。
func Seconds(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

func resolveEnvPath() string {
	candidates := []string{".env"}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), ".env"))
	}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
