package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestBuiltinDefaults(t *testing.T) {
	d := FromEnv(envMap(nil))
	if d.Wait != 500*time.Millisecond || d.Count != 10 || d.QualityScale != 1.5 {
		t.Errorf("defaults = %+v", d)
	}
	if d.Warmup != time.Second || d.JPEGQuality != 85 || d.StopOnRepeat != 0 {
		t.Errorf("defaults = %+v", d)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	d := FromEnv(envMap(map[string]string{
		"AUTOPAGESHOT_WAIT":           "1.25",
		"AUTOPAGESHOT_WARMUP":         "0",
		"AUTOPAGESHOT_COUNT":          "300",
		"AUTOPAGESHOT_SCALE":          "2.5",
		"AUTOPAGESHOT_STOP_ON_REPEAT": "3",
		"AUTOPAGESHOT_JPEG_QUALITY":   "70",
		"AUTOPAGESHOT_LOG_FILE":       " run.log ",
		"AUTOPAGESHOT_VERBOSE":        "TRUE",
	}))
	if d.Wait != 1250*time.Millisecond {
		t.Errorf("Wait = %v", d.Wait)
	}
	if d.Warmup != 0 {
		t.Errorf("Warmup = %v", d.Warmup)
	}
	if d.Count != 300 || d.QualityScale != 2.5 || d.StopOnRepeat != 3 || d.JPEGQuality != 70 {
		t.Errorf("overrides = %+v", d)
	}
	if d.LogFile != "run.log" || !d.Verbose {
		t.Errorf("LogFile=%q Verbose=%v", d.LogFile, d.Verbose)
	}
}

func TestFromEnvIgnoresInvalid(t *testing.T) {
	d := FromEnv(envMap(map[string]string{
		"AUTOPAGESHOT_WAIT":         "-1",
		"AUTOPAGESHOT_COUNT":        "lots",
		"AUTOPAGESHOT_SCALE":        "5",
		"AUTOPAGESHOT_JPEG_QUALITY": "0",
	}))
	want := Builtin()
	if d.Wait != want.Wait || d.Count != want.Count || d.QualityScale != want.QualityScale || d.JPEGQuality != want.JPEGQuality {
		t.Errorf("invalid values should fall back: %+v", d)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("AUTOPAGESHOT_COUNT=42\n"), 0644); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)
	defer os.Unsetenv("AUTOPAGESHOT_COUNT")

	d := Load()
	if d.Count != 42 {
		t.Errorf("Count = %d, want 42 from .env", d.Count)
	}
	if d.EnvFile != ".env" {
		t.Errorf("EnvFile = %q", d.EnvFile)
	}
}
