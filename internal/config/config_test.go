package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDBPath, EnvLogLevel, EnvLogPath, EnvDevMode} {
		t.Setenv(k, "")
	}
}

func writeConf(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activity.conf")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write conf: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.conf"))
	if err != nil {
		t.Fatalf("missing conf file should not fail: %v", err)
	}
	dir, _ := Dir()
	if cfg.DBPath != filepath.Join(dir, "activity.db") {
		t.Errorf("unexpected db path %q", cfg.DBPath)
	}
	if cfg.LogLevel != DefaultLogLevel || cfg.DevMode {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	conf := writeConf(t, "ACTIVITY_DB_PATH=/tmp/from-file.db\nACTIVITY_LOG_LEVEL=INFO\n")

	cfg, err := LoadFile(conf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/from-file.db" || cfg.LogLevel != "INFO" {
		t.Fatalf("file values not applied: %+v", cfg)
	}

	t.Setenv(EnvDBPath, "/tmp/from-env.db")
	cfg, err = LoadFile(conf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBPath != "/tmp/from-env.db" || cfg.LogLevel != "INFO" {
		t.Fatalf("environment should win over the file: %+v", cfg)
	}
}

func TestLoadFileDoesNotTouchEnvironment(t *testing.T) {
	clearEnv(t)
	conf := writeConf(t, "ACTIVITY_LOG_PATH=/tmp/x.log\n")
	if _, err := LoadFile(conf); err != nil {
		t.Fatal(err)
	}
	if os.Getenv(EnvLogPath) != "" {
		t.Fatal("conf file values must not leak into the environment")
	}
}

func TestDevMode(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDevMode, "1")
	t.Setenv(EnvDBPath, "/tmp/ignored.db")
	cfg, err := LoadFile("")
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.DevMode || cfg.LogLevel != "DEBUG" {
		t.Fatalf("dev mode not applied: %+v", cfg)
	}
	if cfg.DBPath != filepath.Join(os.TempDir(), "activity-dev.db") {
		t.Fatalf("dev mode should use a scratch database, got %q", cfg.DBPath)
	}
}

func TestDevModeValues(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", false},
		{"0", false},
		{"false", false},
		{"FALSE", false},
		{"1", true},
		{"true", true},
	}
	for _, tt := range tests {
		clearEnv(t)
		t.Setenv(EnvDevMode, tt.value)
		cfg, err := LoadFile("")
		if err != nil {
			t.Fatalf("%q: %v", tt.value, err)
		}
		if cfg.DevMode != tt.want {
			t.Fatalf("%s=%q: dev mode = %v, want %v", EnvDevMode, tt.value, cfg.DevMode, tt.want)
		}
	}

	clearEnv(t)
	t.Setenv(EnvDevMode, "maybe")
	if _, err := LoadFile(""); err == nil {
		t.Fatal("expected an error for an unparseable dev mode value")
	}
}

func TestLoadFileUnreadable(t *testing.T) {
	clearEnv(t)
	if _, err := LoadFile(t.TempDir()); err == nil {
		t.Fatal("expected an error reading a directory as conf file")
	}
}

func TestCoalesce(t *testing.T) {
	if got := coalesce("", "b", "c"); got != "b" {
		t.Errorf("got %q", got)
	}
	if got := coalesce("", ""); got != "" {
		t.Errorf("got %q", got)
	}
}

// ============================================================
// Logger
// ============================================================

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(LogOptions{Writer: &buf, Level: "WARN"})
	if l.GetLevel() != log.WarnLevel {
		t.Fatalf("expected warn level, got %v", l.GetLevel())
	}
	l.Info("hidden")
	l.Warn("shown", "key", "value")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") || !strings.Contains(out, "key=value") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestNewLoggerBadLevel(t *testing.T) {
	l := NewLogger(LogOptions{Writer: &bytes.Buffer{}, Level: "loud"})
	if l.GetLevel() != log.InfoLevel {
		t.Fatalf("expected fallback to info, got %v", l.GetLevel())
	}
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "activity.log")
	f, err := OpenLogFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := f.WriteString("line\n"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}
