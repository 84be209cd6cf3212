package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/kotoba/internal/config"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "kotoba.log")
	logger, err := New(config.Log{Level: "info", File: path}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello")
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("expected log line, got %q", data)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("debug line written at info level")
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.Log{Level: "loud", File: filepath.Join(t.TempDir(), "x.log")}, false)
	if err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestFilePathDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	p, err := FilePath(config.Log{})
	if err != nil {
		t.Fatalf("FilePath: %v", err)
	}
	if want := filepath.Join(dir, "kotoba", "kotoba.log"); p != want {
		t.Errorf("FilePath = %q, want %q", p, want)
	}
}
