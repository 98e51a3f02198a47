package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, err := New(Config{Level: "warn", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("rate fetch failed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"rate fetch failed"`) || !strings.Contains(out, `"timestamp"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(Config{Level: "loud", Output: "stdout"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !logger.Core().Enabled(0) {
		t.Fatalf("info level should be enabled")
	}
	if logger.Core().Enabled(-1) {
		t.Fatalf("debug level should be disabled")
	}
}

func TestNewBadOutputPath(t *testing.T) {
	if _, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")}); err == nil {
		t.Fatalf("expected error for unwritable output")
	}
}
