package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vat-calc.log")

	err := Initialize(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer InitializeDefault()

	Named("rates").Info("rates loaded")
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"msg":"rates loaded"`) {
		t.Errorf("Expected message in log, got %s", line)
	}
	if !strings.Contains(line, `"logger":"rates"`) {
		t.Errorf("Expected logger name in log, got %s", line)
	}
}

func TestInitializeBadLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.log")
	if err := Initialize(Config{Level: "loud", Format: "json", Output: path}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer InitializeDefault()

	Debug("hidden")
	Info("shown")
	Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") {
		t.Error("Debug line should be filtered at info level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("Info line should be written")
	}
}

func TestDefaultLevelKeepsWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.log")
	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.Output = path
	if err := Initialize(cfg); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer InitializeDefault()

	Info("store opened")
	Warn("rates are held in memory")
	Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "store opened") {
		t.Error("Info line should be filtered at the default level")
	}
	if !strings.Contains(string(data), "rates are held in memory") {
		t.Error("Warn line should be written at the default level")
	}
}

func TestReinitializeSwitchesFile(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	if err := Initialize(Config{Level: "info", Format: "json", Output: first}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := Initialize(Config{Level: "info", Format: "json", Output: second}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer InitializeDefault()

	Info("after switch")
	Sync()

	a, _ := os.ReadFile(first)
	b, _ := os.ReadFile(second)
	if strings.Contains(string(a), "after switch") {
		t.Error("Old log file should no longer receive lines")
	}
	if !strings.Contains(string(b), "after switch") {
		t.Error("New log file should receive lines")
	}
}

func TestInitializeUnwritableOutput(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "missing-dir", "x.log")
	if err := Initialize(Config{Level: "info", Output: bad}); err == nil {
		t.Error("Expected an error for an unwritable log path")
	}
}
