package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pterm/pterm"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  pterm.LogLevel
	}{
		{"debug", pterm.LogLevelDebug},
		{"DEBUG", pterm.LogLevelDebug},
		{"warn", pterm.LogLevelWarn},
		{"warning", pterm.LogLevelWarn},
		{"error", pterm.LogLevelError},
		{"off", pterm.LogLevelDisabled},
		{"", pterm.LogLevelInfo},
		{"nonsense", pterm.LogLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNew_WritesFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "updater.log")
	var console bytes.Buffer

	logger, closer, err := New(&console, "info", logPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info("install finished", logger.Args("files", 3))
	logger.Debug("hidden at info level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	if !strings.Contains(string(data), "install finished") {
		t.Errorf("log file missing message: %q", data)
	}
	if strings.Contains(string(data), "hidden at info level") {
		t.Errorf("log file contains debug message at info level: %q", data)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Errorf("log file contains terminal escapes: %q", data)
	}
	if !strings.Contains(console.String(), "install finished") {
		t.Errorf("console missing message: %q", console.String())
	}
}

func TestNew_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, closer, err := New(&console, "debug", "")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closer.Close()

	logger.Debug("resolving asset")
	if !strings.Contains(console.String(), "resolving asset") {
		t.Errorf("console missing debug message: %q", console.String())
	}
}
