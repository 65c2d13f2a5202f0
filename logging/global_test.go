package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/giygas/mkb-merge/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLogLevel(tt.input)
			if got != tt.expected {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetConsoleLogLevel(t *testing.T) {
	tests := []struct {
		name        string
		env         config.Environment
		logLevelStr string
		verbose     bool
		expected    slog.Level
	}{
		{"dev defaults to info", config.EnvDevelopment, "", false, slog.LevelInfo},
		{"test quiet defaults to error", config.EnvTest, "", false, slog.LevelError},
		{"test verbose defaults to info", config.EnvTest, "", true, slog.LevelInfo},
		{"prod defaults to warn", config.EnvProduction, "", false, slog.LevelWarn},
		{"staging defaults to warn", config.EnvStaging, "", false, slog.LevelWarn},
		{"prod with debug override", config.EnvProduction, "debug", false, slog.LevelDebug},
		{"dev with error override", config.EnvDevelopment, "error", false, slog.LevelError},
		{"test with debug override (ignored)", config.EnvTest, "debug", false, slog.LevelError},
		{"test with debug override (ignored) verbose", config.EnvTest, "debug", true, slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetConsoleLogLevel(tt.env, tt.logLevelStr, tt.verbose)
			if got != tt.expected {
				t.Errorf("GetConsoleLogLevel(%v, %q, %v) = %v, want %v", tt.env, tt.logLevelStr, tt.verbose, got, tt.expected)
			}
		})
	}
}

func TestGetFileLogLevel(t *testing.T) {
	got := GetFileLogLevel()
	if got != slog.LevelDebug {
		t.Errorf("GetFileLogLevel() = %v, want %v", got, slog.LevelDebug)
	}
}

func TestSetupLoggerConsoleOnly(t *testing.T) {
	var buf bytes.Buffer

	logger, closer, err := SetupLogger(&buf, slog.LevelInfo, "")
	if err != nil {
		t.Fatalf("SetupLogger returned error: %v", err)
	}
	if closer != nil {
		t.Error("Expected nil closer without log file")
	}

	logger.Debug("hidden")
	logger.Info("source loaded", "source", "English", "rows", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Debug record should be filtered at info level: %s", out)
	}
	if !strings.Contains(out, "source=English") || !strings.Contains(out, "rows=3") {
		t.Errorf("Expected structured attributes in output, got: %s", out)
	}
}

func TestSetupLoggerWithFile(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "mkbmerge.log")

	logger, closer, err := SetupLogger(&buf, slog.LevelWarn, logFile)
	if err != nil {
		t.Fatalf("SetupLogger returned error: %v", err)
	}
	logger = logger.With("run_id", "abc")
	logger.Debug("merge started", "tables", 3)
	logger.Warn("source skipped")

	if err := closer.Close(); err != nil {
		t.Fatalf("Failed to close log file: %v", err)
	}

	if strings.Contains(buf.String(), "merge started") {
		t.Error("Console should not receive debug records at warn level")
	}
	if !strings.Contains(buf.String(), "source skipped") {
		t.Error("Console should receive warn records")
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 JSON lines in log file, got %d: %s", len(lines), content)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("Log line is not JSON: %v", err)
	}
	if entry["msg"] != "merge started" || entry["run_id"] != "abc" {
		t.Errorf("Unexpected JSON entry: %v", entry)
	}
}

func TestSetupLoggerUnwritableFile(t *testing.T) {
	var buf bytes.Buffer
	dir := t.TempDir()

	// A directory cannot be opened as a log file
	logger, closer, err := SetupLogger(&buf, slog.LevelInfo, dir)
	if err == nil {
		t.Fatal("Expected error when log file is a directory")
	}
	if closer != nil {
		t.Error("Expected nil closer on failure")
	}
	if logger == nil {
		t.Fatal("Expected console fallback logger")
	}
	logger.Info("still logging")
	if !strings.Contains(buf.String(), "still logging") {
		t.Error("Fallback logger should write to console")
	}
}

func TestInitLoggerAndClose(t *testing.T) {
	previous := DefaultLoggingService
	defer func() { DefaultLoggingService = previous }()

	logFile := filepath.Join(t.TempDir(), "run.log")
	if err := InitLogger(slog.LevelError, logFile, "run_id", "r1"); err != nil {
		t.Fatalf("InitLogger returned error: %v", err)
	}

	Info("written to file only")
	if err := Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	// Second close is a no-op
	if err := Close(); err != nil {
		t.Errorf("Second Close returned error: %v", err)
	}

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), `"run_id":"r1"`) {
		t.Errorf("Expected run_id in log file, got: %s", content)
	}
}
