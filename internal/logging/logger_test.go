package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	NewComponentLogger(logger, "controller").Info("recording started",
		String("codec", "h264_nvenc"),
		Int("fps", 60))

	line := buf.String()
	for _, want := range []string{"[controller]", "recording started", "codec=h264_nvenc", "fps=60"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %q", line, want)
		}
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Warn("stop reported error", String("detail", "encoder went away"))
	if !strings.Contains(buf.String(), `detail="encoder went away"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("expected info suppressed at warn level, got %q", buf.String())
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	for _, input := range []string{"", "verbose", "INFO"} {
		if got := parseLevel(input); got != slog.LevelInfo {
			t.Errorf("parseLevel(%q) = %v, want info", input, got)
		}
	}
	if parseLevel("debug") != slog.LevelDebug {
		t.Error("parseLevel(debug) should map to debug")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("must not panic", Error(nil))
}
