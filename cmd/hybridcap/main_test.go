package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hybridcap/internal/config"
	"hybridcap/internal/session"
	"hybridcap/internal/testsupport"
)

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()

	configPath := filepath.Join(base, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`output_dir = "` + filepath.Join(base, "recordings") + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
		`data_dir = "` + filepath.Join(base, "data") + `"`,
		"",
		"[capture]",
		"min_free_space_gib = 0",
	}, "\n") + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitSeedsSessionRecord(t *testing.T) {
	base := t.TempDir()
	// The sample config uses ~ paths, so keep expansion inside the test dir.
	t.Setenv("HOME", base)
	configPath := filepath.Join(base, "config.toml")

	out, err := runCommand(t, "config", "init", "--path", configPath)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("missing sample confirmation:\n%s", out)
	}
	if !strings.Contains(out, "Wrote default session record") {
		t.Fatalf("missing session record confirmation:\n%s", out)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load after init: %v", err)
	}
	record, err := session.NewStore(cfg.SessionConfigPath(), nil).Load()
	if err != nil {
		t.Fatalf("session record missing after init: %v", err)
	}
	if record.Codec != "h264_nvenc" {
		t.Fatalf("unexpected default codec: %q", record.Codec)
	}

	// A second init without --overwrite refuses to clobber.
	if _, err := runCommand(t, "config", "init", "--path", configPath); err == nil {
		t.Fatal("expected second init to fail without --overwrite")
	}
}

func TestConfigShowRendersSessionRecord(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	store := session.NewStore(cfg.SessionConfigPath(), nil)
	if err := store.Save(session.Default(cfg.Paths.OutputDir)); err != nil {
		t.Fatalf("seed session record: %v", err)
	}

	out, err := runCommand(t, "--config", configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v\n%s", err, out)
	}
	for _, want := range []string{"ffmpeg_binary", "1920x1080", "H264 (NVENC)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("config show output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigShowReportsMissingSessionRecord(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	out, err := runCommand(t, "--config", configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Session record:") {
		t.Fatalf("expected missing-record notice:\n%s", out)
	}
}

func TestHistoryListEmpty(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	out, err := runCommand(t, "--config", configPath, "history", "list")
	if err != nil {
		t.Fatalf("history list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No recordings yet.") {
		t.Fatalf("expected empty-history notice:\n%s", out)
	}
}

func TestHistoryListAndClear(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	store := testsupport.MustOpenHistory(t, cfg)
	testsupport.AddRecording(t, store, time.Now().Add(-time.Hour), 4*time.Minute)
	store.Close()

	out, err := runCommand(t, "--config", configPath, "history", "list")
	if err != nil {
		t.Fatalf("history list failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "h264_nvenc") || !strings.Contains(out, "00:04:00") {
		t.Fatalf("history row not rendered:\n%s", out)
	}

	if out, err := runCommand(t, "--config", configPath, "history", "clear"); err != nil || !strings.Contains(out, "cleared") {
		t.Fatalf("history clear failed: %v\n%s", err, out)
	}
	out, err = runCommand(t, "--config", configPath, "history", "list")
	if err != nil {
		t.Fatalf("history list after clear failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No recordings yet.") {
		t.Fatalf("expected empty history after clear:\n%s", out)
	}
}

func TestDoctorFailsWhenFFmpegMissing(t *testing.T) {
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`output_dir = "` + filepath.Join(base, "recordings") + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
		`data_dir = "` + filepath.Join(base, "data") + `"`,
		"",
		"[capture]",
		`ffmpeg_binary = "` + filepath.Join(base, "missing-ffmpeg") + `"`,
	}, "\n") + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCommand(t, "--config", configPath, "doctor")
	if err == nil {
		t.Fatalf("expected doctor to fail with ffmpeg missing:\n%s", out)
	}
	if !strings.Contains(out, "missing") {
		t.Fatalf("doctor table should flag missing binary:\n%s", out)
	}
}

func TestRunRequiresInteractiveTerminal(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base)

	// Test processes have no TTY on stdin, so run must refuse before any
	// backend or lock work happens.
	_, err := runCommand(t, "--config", configPath, "run")
	if err == nil || !strings.Contains(err.Error(), "interactive terminal") {
		t.Fatalf("expected interactive-terminal error, got %v", err)
	}
}
