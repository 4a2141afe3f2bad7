package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hybridcap/internal/config"
)

func TestLoadDefaultsAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutput := filepath.Join(tempHome, "Videos", "hybridcap")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	wantData := filepath.Join(tempHome, ".local", "share", "hybridcap")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Capture.FFmpegBinary != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Capture.FFmpegBinary)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.SessionConfigPath() != filepath.Join(wantData, "configuration.json") {
		t.Fatalf("unexpected session config path: %q", cfg.SessionConfigPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Paths.DataDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist", dir)
		}
	}
}

func TestLoadParsesExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
output_dir = "` + filepath.Join(dir, "recordings") + `"

[capture]
ffmpeg_binary = "/opt/ffmpeg/bin/ffmpeg"
min_free_space_gib = 5

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected existing config at %q, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(dir, "recordings") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if cfg.Capture.FFmpegBinary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.Capture.FFmpegBinary)
	}
	if cfg.Capture.MinFreeSpaceGiB != 5 {
		t.Fatalf("unexpected free space floor: %d", cfg.Capture.MinFreeSpaceGiB)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging settings: %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"bad format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"bad level", "[logging]\nlevel = \"verbose\"\n", "logging.level"},
		{"negative retention", "[history]\nretention_days = -1\n", "retention_days"},
		{"negative free space", "[capture]\nmin_free_space_gib = -2\n", "min_free_space_gib"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Capture.MinFreeSpaceGiB != 1 {
		t.Fatalf("sample should carry defaults, got %d", cfg.Capture.MinFreeSpaceGiB)
	}
}
