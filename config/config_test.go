package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deskbench.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"), "linux", "/usr/bin/deskbench")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Runs != defaultRuns {
		t.Fatalf("Runs = %d, want %d", cfg.Runs, defaultRuns)
	}
	if cfg.StartupTimeout != 30*time.Second || cfg.Settle != 2*time.Second || cfg.CPUWindow != 5*time.Second {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if len(cfg.Targets) != 3 {
		t.Fatalf("len(Targets) = %d, want 3", len(cfg.Targets))
	}
	if got := cfg.Targets[2].Exe[0]; got != "/usr/bin/deskbench" {
		t.Fatalf("self exe = %q", got)
	}
	wd, _ := os.Getwd()
	if cfg.Root != wd {
		t.Fatalf("Root = %q, want %q", cfg.Root, wd)
	}
}

func TestDefaultTargetsPerPlatform(t *testing.T) {
	tests := []struct {
		platform string
		contains string
	}{
		{"windows", "ElectronBench.exe"},
		{"macos", "ElectronBench.app"},
		{"linux", "linux-unpacked"},
	}
	for _, tt := range tests {
		targets := DefaultTargets(tt.platform, "")
		if len(targets) != 2 {
			t.Fatalf("%s: len = %d, want 2 without self", tt.platform, len(targets))
		}
		if !strings.Contains(strings.Join(targets[0].Exe, " "), tt.contains) {
			t.Errorf("%s: electron exe %v missing %q", tt.platform, targets[0].Exe, tt.contains)
		}
		if len(targets[1].Exe) == 0 || len(targets[1].Installer) == 0 {
			t.Errorf("%s: tauri target incomplete: %+v", tt.platform, targets[1])
		}
	}
}

func TestLoad_ParsesAndTrims(t *testing.T) {
	path := writeConfig(t, `
runs = 3
results_dir = "  out  "
startup_timeout = "10s"
cpu_window = "1500ms"
cpu_samples = 3

[[target]]
name = "  Wails  "
exe = ["  build/bin/app  ", ""]
bundle = ["build/bin"]
`)
	cfg, err := Load(path, "linux", "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Runs != 3 || cfg.CPUSamples != 3 {
		t.Fatalf("Runs/CPUSamples = %d/%d", cfg.Runs, cfg.CPUSamples)
	}
	if cfg.ResultsDir != "out" {
		t.Fatalf("ResultsDir = %q", cfg.ResultsDir)
	}
	if cfg.StartupTimeout != 10*time.Second || cfg.CPUWindow != 1500*time.Millisecond {
		t.Fatalf("durations = %v / %v", cfg.StartupTimeout, cfg.CPUWindow)
	}
	if cfg.Settle != defaultSettle {
		t.Fatalf("Settle = %v, want default", cfg.Settle)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0].Name != "Wails" {
		t.Fatalf("Targets = %+v", cfg.Targets)
	}
	if got := cfg.Targets[0].Exe; len(got) != 1 || got[0] != "build/bin/app" {
		t.Fatalf("Exe = %q", got)
	}
	if cfg.Root != filepath.Dir(path) {
		t.Fatalf("Root = %q, want config dir", cfg.Root)
	}
	if want := filepath.Join(filepath.Dir(path), "out", "benchmark-history.json"); cfg.HistoryPath() != want {
		t.Fatalf("HistoryPath = %q, want %q", cfg.HistoryPath(), want)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", "runs = [", "parse config"},
		{"bad duration", `settle = "soon"`, "settle"},
		{"negative duration", `settle = "-1s"`, "positive"},
		{"nameless target", "[[target]]\nexe = [\"a\"]", "no name"},
		{"target without exe", "[[target]]\nname = \"x\"", "no exe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), "linux", "")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestPathKeepsAbsolute(t *testing.T) {
	cfg := Config{Root: "/work"}
	if got := cfg.Path("/abs/x"); got != "/abs/x" {
		t.Errorf("Path(abs) = %q", got)
	}
	if got := cfg.Path("rel/x"); got != filepath.Join("/work", "rel/x") {
		t.Errorf("Path(rel) = %q", got)
	}
}
