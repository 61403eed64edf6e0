// Package config loads the runner configuration: which app builds to
// measure and how long each measurement waits.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Target describes one app build. Paths are relative to Config.Root unless
// absolute and may contain glob patterns; the first existing match wins. A
// trailing slash restricts a pattern to directories.
type Target struct {
	Name      string
	Exe       []string
	Bundle    []string
	Installer []string
}

type Config struct {
	Root           string
	Runs           int
	ResultsDir     string
	Readme         string
	StartupTimeout time.Duration
	Settle         time.Duration
	CPUWindow      time.Duration
	CPUSamples     int
	Targets        []Target
}

const (
	DefaultPath = "deskbench.toml"

	defaultRuns           = 5
	defaultResultsDir     = "results"
	defaultReadme         = "README.md"
	defaultStartupTimeout = 30 * time.Second
	defaultSettle         = 2 * time.Second
	defaultCPUWindow      = 5 * time.Second
	defaultCPUSamples     = 5
)

type rawTarget struct {
	Name      string   `toml:"name"`
	Exe       []string `toml:"exe"`
	Bundle    []string `toml:"bundle"`
	Installer []string `toml:"installer"`
}

type rawConfig struct {
	Root           string      `toml:"root"`
	Runs           int         `toml:"runs"`
	ResultsDir     string      `toml:"results_dir"`
	Readme         string      `toml:"readme"`
	StartupTimeout string      `toml:"startup_timeout"`
	Settle         string      `toml:"settle"`
	CPUWindow      string      `toml:"cpu_window"`
	CPUSamples     int         `toml:"cpu_samples"`
	Targets        []rawTarget `toml:"target"`
}

// Default returns the configuration used when no file exists: the Electron
// and Tauri builds under root plus this executable.
func Default(root, platform, self string) Config {
	return Config{
		Root:           root,
		Runs:           defaultRuns,
		ResultsDir:     defaultResultsDir,
		Readme:         defaultReadme,
		StartupTimeout: defaultStartupTimeout,
		Settle:         defaultSettle,
		CPUWindow:      defaultCPUWindow,
		CPUSamples:     defaultCPUSamples,
		Targets:        DefaultTargets(platform, self),
	}
}

func DefaultTargets(platform, self string) []Target {
	electron := Target{
		Name:   "Electron",
		Bundle: []string{"electron-app/out/*/"},
		Installer: []string{
			"electron-app/out/*.exe",
			"electron-app/out/*.msi",
			"electron-app/out/*.dmg",
			"electron-app/out/*.AppImage",
		},
	}
	tauri := Target{Name: "Tauri"}
	release := "tauri-app/src-tauri/target/release"

	switch platform {
	case "windows":
		electron.Exe = []string{"electron-app/out/win-unpacked/ElectronBench.exe"}
		tauri.Exe = []string{release + "/tauri-bench-app.exe"}
		tauri.Bundle = []string{release + "/tauri-bench-app.exe"}
		tauri.Installer = []string{release + "/bundle/nsis/*.exe", release + "/bundle/msi/*.msi"}
	case "macos":
		electron.Exe = []string{
			"electron-app/out/mac-arm64/ElectronBench.app/Contents/MacOS/ElectronBench",
			"electron-app/out/mac/ElectronBench.app/Contents/MacOS/ElectronBench",
		}
		tauri.Exe = []string{
			release + "/bundle/macos/*.app/Contents/MacOS/tauri-bench-app",
			release + "/tauri-bench-app",
		}
		tauri.Bundle = []string{release + "/bundle/macos", release + "/tauri-bench-app"}
		tauri.Installer = []string{release + "/bundle/dmg/*.dmg"}
	default:
		electron.Exe = []string{"electron-app/out/linux-unpacked/electron-bench-app"}
		tauri.Exe = []string{release + "/tauri-bench-app"}
		tauri.Bundle = []string{release + "/tauri-bench-app"}
		tauri.Installer = []string{release + "/bundle/appimage/*.AppImage"}
	}

	targets := []Target{electron, tauri}
	if self != "" {
		targets = append(targets, Target{
			Name:   "Fyne",
			Exe:    []string{self},
			Bundle: []string{self},
		})
	}
	return targets
}

// Load reads the config at path, falling back to Default when the file is
// missing. Unset fields keep their defaults.
func Load(path, platform, self string) (Config, error) {
	resolved, err := expandPath(path)
	if err != nil {
		return Config{}, err
	}

	wd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("resolve working dir: %w", err)
	}
	cfg := Default(wd, platform, self)

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if root := strings.TrimSpace(raw.Root); root != "" {
		if !filepath.IsAbs(root) && !strings.HasPrefix(root, "~") {
			root = filepath.Join(filepath.Dir(resolved), root)
		}
		if cfg.Root, err = expandPath(root); err != nil {
			return Config{}, err
		}
	} else {
		cfg.Root = filepath.Dir(resolved)
	}
	if raw.Runs > 0 {
		cfg.Runs = raw.Runs
	}
	if v := strings.TrimSpace(raw.ResultsDir); v != "" {
		cfg.ResultsDir = v
	}
	if v := strings.TrimSpace(raw.Readme); v != "" {
		cfg.Readme = v
	}
	if raw.CPUSamples > 0 {
		cfg.CPUSamples = raw.CPUSamples
	}
	for _, d := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"startup_timeout", raw.StartupTimeout, &cfg.StartupTimeout},
		{"settle", raw.Settle, &cfg.Settle},
		{"cpu_window", raw.CPUWindow, &cfg.CPUWindow},
	} {
		if err := parseDuration(d.name, d.raw, d.dst); err != nil {
			return Config{}, err
		}
	}

	if len(raw.Targets) > 0 {
		cfg.Targets = cfg.Targets[:0:0]
		for i, rt := range raw.Targets {
			name := strings.TrimSpace(rt.Name)
			if name == "" {
				return Config{}, fmt.Errorf("parse config: target %d has no name", i+1)
			}
			exe := trimAll(rt.Exe)
			if len(exe) == 0 {
				return Config{}, fmt.Errorf("parse config: target %q has no exe", name)
			}
			cfg.Targets = append(cfg.Targets, Target{
				Name:      name,
				Exe:       exe,
				Bundle:    trimAll(rt.Bundle),
				Installer: trimAll(rt.Installer),
			})
		}
	}

	return cfg, nil
}

// Path resolves p against Root.
func (c Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func (c Config) HistoryPath() string {
	return filepath.Join(c.Path(c.ResultsDir), "benchmark-history.json")
}

func (c Config) ReadmePath() string {
	return c.Path(c.Readme)
}

func parseDuration(name, raw string, dst *time.Duration) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse config: %s: %w", name, err)
	}
	if d <= 0 {
		return fmt.Errorf("parse config: %s must be positive", name)
	}
	*dst = d
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = DefaultPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
