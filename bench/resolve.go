package bench

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"deskbench/config"
)

var ErrNoApps = errors.New("no apps built")

// App is a target whose executable exists on disk.
type App struct {
	config.Target
	ExePath string
}

// ResolveApps returns the targets with a resolvable executable, in config
// order, and the names of the ones that were skipped.
func ResolveApps(cfg config.Config) ([]App, []string) {
	var apps []App
	var missing []string
	for _, t := range cfg.Targets {
		exe, ok := firstMatch(cfg.Root, t.Exe, matchFile)
		if !ok {
			missing = append(missing, t.Name)
			continue
		}
		apps = append(apps, App{Target: t, ExePath: exe})
	}
	return apps, missing
}

type matchKind int

const (
	matchAny matchKind = iota
	matchFile
)

// firstMatch expands candidates in order and returns the first existing
// path. Hidden entries are skipped; a trailing slash requires a directory.
func firstMatch(root string, candidates []string, kind matchKind) (string, bool) {
	for _, c := range candidates {
		dirOnly := strings.HasSuffix(c, "/")
		pattern := strings.TrimSuffix(c, "/")
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, filepath.FromSlash(pattern))
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			if strings.HasPrefix(filepath.Base(m), ".") {
				continue
			}
			info, err := os.Stat(m)
			if err != nil {
				continue
			}
			if dirOnly && !info.IsDir() {
				continue
			}
			if kind == matchFile && info.IsDir() {
				continue
			}
			return m, true
		}
	}
	return "", false
}

// PathSize returns the size of a file, or the summed size of the regular
// files below a directory.
func PathSize(p string) (int64, error) {
	info, err := os.Stat(p)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return info.Size(), nil
	}
	var size int64
	err = filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		size += fi.Size()
		return nil
	})
	return size, err
}

func BundleSize(root string, t config.Target) (int64, bool) {
	p, ok := firstMatch(root, t.Bundle, matchAny)
	if !ok {
		return 0, false
	}
	size, err := PathSize(p)
	if err != nil || size == 0 {
		return 0, false
	}
	return size, true
}

// InstallerSize falls back to the bundle size when no installer artifact
// exists.
func InstallerSize(root string, t config.Target) (int64, bool) {
	if p, ok := firstMatch(root, t.Installer, matchFile); ok {
		if size, err := PathSize(p); err == nil && size > 0 {
			return size, true
		}
	}
	return BundleSize(root, t)
}
