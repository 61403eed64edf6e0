// Package doctor checks that this machine can run a benchmark session.
package doctor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"deskbench/bench"
	"deskbench/clipboard"
	"deskbench/config"
	"deskbench/tasks"
)

// Check is one diagnostic. Run returns a short detail for the PASS line or
// an error for the FAIL line.
type Check struct {
	Name string
	Run  func(ctx context.Context) (string, error)
}

// Run executes checks in order, printing PASS/FAIL for each, and returns the
// exit code (0=all pass, 1=any fail).
func Run(ctx context.Context, w io.Writer, checks []Check) int {
	fmt.Fprintln(w, "deskbench doctor - system diagnostics")
	fmt.Fprintln(w, "=====================================")

	allPass := true
	for i, c := range checks {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "[%d/%d] %s\n", i+1, len(checks), c.Name)
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(w, "  FAIL: %v\n", err)
			allPass = false
			continue
		}
		detail, err := c.Run(ctx)
		if err != nil {
			fmt.Fprintf(w, "  FAIL: %v\n", err)
			allPass = false
			continue
		}
		fmt.Fprintf(w, "  PASS: %s\n", detail)
	}

	fmt.Fprintln(w)
	if allPass {
		fmt.Fprintln(w, "All checks passed!")
		return 0
	}
	fmt.Fprintln(w, "Some checks failed. See details above.")
	return 1
}

// Checks builds the standard check list for cfg.
func Checks(cfg config.Config) []Check {
	checks := []Check{
		{Name: "Display", Run: checkDisplay},
		{Name: "Task database", Run: checkTaskDB},
		{Name: "Clipboard", Run: clipboard.Verify},
	}
	for _, t := range cfg.Targets {
		checks = append(checks, Check{Name: "Target " + t.Name, Run: targetCheck(cfg, t)})
	}
	checks = append(checks, Check{Name: "Results directory", Run: resultsCheck(cfg)})
	return checks
}

func targetCheck(cfg config.Config, t config.Target) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		apps, _ := bench.ResolveApps(config.Config{Root: cfg.Root, Targets: []config.Target{t}})
		if len(apps) == 0 {
			return "", fmt.Errorf("no executable found (tried %v)", t.Exe)
		}
		return apps[0].ExePath, nil
	}
}

func resultsCheck(cfg config.Config) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		dir := cfg.Path(cfg.ResultsDir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
		f, err := os.CreateTemp(dir, ".doctor-*")
		if err != nil {
			return "", fmt.Errorf("%s is not writable: %w", dir, err)
		}
		name := f.Name()
		f.Close()
		os.Remove(name)
		return filepath.Clean(dir) + " is writable", nil
	}
}

func checkTaskDB(ctx context.Context) (string, error) {
	s, err := tasks.OpenSQLite(ctx, ":memory:")
	if err != nil {
		return "", err
	}
	defer s.Close()
	if _, err := s.Create(ctx, "doctor", false); err != nil {
		return "", err
	}
	return "sqlite driver works", nil
}
