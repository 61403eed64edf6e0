package bench

import (
	"context"
	"fmt"
	"time"

	"deskbench/config"
	"deskbench/log"
)

type Metric string

const (
	MetricStartup   Metric = "startup"
	MetricMemory    Metric = "memory"
	MetricCPU       Metric = "cpu"
	MetricSize      Metric = "size"
	MetricInstaller Metric = "installer"
)

var AllMetrics = []Metric{MetricStartup, MetricMemory, MetricCPU, MetricSize, MetricInstaller}

func ParseMetric(s string) (Metric, error) {
	for _, m := range AllMetrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q (use startup, memory, cpu, size or installer)", s)
}

// Reporter receives progress while a Runner works, so both the Bubble Tea
// view and plain output can render the same events.
type Reporter interface {
	Phase(m Metric, title, note string)
	RunStart(target string, run, total int)
	RunDone(target string, value string)
	RunFailed(target string, err error)
	Value(target string, value string)
}

type Runner struct {
	Config   config.Config
	Apps     []App
	Sampler  Sampler
	Reporter Reporter
	// Only restricts the session to one metric when set.
	Only Metric
	Now  func() time.Time
}

func (r *Runner) enabled(m Metric) bool {
	return r.Only == "" || r.Only == m
}

// Run measures every app and returns the session result. Cancelling ctx
// stops at the next measurement boundary with ctx's error.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if len(r.Apps) == 0 {
		return Result{}, ErrNoApps
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	cfg := r.Config
	res := Result{
		Platform:  Platform(),
		Arch:      Arch(),
		Timestamp: now(),
		Runs:      cfg.Runs,
		Targets:   make([]TargetResult, len(r.Apps)),
	}
	for i, a := range r.Apps {
		res.Targets[i].Name = a.Name
	}

	if r.enabled(MetricStartup) {
		r.Reporter.Phase(MetricStartup, "Measuring Startup Time...", "")
		err := r.repeat(ctx, MetricStartup, func(a App) (float64, error) {
			return MeasureStartup(ctx, a.ExePath, cfg.StartupTimeout)
		}, func(v float64) string { return fmt.Sprintf("%.0fms", v) }, func(i int, s *Stats) {
			res.Targets[i].StartupMs = s
		})
		if err != nil {
			return res, err
		}
	}

	if r.enabled(MetricMemory) {
		r.Reporter.Phase(MetricMemory, "Measuring Memory Usage...", "")
		err := r.repeat(ctx, MetricMemory, func(a App) (float64, error) {
			return MeasureMemory(ctx, a.ExePath, cfg.Settle, r.Sampler)
		}, func(v float64) string { return fmt.Sprintf("%.1f MB", v) }, func(i int, s *Stats) {
			res.Targets[i].MemoryMB = s
		})
		if err != nil {
			return res, err
		}
	}

	if r.enabled(MetricCPU) {
		note := fmt.Sprintf("(Each measurement takes ~%.0f seconds)", (cfg.Settle + cfg.CPUWindow).Seconds())
		r.Reporter.Phase(MetricCPU, "Measuring CPU Under Load (50 bouncing balls + calculations)...", note)
		err := r.repeat(ctx, MetricCPU, func(a App) (float64, error) {
			return MeasureCPU(ctx, a.ExePath, cfg.Settle, cfg.CPUWindow, cfg.CPUSamples, r.Sampler)
		}, FormatCPU, func(i int, s *Stats) {
			res.Targets[i].CPULoad = s
		})
		if err != nil {
			return res, err
		}
	}

	if r.enabled(MetricSize) {
		r.Reporter.Phase(MetricSize, "Measuring Bundle Size...", "")
		for i, a := range r.Apps {
			if size, ok := BundleSize(cfg.Root, a.Target); ok {
				res.Targets[i].SizeBytes = size
				r.Reporter.Value(a.Name, FormatBytes(size))
				log.Measurement(a.Name, string(MetricSize), float64(size))
			}
		}
	}

	if r.enabled(MetricInstaller) {
		r.Reporter.Phase(MetricInstaller, "Measuring Installer Size...", "")
		for i, a := range r.Apps {
			if size, ok := InstallerSize(cfg.Root, a.Target); ok {
				res.Targets[i].InstallerBytes = size
				r.Reporter.Value(a.Name, FormatBytes(size))
				log.Measurement(a.Name, string(MetricInstaller), float64(size))
			}
		}
	}

	return res, nil
}

func (r *Runner) repeat(ctx context.Context, m Metric, measure func(App) (float64, error), format func(float64) string, store func(int, *Stats)) error {
	for i, a := range r.Apps {
		var vals []float64
		for run := 1; run <= r.Config.Runs; run++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.Reporter.RunStart(a.Name, run, r.Config.Runs)
			v, err := measure(a)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.Reporter.RunFailed(a.Name, err)
				log.MeasurementFailed(a.Name, string(m), err)
				continue
			}
			vals = append(vals, v)
			r.Reporter.RunDone(a.Name, format(v))
			log.Measurement(a.Name, string(m), v)
		}
		if s := Calc(vals); s != nil {
			store(i, s)
		}
	}
	return nil
}
