package bench

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	StartMarker = "<!-- BENCHMARK_RESULTS_START -->"
	EndMarker   = "<!-- BENCHMARK_RESULTS_END -->"

	dash = "—"
)

type row struct {
	label string
	cells []string
	delta string
}

// RenderLatest renders the markdown block for one session: a header line
// and one table row per metric any target reported. Δ is the ratio of the
// worst to the best value.
func RenderLatest(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Platform:** %s (%s) | **Runs:** %d | **Date:** %s\n\n",
		r.Platform, r.Arch, r.Runs, r.Timestamp.Local().Format("2006-01-02"))

	b.WriteString("| Metric |")
	sep := "|--------|"
	for _, t := range r.Targets {
		b.WriteString(" " + t.Name + " |")
		sep += strings.Repeat("-", len(t.Name)+2) + "|"
	}
	b.WriteString(" Δ |\n")
	b.WriteString(sep + "---|\n")

	for _, rw := range latestRows(r) {
		b.WriteString("| **" + rw.label + "** |")
		for _, c := range rw.cells {
			b.WriteString(" " + c + " |")
		}
		b.WriteString(" " + rw.delta + " |\n")
	}
	return b.String()
}

func latestRows(r Result) []row {
	var rows []row

	statRow := func(label string, get func(*TargetResult) *Stats, format func(*Stats) string, delta func([]float64) string) {
		rw := row{label: label}
		var vals []float64
		for i := range r.Targets {
			s := get(&r.Targets[i])
			if s == nil {
				rw.cells = append(rw.cells, dash)
				continue
			}
			rw.cells = append(rw.cells, format(s))
			vals = append(vals, s.Mean)
		}
		if len(vals) == 0 {
			return
		}
		rw.delta = delta(vals)
		rows = append(rows, rw)
	}
	sizeRow := func(label string, get func(*TargetResult) int64) {
		rw := row{label: label}
		var vals []float64
		for i := range r.Targets {
			v := get(&r.Targets[i])
			if v <= 0 {
				rw.cells = append(rw.cells, dash)
				continue
			}
			rw.cells = append(rw.cells, FormatBytes(v))
			vals = append(vals, float64(v))
		}
		if len(vals) == 0 {
			return
		}
		rw.delta = ratio(vals, "%.0fx", 0)
		rows = append(rows, rw)
	}

	statRow("Startup Time", func(t *TargetResult) *Stats { return t.StartupMs }, formatStartup,
		func(v []float64) string { return ratio(v, "%.1fx", 0) })
	statRow("Memory Usage", func(t *TargetResult) *Stats { return t.MemoryMB }, formatMemory,
		func(v []float64) string { return ratio(v, "%.1fx", 0) })
	statRow("CPU (Load)", func(t *TargetResult) *Stats { return t.CPULoad }, func(s *Stats) string { return FormatCPU(s.Mean) },
		func(v []float64) string {
			if len(v) < 2 {
				return dash
			}
			if d := ratio(v, "%.1fx", 0.1); d != dash {
				return d
			}
			return "~"
		})
	sizeRow("Bundle Size", func(t *TargetResult) int64 { return t.SizeBytes })
	sizeRow("Installer Size", func(t *TargetResult) int64 { return t.InstallerBytes })
	return rows
}

// ratio formats max/min of vals. It needs two values and a minimum above
// floor.
func ratio(vals []float64, format string, floor float64) string {
	if len(vals) < 2 {
		return dash
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo <= floor {
		return dash
	}
	return fmt.Sprintf(format, hi/lo)
}

// RenderHistory renders every session newest first. Columns follow the
// targets of the newest session.
func RenderHistory(h History) string {
	var b strings.Builder
	b.WriteString("\n## Benchmark History\n\n")
	if len(h.Benchmarks) == 0 {
		return b.String()
	}

	latest := h.Benchmarks[len(h.Benchmarks)-1]
	names := make([]string, len(latest.Targets))
	for i, t := range latest.Targets {
		names[i] = t.Name
	}
	cols := strings.Join(names, "/")
	fmt.Fprintf(&b, "| # | Date | Platform | Startup (%s) | Memory (%s) | Bundle (%s) |\n", cols, cols, cols)
	b.WriteString("|---|------|----------|---------------|--------------|---------------|\n")

	for i := len(h.Benchmarks) - 1; i >= 0; i-- {
		r := h.Benchmarks[i]
		startupCells := make([]string, len(names))
		memCells := make([]string, len(names))
		sizeCells := make([]string, len(names))
		for j, name := range names {
			startupCells[j], memCells[j], sizeCells[j] = dash, dash, dash
			t := r.Target(name)
			if t == nil {
				continue
			}
			if t.StartupMs != nil {
				startupCells[j] = fmt.Sprintf("%.0fms", t.StartupMs.Mean)
			}
			if t.MemoryMB != nil {
				memCells[j] = fmt.Sprintf("%.0fMB", t.MemoryMB.Mean)
			}
			if t.SizeBytes > 0 {
				sizeCells[j] = FormatBytes(t.SizeBytes)
			}
		}
		fmt.Fprintf(&b, "| %d | %s | %s/%s | %s | %s | %s |\n",
			i+1, r.Timestamp.Local().Format("2006-01-02"), r.Platform, r.Arch,
			strings.Join(startupCells, " / "),
			strings.Join(memCells, " / "),
			strings.Join(sizeCells, " / "))
	}
	return b.String()
}

// ReplaceResults swaps the text between the markers for md. It reports
// false when the markers are missing.
func ReplaceResults(doc, md string) (string, bool) {
	start := strings.Index(doc, StartMarker)
	end := strings.LastIndex(doc, EndMarker)
	if start < 0 || end < start {
		return doc, false
	}
	return doc[:start] + StartMarker + "\n" + md + doc[end:], true
}

// UpdateReadme rewrites the results block of the README at path. A missing
// README or missing markers leave everything untouched.
func UpdateReadme(path string, r Result, h History) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read readme: %w", err)
	}
	doc, ok := ReplaceResults(string(data), RenderLatest(r)+RenderHistory(h))
	if !ok {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return false, fmt.Errorf("write readme: %w", err)
	}
	return true, nil
}
