package bench

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	winnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

const (
	metricWidth = 14
	valueWidth  = 20
	winnerWidth = 12
	ruleWidth   = 70
)

// Summary renders the end-of-run comparison table. Lower is better for
// every metric.
func Summary(r Result) string {
	var b strings.Builder
	rule := ruleStyle.Render(strings.Repeat("━", ruleWidth))
	b.WriteString(rule + "\n")
	b.WriteString(titleStyle.Render(strings.Repeat(" ", 25)+"BENCHMARK RESULTS") + "\n")
	b.WriteString(rule + "\n\n")

	header := []string{"Metric"}
	under := []string{strings.Repeat("─", metricWidth-2)}
	for _, t := range r.Targets {
		header = append(header, t.Name)
		under = append(under, strings.Repeat("─", valueWidth-2))
	}
	header = append(header, "Winner")
	under = append(under, strings.Repeat("─", winnerWidth-2))

	b.WriteString(headerStyle.Render(joinRow(header)) + "\n")
	b.WriteString(joinRow(under) + "\n")

	for _, rw := range summaryRows(r) {
		b.WriteString(joinRow(rw) + "\n")
	}
	b.WriteString("\n" + rule + "\n")
	return b.String()
}

func joinRow(cells []string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		w := valueWidth
		switch {
		case i == 0:
			w = metricWidth
		case i == len(cells)-1:
			w = winnerWidth
		}
		parts[i] = pad(c, w)
	}
	return "  " + strings.Join(parts, "│ ")
}

func pad(s string, w int) string {
	if n := lipgloss.Width(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func summaryRows(r Result) [][]string {
	var rows [][]string

	add := func(label string, has func(*TargetResult) bool, cell func(*TargetResult) string, value func(*TargetResult) float64) {
		rw := []string{label}
		winner, best, count := "", 0.0, 0
		for i := range r.Targets {
			t := &r.Targets[i]
			if !has(t) {
				rw = append(rw, "N/A")
				continue
			}
			rw = append(rw, cell(t))
			v := value(t)
			if count == 0 || v < best {
				winner, best = t.Name, v
			}
			count++
		}
		if count == 0 {
			return
		}
		if count < 2 {
			winner = dash
		} else {
			winner = winnerStyle.Render(winner)
		}
		rows = append(rows, append(rw, winner))
	}

	add("Startup",
		func(t *TargetResult) bool { return t.StartupMs != nil },
		func(t *TargetResult) string { return formatStartup(t.StartupMs) },
		func(t *TargetResult) float64 { return t.StartupMs.Mean })
	add("Memory",
		func(t *TargetResult) bool { return t.MemoryMB != nil },
		func(t *TargetResult) string { return formatMemory(t.MemoryMB) },
		func(t *TargetResult) float64 { return t.MemoryMB.Mean })
	add("CPU (Load)",
		func(t *TargetResult) bool { return t.CPULoad != nil },
		func(t *TargetResult) string { return formatCPULoad(t.CPULoad) },
		func(t *TargetResult) float64 { return t.CPULoad.Mean })
	add("Bundle Size",
		func(t *TargetResult) bool { return t.SizeBytes > 0 },
		func(t *TargetResult) string { return FormatBytes(t.SizeBytes) },
		func(t *TargetResult) float64 { return float64(t.SizeBytes) })
	add("Installer",
		func(t *TargetResult) bool { return t.InstallerBytes > 0 },
		func(t *TargetResult) string { return FormatBytes(t.InstallerBytes) },
		func(t *TargetResult) float64 { return float64(t.InstallerBytes) })
	return rows
}

// Headline is the short one-line form used for the clipboard and logs.
func Headline(r Result) string {
	parts := make([]string, 0, len(r.Targets))
	for _, t := range r.Targets {
		if t.StartupMs == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.0fms", t.Name, t.StartupMs.Mean))
	}
	return strings.Join(parts, ", ")
}
