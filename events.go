package main

import (
	"fmt"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"deskbench/bench"
)

var phaseIcons = map[bench.Metric]string{
	bench.MetricStartup:   "⏱️ ",
	bench.MetricMemory:    "🧠",
	bench.MetricCPU:       "🔥",
	bench.MetricSize:      "📦",
	bench.MetricInstaller: "💾",
}

// plainReporter prints progress line by line, for pipes and CI logs.
type plainReporter struct {
	w      io.Writer
	mu     sync.Mutex
	phases int
}

func (p *plainReporter) Phase(m bench.Metric, title, note string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.phases > 0 {
		fmt.Fprintln(p.w)
	}
	p.phases++
	fmt.Fprintf(p.w, "%s %s\n\n", phaseIcons[m], title)
	if note != "" {
		fmt.Fprintf(p.w, "   %s\n\n", note)
	}
}

func (p *plainReporter) RunStart(target string, run, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "   %s run %d/%d...", target, run, total)
}

func (p *plainReporter) RunDone(_ string, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, " %s\n", value)
}

func (p *plainReporter) RunFailed(string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, " failed")
}

func (p *plainReporter) Value(target, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "   %-10s%s\n", target+":", value)
}

// teaReporter forwards progress to the Bubble Tea program.
type teaReporter struct {
	send func(tea.Msg)
}

func (t teaReporter) Phase(m bench.Metric, title, note string) {
	t.send(phaseMsg{Metric: m, Title: title, Note: note})
}

func (t teaReporter) RunStart(target string, run, total int) {
	t.send(runStartMsg{Target: target, Run: run, Total: total})
}

func (t teaReporter) RunDone(target, value string) {
	t.send(runResultMsg{Target: target, Value: value})
}

func (t teaReporter) RunFailed(target string, err error) {
	t.send(runResultMsg{Target: target, Err: err})
}

func (t teaReporter) Value(target, value string) {
	t.send(valueMsg{Target: target, Value: value})
}
