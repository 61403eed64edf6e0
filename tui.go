package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deskbench/bench"
)

// TUI message types
type phaseMsg struct {
	Metric bench.Metric
	Title  string
	Note   string
}
type runStartMsg struct {
	Target     string
	Run, Total int
}
type runResultMsg struct {
	Target string
	Value  string
	Err    error // set when the run failed
}
type valueMsg struct{ Target, Value string }
type doneMsg struct{ Err error }

var (
	phaseStyle   = lipgloss.NewStyle().Bold(true)
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
)

type tuiModel struct {
	spinner  spinner.Model
	header   string
	lines    []string // finished output
	current  string   // run in flight
	done     bool
	err      error
	quitting bool
}

func newTUIModel(header string) tuiModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return tuiModel{spinner: s, header: header}
}

func (m tuiModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case phaseMsg:
		if len(m.lines) > 0 {
			m.lines = append(m.lines, "")
		}
		m.lines = append(m.lines, phaseStyle.Render(phaseIcons[msg.Metric]+" "+msg.Title))
		if msg.Note != "" {
			m.lines = append(m.lines, noteStyle.Render("   "+msg.Note))
		}

	case runStartMsg:
		m.current = fmt.Sprintf("%s run %d/%d...", msg.Target, msg.Run, msg.Total)

	case runResultMsg:
		if msg.Err != nil {
			m.lines = append(m.lines, "   "+m.current+" "+failStyle.Render("failed"))
		} else {
			m.lines = append(m.lines, "   "+m.current+" "+valueStyle.Render(msg.Value))
		}
		m.current = ""

	case valueMsg:
		m.lines = append(m.lines, fmt.Sprintf("   %-10s%s", msg.Target+":", valueStyle.Render(msg.Value)))

	case doneMsg:
		m.done = true
		m.err = msg.Err
		m.current = ""
		return m, tea.Quit
	}
	return m, nil
}

func (m tuiModel) View() string {
	var b strings.Builder
	b.WriteString(m.header + "\n\n")
	for _, l := range m.lines {
		b.WriteString(l + "\n")
	}
	if m.current != "" {
		b.WriteString("   " + m.current + " " + m.spinner.View() + "\n")
	}
	if !m.done && !m.quitting && m.current == "" {
		b.WriteString(m.spinner.View() + "\n")
	}
	return b.String()
}
