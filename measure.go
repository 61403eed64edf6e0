package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"deskbench/bench"
	"deskbench/clipboard"
	"deskbench/config"
	"deskbench/log"
	"deskbench/shutdown"
)

// runMeasure implements `deskbench measure` and returns the exit code.
func runMeasure(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("measure", flag.ContinueOnError)
	fs.SetOutput(stdout)
	runsFlag := fs.Int("runs", 0, "Runs per metric (default from config, 5)")
	onlyFlag := fs.String("only", "", "Measure one metric: startup, memory, cpu, size or installer")
	configFlag := fs.String("config", config.DefaultPath, "Config file")
	copyFlag := fs.Bool("copy", false, "Copy the results table to the clipboard")
	plainFlag := fs.Bool("plain", false, "Plain progress output instead of the terminal UI")
	logPathFlag := fs.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	initLogging(*logPathFlag)
	log.SessionStart("measure")
	defer log.Close()

	self, err := os.Executable()
	if err != nil {
		log.Warnf("resolve own executable: %v", err)
		self = ""
	}
	cfg, err := config.Load(*configFlag, bench.Platform(), self)
	if err != nil {
		return fail(stdout, err)
	}
	if *runsFlag > 0 {
		cfg.Runs = *runsFlag
	}
	var only bench.Metric
	if *onlyFlag != "" {
		if only, err = bench.ParseMetric(*onlyFlag); err != nil {
			return fail(stdout, err)
		}
	}

	fmt.Fprintf(stdout, "\n🖥️  Platform: %s (%s)\n\n", bench.Platform(), bench.Arch())

	apps, missing := bench.ResolveApps(cfg)
	for _, name := range missing {
		fmt.Fprintf(stdout, "⚠️  %s not built, skipping\n", name)
		log.Warnf("target not built: %s", name)
	}
	if len(apps) == 0 {
		fmt.Fprintln(stdout, "No apps built.")
		log.Error("no apps built")
		return 1
	}

	ctx, stop := shutdown.Context(context.Background())
	defer stop()

	r := &bench.Runner{
		Config:  cfg,
		Apps:    apps,
		Sampler: bench.ProcessSampler{},
		Only:    only,
	}
	header := fmt.Sprintf("Benchmarking %d apps, %d runs each", len(apps), cfg.Runs)
	res, err := runWithProgress(ctx, r, stdout, !*plainFlag && isTerminal(stdout), header)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(stdout, "\nInterrupted")
			log.Warn("measure interrupted")
			return 1
		}
		return fail(stdout, err)
	}

	fmt.Fprint(stdout, "\n"+bench.Summary(res))

	if err := record(stdout, cfg, res, *copyFlag); err != nil {
		return fail(stdout, err)
	}
	if line := bench.Headline(res); line != "" {
		log.Info("headline: " + line)
	}
	log.SessionEnd(len(res.Targets))
	return 0
}

// record appends res to the history file, refreshes the README block and
// optionally copies the latest table.
func record(stdout io.Writer, cfg config.Config, res bench.Result, copyResults bool) error {
	path := cfg.HistoryPath()
	h, err := bench.LoadHistory(path)
	if errors.Is(err, bench.ErrCorruptHistory) {
		fmt.Fprintln(stdout, "⚠️  Could not parse existing history, starting fresh")
		log.Warnf("history: %v", err)
	} else if err != nil {
		return err
	}
	h.Benchmarks = append(h.Benchmarks, res)
	if err := bench.SaveHistory(path, h); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\n📄 Results appended to: %s\n", path)
	fmt.Fprintf(stdout, "   Total benchmarks in history: %d\n", len(h.Benchmarks))

	updated, err := bench.UpdateReadme(cfg.ReadmePath(), res, h)
	if err != nil {
		return err
	}
	if updated {
		fmt.Fprintln(stdout, "📝 README.md updated with results and history")
	}

	if copyResults {
		if err := clipboard.Copy(bench.RenderLatest(res)); err != nil {
			fmt.Fprintf(stdout, "Warning: could not copy results: %v\n", err)
			log.Warnf("clipboard copy: %v", err)
		} else {
			fmt.Fprintln(stdout, "📋 Results copied to clipboard")
		}
	}
	return nil
}

func runWithProgress(ctx context.Context, r *bench.Runner, stdout io.Writer, useTUI bool, header string) (bench.Result, error) {
	if !useTUI {
		r.Reporter = &plainReporter{w: stdout}
		return r.Run(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newTUIModel(header), tea.WithOutput(stdout))
	r.Reporter = teaReporter{send: p.Send}

	type outcome struct {
		res bench.Result
		err error
	}
	out := make(chan outcome, 1)
	go func() {
		res, err := r.Run(ctx)
		p.Send(doneMsg{Err: err})
		out <- outcome{res, err}
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-out
		return bench.Result{}, fmt.Errorf("progress view: %w", err)
	}
	if m, ok := final.(tuiModel); ok && m.quitting {
		cancel()
	}
	o := <-out
	return o.res, o.err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func fail(stdout io.Writer, err error) int {
	fmt.Fprintf(stdout, "Error: %v\n", err)
	log.Errorf("%v", err)
	return 1
}
