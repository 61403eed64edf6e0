package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"time"

	"deskbench/bench"
	"deskbench/config"
	"deskbench/doctor"
	"deskbench/log"
	"deskbench/shutdown"
	"deskbench/startup"
)

var version = "dev"

const benchToken = "--bench"

// runGUI starts the shell and blocks until it exits.
var runGUI = startGUI

type appOptions struct {
	bench   bool
	stress  bool
	title   string
	dbPath  string
	logPath string
	version bool
	crash   bool
}

func main() {
	startup.Mark()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "measure":
			os.Exit(runMeasure(os.Args[2:], os.Stdout))
		case "doctor":
			os.Exit(runDoctor(os.Args[2:]))
		}
	}

	opts, err := parseAppArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}

	if opts.version {
		fmt.Printf("deskbench %s\n", version)
		os.Exit(0)
	}

	// Bench runs stay off the disk so the measured path is just the window.
	if !opts.bench {
		initLogging(opts.logPath)
		mode := "app"
		if opts.stress {
			mode = "stress"
		}
		log.SessionStart(mode)
	}

	if opts.crash {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if opts.dbPath == "" && !opts.bench && log.Dir() != "" {
		opts.dbPath = filepath.Join(log.Dir(), "tasks.db")
	}

	boot := bootOptions{
		bench:   opts.bench,
		stderr:  os.Stderr,
		elapsed: startup.Elapsed,
		exit: func(code int) {
			log.Close()
			os.Exit(code)
		},
	}
	if err := runGUI(opts, boot); err != nil {
		fatal("%v", err)
	}
	log.SessionEnd(0)
	log.Close()
}

// parseAppArgs reads the app flags. Benchmark mode is the presence of
// --bench anywhere in args. Anything else that is not an app flag is
// reported on warn and skipped; only -h returns an error (flag.ErrHelp).
func parseAppArgs(args []string, warn io.Writer) (appOptions, error) {
	opts := appOptions{bench: slices.Contains(args, benchToken)}
	rest := slices.DeleteFunc(slices.Clone(args), func(a string) bool { return a == benchToken })

	fs := flag.NewFlagSet("deskbench", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.BoolVar(&opts.stress, "stress", false, "Show the bouncing balls load instead of the task list")
	fs.StringVar(&opts.title, "title", "deskbench", "Main window title")
	fs.StringVar(&opts.dbPath, "db", "", "Task database path (default: tasks.db in the log directory, in-memory with --bench)")
	fs.StringVar(&opts.logPath, "logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")
	fs.BoolVar(&opts.crash, "crash", false, "Trigger synthetic panic for testing crash logging")

	for len(rest) > 0 {
		err := fs.Parse(rest)
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(warn, "Usage: deskbench [%s] [flags]\n", benchToken)
			fmt.Fprintf(warn, "  %s\n    \tPrint startup latency to stderr and exit shortly after the window shows\n", benchToken)
			fs.SetOutput(warn)
			fs.PrintDefaults()
			return opts, err
		}
		next := fs.Args()
		switch {
		case err != nil:
			fmt.Fprintf(warn, "Warning: ignoring argument: %v\n", err)
			// flag leaves malformed arguments unconsumed
			if len(next) == len(rest) {
				next = next[1:]
			}
		case len(next) > 0:
			fmt.Fprintf(warn, "Warning: ignoring argument %q\n", next[0])
			next = next[1:]
		}
		rest = next
	}
	return opts, nil
}

// initLogging resolves the log directory, routes crash output there and
// opens the diagnostics log. Failures only warn.
func initLogging(flagPath string) {
	logPath, err := log.ResolveDir(flagPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to resolve log directory: %v\n", err)
		return
	}
	log.SetDir(logPath)

	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
		return
	}

	crashPath := filepath.Join(log.Dir(), "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err == nil {
		fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
		debug.SetCrashOutput(crashFile, debug.CrashOptions{})
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
}

func runDoctor(args []string) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	configFlag := fs.String("config", config.DefaultPath, "Config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	self, _ := os.Executable()
	cfg, err := config.Load(*configFlag, bench.Platform(), self)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	ctx, stop := shutdown.Context(context.Background())
	defer stop()
	return doctor.Run(ctx, os.Stdout, doctor.Checks(cfg))
}

// fatal reports err on stderr and in the log, then exits with status 1.
func fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	log.Errorf("fatal: %s", msg)
	log.Close()
	os.Exit(1)
}
