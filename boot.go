package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"deskbench/log"
	"deskbench/startup"
)

const (
	mainWindowLabel = "main"
	benchExitDelay  = 200 * time.Millisecond
)

var errNoMainWindow = errors.New("main window not found")

type window interface {
	Show() error
}

// shell is the part of the GUI the ready hook drives.
type shell interface {
	Window(label string) (window, bool)
}

type bootOptions struct {
	bench   bool
	stderr  io.Writer
	elapsed func() time.Duration
	// exit terminates the process in bench mode after benchExitDelay.
	exit  func(code int)
	delay time.Duration
}

// onReady runs once the event loop is up: it reports the startup latency,
// shows the main window and, in bench mode, schedules a clean exit.
func onReady(sh shell, opts bootOptions) error {
	w, ok := sh.Window(mainWindowLabel)
	if !ok {
		return errNoMainWindow
	}

	ms, err := startup.WriteLine(opts.stderr, opts.elapsed())
	if err != nil {
		return fmt.Errorf("write startup line: %w", err)
	}
	log.Startup(ms, opts.bench)

	if err := w.Show(); err != nil {
		return fmt.Errorf("failed to show main window: %w", err)
	}
	if !opts.bench {
		return nil
	}

	delay := opts.delay
	if delay <= 0 {
		delay = benchExitDelay
	}
	go func() {
		time.Sleep(delay)
		opts.exit(0)
	}()
	return nil
}
