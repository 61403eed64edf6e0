//go:build !nogui

package main

import (
	"context"
	"fmt"
	"os"

	"deskbench/gui"
	"deskbench/log"
	"deskbench/tasks"
)

const seedTasks = 40

// guiShell adapts *gui.App to the shell the ready hook expects.
type guiShell struct{ app *gui.App }

func (s guiShell) Window(label string) (window, bool) {
	w, ok := s.app.Window(label)
	if !ok {
		return nil, false
	}
	return w, true
}

func startGUI(opts appOptions, boot bootOptions) error {
	app := gui.NewApp(gui.Options{
		Title:  opts.title,
		Bench:  opts.bench,
		Stress: opts.stress,
	})

	// Tasks load once the window is up so the store stays out of the
	// startup measurement.
	loaded := make(chan tasks.Store, 1)
	err := app.Run(func(a *gui.App) error {
		if err := onReady(guiShell{a}, boot); err != nil {
			return err
		}
		if !opts.stress {
			go loadTasks(a, opts, loaded)
		}
		return nil
	})
	select {
	case s := <-loaded:
		s.Close()
	default:
	}
	return err
}

func loadTasks(a *gui.App, opts appOptions, loaded chan<- tasks.Store) {
	s, err := openTaskStore(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		log.Errorf("load tasks: %v", err)
		return
	}
	loaded <- s
	a.SetStore(s)
}

func openTaskStore(opts appOptions) (*tasks.SQLiteStore, error) {
	path := opts.dbPath
	if path == "" {
		path = ":memory:"
	}
	ctx := context.Background()
	s, err := tasks.OpenSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open task store: %w", err)
	}
	if err := tasks.Seed(ctx, s, seedTasks); err != nil {
		s.Close()
		return nil, fmt.Errorf("seed task store: %w", err)
	}
	log.Info("task_store: " + path)
	return s, nil
}
