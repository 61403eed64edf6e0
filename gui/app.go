// Package gui is the Fyne shell around the benchmark app: a registry of
// labelled windows, the main window content and the system tray.
package gui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"deskbench/log"
	"deskbench/tasks"
)

const (
	MainLabel = "main"

	mainWidth  = 800
	mainHeight = 600
)

var (
	ErrWindowClosed   = errors.New("window closed")
	ErrAlreadyRunning = errors.New("app already running")
)

type Options struct {
	ID     string
	Title  string
	Bench  bool
	Stress bool
	Store  tasks.Store
}

// Window is a registered top-level window. It starts hidden.
type Window struct {
	label  string
	win    fyne.Window
	closed atomic.Bool
}

func (w *Window) Label() string { return w.label }

// Show makes the window visible. It must run on the app goroutine, which is
// where the setup callback of Run executes.
func (w *Window) Show() error {
	if w.closed.Load() {
		return ErrWindowClosed
	}
	w.win.Show()
	return nil
}

type App struct {
	fyneApp fyne.App
	opts    Options

	mu       sync.Mutex
	windows  map[string]*Window
	running  bool
	started  sync.Once
	setupErr error

	stopCtx context.Context
	stop    context.CancelFunc
}

func NewApp(opts Options) *App {
	if opts.ID == "" {
		opts.ID = "io.deskbench.app"
	}
	return newApp(app.NewWithID(opts.ID), opts)
}

func newApp(fa fyne.App, opts Options) *App {
	if opts.Title == "" {
		opts.Title = "deskbench"
	}
	a := &App{fyneApp: fa, opts: opts, windows: map[string]*Window{}}
	a.stopCtx, a.stop = context.WithCancel(context.Background())
	fa.Settings().SetTheme(&benchTheme{})

	mainWin := a.newWindow(MainLabel, opts.Title)
	mainWin.win.Resize(fyne.NewSize(mainWidth, mainHeight))
	mainWin.win.SetMaster()
	mainWin.win.SetContent(a.mainContent())

	if !opts.Bench {
		a.setupTray()
	}
	return a
}

func (a *App) newWindow(label, title string) *Window {
	w := &Window{label: label, win: a.fyneApp.NewWindow(title)}
	w.win.SetOnClosed(func() { w.closed.Store(true) })
	a.mu.Lock()
	a.windows[label] = w
	a.mu.Unlock()
	return w
}

func (a *App) mainContent() fyne.CanvasObject {
	if a.opts.Stress {
		balls := NewBallsWidget()
		go balls.Animate(a.stopCtx)
		return balls
	}
	if a.opts.Store != nil {
		return newTaskView(a.opts.Store).content()
	}
	return newEmptyView()
}

func (a *App) setupTray() {
	desk, ok := a.fyneApp.(desktop.App)
	if !ok {
		return
	}
	menu := fyne.NewMenu(a.opts.Title,
		fyne.NewMenuItem("Show", func() {
			if w, ok := a.Window(MainLabel); ok {
				if err := w.Show(); err != nil {
					log.Warnf("tray show: %v", err)
				}
			}
		}),
		fyne.NewMenuItem("Quit", a.Quit),
	)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(trayIcon())
}

// SetStore replaces the main window content with the task list backed by
// s. It is safe to call from any goroutine; stress mode ignores it.
func (a *App) SetStore(s tasks.Store) {
	fyne.Do(func() { a.setStore(s) })
}

func (a *App) setStore(s tasks.Store) {
	if a.opts.Stress || s == nil {
		return
	}
	w, ok := a.Window(MainLabel)
	if !ok {
		return
	}
	w.win.SetContent(newTaskView(s).content())
}

// Window looks up a registered window by label.
func (a *App) Window(label string) (*Window, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	w, ok := a.windows[label]
	return w, ok
}

// Run hooks setup onto the started lifecycle event and blocks in the event
// loop. A failing setup quits the app and its error is returned.
func (a *App) Run(setup func(*App) error) error {
	a.mu.Lock()
	if a.running {
		a.mu.Unlock()
		return ErrAlreadyRunning
	}
	a.running = true
	a.mu.Unlock()

	a.fyneApp.Lifecycle().SetOnStarted(func() { a.runSetup(setup) })
	a.fyneApp.Run()
	a.stop()
	return a.err()
}

func (a *App) runSetup(setup func(*App) error) {
	a.started.Do(func() {
		if err := setup(a); err != nil {
			a.mu.Lock()
			a.setupErr = err
			a.mu.Unlock()
			a.Quit()
		}
	})
}

func (a *App) err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.setupErr
}

func (a *App) Quit() {
	a.stop()
	a.fyneApp.Quit()
}
