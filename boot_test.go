package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"deskbench/startup"
)

type fakeWindow struct {
	shown   int
	showErr error
	onShow  func()
}

func (w *fakeWindow) Show() error {
	w.shown++
	if w.onShow != nil {
		w.onShow()
	}
	return w.showErr
}

type fakeShell map[string]*fakeWindow

func (s fakeShell) Window(label string) (window, bool) {
	w, ok := s[label]
	if !ok {
		return nil, false
	}
	return w, true
}

func benchOptions(buf *bytes.Buffer, exited chan int) bootOptions {
	return bootOptions{
		bench:   true,
		stderr:  buf,
		elapsed: func() time.Duration { return 1234567 * time.Microsecond },
		exit:    func(code int) { exited <- code },
		delay:   10 * time.Millisecond,
	}
}

func TestOnReadyBenchReportsAndExits(t *testing.T) {
	var buf bytes.Buffer
	exited := make(chan int, 1)
	w := &fakeWindow{}
	w.onShow = func() {
		if buf.Len() == 0 {
			t.Error("window shown before the latency line")
		}
	}

	if err := onReady(fakeShell{"main": w}, benchOptions(&buf, exited)); err != nil {
		t.Fatalf("onReady: %v", err)
	}
	if w.shown != 1 {
		t.Errorf("Show called %d times", w.shown)
	}
	if got := buf.String(); got != "BENCH_STARTUP_MS:1234.57\n" {
		t.Errorf("stderr = %q", got)
	}
	select {
	case code := <-exited:
		if code != 0 {
			t.Errorf("exit code = %d, want 0", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("bench mode did not exit")
	}
}

func TestOnReadyBenchWaitsBeforeExit(t *testing.T) {
	var buf bytes.Buffer
	exited := make(chan int, 1)
	opts := benchOptions(&buf, exited)
	opts.delay = 0

	start := time.Now()
	if err := onReady(fakeShell{"main": &fakeWindow{}}, opts); err != nil {
		t.Fatal(err)
	}
	<-exited
	if waited := time.Since(start); waited < benchExitDelay {
		t.Errorf("exited after %v, want >= %v", waited, benchExitDelay)
	}
}

func TestOnReadyNormalModeKeepsRunning(t *testing.T) {
	var buf bytes.Buffer
	w := &fakeWindow{}
	err := onReady(fakeShell{"main": w}, bootOptions{
		stderr:  &buf,
		elapsed: startup.Elapsed,
		exit:    func(int) { t.Error("exit called outside bench mode") },
	})
	if err != nil {
		t.Fatal(err)
	}
	if w.shown != 1 {
		t.Errorf("Show called %d times", w.shown)
	}
	if _, ok := startup.ParseLine(buf.String()); !ok || strings.Count(buf.String(), startup.Prefix) != 1 {
		t.Errorf("stderr = %q, want one latency line", buf.String())
	}
	time.Sleep(3 * benchExitDelay / 2)
}

func TestOnReadyMissingWindow(t *testing.T) {
	var buf bytes.Buffer
	err := onReady(fakeShell{"other": &fakeWindow{}}, benchOptions(&buf, make(chan int, 1)))
	if !errors.Is(err, errNoMainWindow) {
		t.Fatalf("err = %v, want errNoMainWindow", err)
	}
	if buf.Len() != 0 {
		t.Errorf("latency written without a window: %q", buf.String())
	}
}

func TestOnReadyShowFailure(t *testing.T) {
	var buf bytes.Buffer
	boom := errors.New("boom")
	exited := make(chan int, 1)
	err := onReady(fakeShell{"main": &fakeWindow{showErr: boom}}, benchOptions(&buf, exited))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if !strings.Contains(err.Error(), "failed to show main window") {
		t.Errorf("err = %q", err)
	}
	if buf.String() != "BENCH_STARTUP_MS:1234.57\n" {
		t.Errorf("latency line must precede show: %q", buf.String())
	}
	select {
	case <-exited:
		t.Error("exit scheduled after failed show")
	case <-time.After(50 * time.Millisecond):
	}
}
