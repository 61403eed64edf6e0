package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"testing"
	"time"
)

const helperEnv = "DESKBENCH_HELPER"

// TestMain doubles as a fake desktop app when helperEnv is set.
func TestMain(m *testing.M) {
	switch os.Getenv(helperEnv) {
	case "":
		os.Exit(m.Run())
	case "app":
		if slices.Contains(os.Args[1:], "--bench") {
			fmt.Fprintln(os.Stderr, "Gtk-WARNING: noise")
			fmt.Fprintln(os.Stderr, "BENCH_STARTUP_MS:12.50")
			os.Exit(0)
		}
		time.Sleep(time.Minute)
		os.Exit(0)
	case "silent":
		os.Exit(0)
	case "crash":
		fmt.Fprintln(os.Stderr, "panic: no display")
		os.Exit(2)
	case "hang":
		time.Sleep(time.Minute)
		os.Exit(0)
	}
	os.Exit(1)
}

func helperExe(t *testing.T, mode string) string {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv(helperEnv, mode)
	return exe
}

type fakeSampler struct {
	rss    uint64
	cpu    []float64
	err    error
	calls  int
	pidSet bool
}

func (f *fakeSampler) RSS(_ context.Context, pid int32) (uint64, error) {
	f.pidSet = pid > 0
	if f.err != nil {
		return 0, f.err
	}
	return f.rss, nil
}

func (f *fakeSampler) CPUPercent(_ context.Context, pid int32, _ time.Duration) (float64, error) {
	f.pidSet = pid > 0
	if f.err != nil {
		return 0, f.err
	}
	v := f.cpu[f.calls%len(f.cpu)]
	f.calls++
	return v, nil
}

func TestMeasureStartup(t *testing.T) {
	exe := helperExe(t, "app")
	ms, err := MeasureStartup(context.Background(), exe, 10*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if ms != 12.5 {
		t.Errorf("ms = %v, want 12.5", ms)
	}
}

func TestMeasureStartupNoReport(t *testing.T) {
	exe := helperExe(t, "silent")
	if _, err := MeasureStartup(context.Background(), exe, 10*time.Second); !errors.Is(err, ErrNoReport) {
		t.Errorf("err = %v, want ErrNoReport", err)
	}
}

func TestMeasureStartupCrash(t *testing.T) {
	exe := helperExe(t, "crash")
	_, err := MeasureStartup(context.Background(), exe, 10*time.Second)
	if err == nil || errors.Is(err, ErrNoReport) {
		t.Errorf("err = %v, want exit error", err)
	}
}

func TestMeasureStartupTimeout(t *testing.T) {
	exe := helperExe(t, "hang")
	start := time.Now()
	_, err := MeasureStartup(context.Background(), exe, 200*time.Millisecond)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("timeout took %v", time.Since(start))
	}
}

func TestMeasureStartupMissingExe(t *testing.T) {
	if _, err := MeasureStartup(context.Background(), "/nonexistent/app", time.Second); err == nil {
		t.Error("expected error for missing executable")
	}
}

func TestMeasureMemory(t *testing.T) {
	exe := helperExe(t, "hang")
	s := &fakeSampler{rss: 50 * 1024 * 1024}
	mb, err := MeasureMemory(context.Background(), exe, 10*time.Millisecond, s)
	if err != nil {
		t.Fatal(err)
	}
	if mb != 50 {
		t.Errorf("mb = %v, want 50", mb)
	}
	if !s.pidSet {
		t.Error("sampler not given a pid")
	}
}

func TestMeasureMemorySamplerError(t *testing.T) {
	exe := helperExe(t, "hang")
	s := &fakeSampler{err: errors.New("gone")}
	if _, err := MeasureMemory(context.Background(), exe, 10*time.Millisecond, s); err == nil {
		t.Error("expected sampler error")
	}
}

func TestMeasureMemoryCancelled(t *testing.T) {
	exe := helperExe(t, "hang")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := MeasureMemory(ctx, exe, time.Minute, &fakeSampler{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestMeasureCPU(t *testing.T) {
	exe := helperExe(t, "hang")
	s := &fakeSampler{cpu: []float64{10, 20, 30}}
	got, err := MeasureCPU(context.Background(), exe, 10*time.Millisecond, 30*time.Millisecond, 3, s)
	if err != nil {
		t.Fatal(err)
	}
	if got != 20 {
		t.Errorf("cpu = %v, want 20", got)
	}
	if s.calls != 3 {
		t.Errorf("calls = %d, want 3", s.calls)
	}
}

func TestMeasureCPUClampsNegative(t *testing.T) {
	exe := helperExe(t, "hang")
	s := &fakeSampler{cpu: []float64{-4}}
	got, err := MeasureCPU(context.Background(), exe, time.Millisecond, time.Millisecond, 1, s)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("cpu = %v, want 0", got)
	}
}

func TestMeasureCPUNoSamples(t *testing.T) {
	exe := helperExe(t, "hang")
	s := &fakeSampler{err: errors.New("denied")}
	if _, err := MeasureCPU(context.Background(), exe, time.Millisecond, 2*time.Millisecond, 2, s); err == nil {
		t.Error("expected error without samples")
	}
}
