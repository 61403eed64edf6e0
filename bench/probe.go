package bench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"deskbench/startup"
)

var (
	ErrTimeout  = errors.New("timed out")
	ErrNoReport = errors.New("no startup line on stderr")
)

// Sampler reads resource usage of a running process.
type Sampler interface {
	RSS(ctx context.Context, pid int32) (uint64, error)
	CPUPercent(ctx context.Context, pid int32, interval time.Duration) (float64, error)
}

// ProcessSampler samples through gopsutil.
type ProcessSampler struct{}

func (ProcessSampler) RSS(ctx context.Context, pid int32) (uint64, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return 0, err
	}
	mi, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return mi.RSS, nil
}

func (ProcessSampler) CPUPercent(ctx context.Context, pid int32, interval time.Duration) (float64, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return 0, err
	}
	return p.PercentWithContext(ctx, interval)
}

// MeasureStartup launches exe in benchmark mode and returns the latency it
// reports. The process is killed when timeout expires.
func MeasureStartup(ctx context.Context, exe string, timeout time.Duration) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, "--bench")
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 0, fmt.Errorf("startup: %w after %s", ErrTimeout, timeout)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if ms, ok := startup.ParseLine(stderr.String()); ok {
		return ms, nil
	}
	if runErr != nil {
		return 0, fmt.Errorf("startup: %w", runErr)
	}
	return 0, ErrNoReport
}

// MeasureMemory launches exe, lets it settle and returns its resident set
// size in MB.
func MeasureMemory(ctx context.Context, exe string, settle time.Duration, s Sampler) (float64, error) {
	cmd := exec.Command(exe)
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("memory: %w", err)
	}
	defer terminate(cmd)

	if err := sleepCtx(ctx, settle); err != nil {
		return 0, err
	}
	rss, err := s.RSS(ctx, int32(cmd.Process.Pid))
	if err != nil {
		return 0, fmt.Errorf("memory: %w", err)
	}
	return float64(rss) / 1024 / 1024, nil
}

// MeasureCPU launches exe in stress mode, lets it settle, then averages
// samples taken back to back over window.
func MeasureCPU(ctx context.Context, exe string, settle, window time.Duration, samples int, s Sampler) (float64, error) {
	if samples < 1 {
		samples = 1
	}
	cmd := exec.Command(exe, "--stress")
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("cpu: %w", err)
	}
	defer terminate(cmd)

	if err := sleepCtx(ctx, settle); err != nil {
		return 0, err
	}

	interval := window / time.Duration(samples)
	var got []float64
	for i := 0; i < samples; i++ {
		v, err := s.CPUPercent(ctx, int32(cmd.Process.Pid), interval)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			continue
		}
		got = append(got, v)
	}
	if len(got) == 0 {
		return 0, errors.New("cpu: no samples")
	}
	st := Calc(got)
	return max(0, st.Mean), nil
}

func terminate(cmd *exec.Cmd) {
	_ = cmd.Process.Kill()
	_ = cmd.Wait()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
