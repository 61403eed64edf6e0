// Package startup tracks the process launch instant and formats the
// startup-latency line that benchmark runners scrape from stderr.
package startup

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"sync"
	"time"
)

const Prefix = "BENCH_STARTUP_MS:"

var launchTime = sync.OnceValue(time.Now)

var lineRe = regexp.MustCompile(`BENCH_STARTUP_MS:([\d.]+)`)

// Mark records the launch instant. Only the first call has any effect;
// main calls it before doing anything else.
func Mark() time.Time {
	return launchTime()
}

// Elapsed returns the time since the launch instant.
func Elapsed() time.Duration {
	return clamp(time.Since(launchTime()))
}

func clamp(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func FormatLine(d time.Duration) string {
	return fmt.Sprintf("%s%.2f", Prefix, Millis(clamp(d)))
}

// WriteLine writes the latency line for d to w and returns the milliseconds
// it reported.
func WriteLine(w io.Writer, d time.Duration) (float64, error) {
	d = clamp(d)
	if _, err := fmt.Fprintln(w, FormatLine(d)); err != nil {
		return 0, err
	}
	return Millis(d), nil
}

// ParseLine extracts the first latency value found in output.
func ParseLine(output string) (float64, bool) {
	m := lineRe.FindStringSubmatch(output)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
