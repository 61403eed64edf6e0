// Package clipboard wraps the system clipboard used to share results.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	cb "github.com/atotto/clipboard"
)

var ErrUnsupported = errors.New("no clipboard utility available")

const timeout = 3 * time.Second

func Read() (string, error) {
	if cb.Unsupported {
		return "", ErrUnsupported
	}
	return cb.ReadAll()
}

func Copy(text string) error {
	if cb.Unsupported {
		return ErrUnsupported
	}
	return cb.WriteAll(text)
}

// Verify writes a marker, reads it back and restores the previous
// contents. A clipboard tool that hangs (no compositor access) times out.
func Verify(ctx context.Context) (string, error) {
	if cb.Unsupported {
		return "", ErrUnsupported
	}
	marker := fmt.Sprintf("deskbench-doctor-%d", time.Now().UnixNano())

	type result struct {
		readback string
		err      error
		phase    string
	}
	ch := make(chan result, 1)
	go func() {
		prev, _ := Read()
		defer Copy(prev)
		if err := Copy(marker); err != nil {
			ch <- result{err: err, phase: "write"}
			return
		}
		got, err := Read()
		if err != nil {
			ch <- result{err: err, phase: "read"}
			return
		}
		ch <- result{readback: got}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return "", fmt.Errorf("clipboard %s failed: %w", res.phase, res.err)
		}
		if res.readback != marker {
			return "", fmt.Errorf("clipboard mismatch: wrote %q, got %q", marker, res.readback)
		}
		return "clipboard write/read verified", nil
	case <-time.After(timeout):
		return "", errors.New("clipboard timed out (clipboard tool hung, compositor not accessible?)")
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
