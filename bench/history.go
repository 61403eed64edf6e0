package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var ErrCorruptHistory = errors.New("could not parse existing history")

type History struct {
	Benchmarks []Result `json:"benchmarks"`
}

// LoadHistory reads the history file. A missing file yields an empty
// history; an unparsable one yields an empty history and ErrCorruptHistory
// so the caller can start fresh.
func LoadHistory(path string) (History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return History{}, nil
		}
		return History{}, fmt.Errorf("read history: %w", err)
	}
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return History{}, fmt.Errorf("%w: %v", ErrCorruptHistory, err)
	}
	return h, nil
}

func SaveHistory(path string, h History) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	if h.Benchmarks == nil {
		h.Benchmarks = []Result{}
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
