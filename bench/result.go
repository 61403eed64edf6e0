package bench

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Metrics holds the aggregated measurements of one target. Absent metrics
// are omitted from the history file.
type Metrics struct {
	StartupMs      *Stats `json:"startupMs,omitempty"`
	MemoryMB       *Stats `json:"memoryMB,omitempty"`
	CPULoad        *Stats `json:"cpuLoad,omitempty"`
	SizeBytes      int64  `json:"sizeBytes,omitempty"`
	InstallerBytes int64  `json:"installerBytes,omitempty"`
}

type TargetResult struct {
	Name string `json:"name,omitempty"`
	Metrics
}

// Result is one benchmark session. On disk every target is stored under
// its lowercased name next to the session fields, e.g.
//
//	{"platform":"linux","arch":"x64","timestamp":"...","runs":5,
//	 "electron":{"startupMs":{...}},"tauri":{...}}
type Result struct {
	Platform  string
	Arch      string
	Timestamp time.Time
	Runs      int
	Targets   []TargetResult
}

var sessionKeys = map[string]bool{"platform": true, "arch": true, "timestamp": true, "runs": true}

func targetKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Target returns the entry for name, matched case-insensitively.
func (r *Result) Target(name string) *TargetResult {
	key := targetKey(name)
	for i := range r.Targets {
		if targetKey(r.Targets[i].Name) == key {
			return &r.Targets[i]
		}
	}
	return nil
}

func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	head := []struct {
		key string
		val any
	}{
		{"platform", r.Platform},
		{"arch", r.Arch},
		{"timestamp", r.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00")},
		{"runs", r.Runs},
	}
	for i, f := range head {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeField(&buf, f.key, f.val); err != nil {
			return nil, err
		}
	}
	for _, t := range r.Targets {
		key := targetKey(t.Name)
		if key == "" || sessionKeys[key] {
			return nil, fmt.Errorf("invalid target name %q", t.Name)
		}
		buf.WriteByte(',')
		if err := writeField(&buf, key, t); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, key string, val any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(val)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Result
	if v, ok := raw["platform"]; ok {
		if err := json.Unmarshal(v, &out.Platform); err != nil {
			return fmt.Errorf("platform: %w", err)
		}
	}
	if v, ok := raw["arch"]; ok {
		if err := json.Unmarshal(v, &out.Arch); err != nil {
			return fmt.Errorf("arch: %w", err)
		}
	}
	if v, ok := raw["timestamp"]; ok {
		if err := json.Unmarshal(v, &out.Timestamp); err != nil {
			return fmt.Errorf("timestamp: %w", err)
		}
	}
	if v, ok := raw["runs"]; ok {
		if err := json.Unmarshal(v, &out.Runs); err != nil {
			return fmt.Errorf("runs: %w", err)
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		if !sessionKeys[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		var t TargetResult
		if err := json.Unmarshal(raw[k], &t); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		if t.Name == "" {
			t.Name = k
		}
		out.Targets = append(out.Targets, t)
	}
	*r = out
	return nil
}
