package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderLatest(t *testing.T) {
	md := RenderLatest(sampleResult())
	for _, want := range []string{
		"**Platform:** linux (x64) | **Runs:** 5",
		"| Metric | Electron | Tauri | Δ |",
		"| **Startup Time** | 400ms ± 20ms | 100ms ± 5ms | 4.0x |",
		"| **Memory Usage** | 180.0 MB | 60.0 MB | 3.0x |",
		"| **Bundle Size** | 250.0 MB | 10.0 MB | 25x |",
		"| **Installer Size** | — | 4.0 MB | — |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "CPU (Load)") {
		t.Errorf("CPU row rendered without data:\n%s", md)
	}
}

func TestRenderLatestCPUDelta(t *testing.T) {
	r := sampleResult()
	r.Targets[0].CPULoad = &Stats{Mean: 12}
	r.Targets[1].CPULoad = &Stats{Mean: 0.04}
	if md := RenderLatest(r); !strings.Contains(md, "| **CPU (Load)** | 12.0% | 0.0% | ~ |") {
		t.Errorf("cpu row:\n%s", md)
	}
	r.Targets[1].CPULoad = &Stats{Mean: 4}
	if md := RenderLatest(r); !strings.Contains(md, "| 3.0x |") {
		t.Errorf("cpu ratio:\n%s", md)
	}
}

func TestRenderHistoryNewestFirst(t *testing.T) {
	older := sampleResult()
	older.Targets[0].StartupMs = &Stats{Mean: 999}
	newer := sampleResult()
	md := RenderHistory(History{Benchmarks: []Result{older, newer}})

	if !strings.Contains(md, "| # | Date | Platform | Startup (Electron/Tauri) |") {
		t.Fatalf("header:\n%s", md)
	}
	i2 := strings.Index(md, "| 2 |")
	i1 := strings.Index(md, "| 1 |")
	if i2 < 0 || i1 < 0 || i2 > i1 {
		t.Errorf("rows not newest first:\n%s", md)
	}
	if !strings.Contains(md, "999ms / 100ms") || !strings.Contains(md, "180MB / 60MB") {
		t.Errorf("cells:\n%s", md)
	}
}

func TestRenderHistoryMissingTarget(t *testing.T) {
	old := sampleResult()
	old.Targets = old.Targets[:1]
	md := RenderHistory(History{Benchmarks: []Result{old, sampleResult()}})
	if !strings.Contains(md, "400ms / —") {
		t.Errorf("expected dash for missing target:\n%s", md)
	}
}

func TestReplaceResults(t *testing.T) {
	doc := "# Title\n" + StartMarker + "\nold\n" + EndMarker + "\nfooter\n"
	got, ok := ReplaceResults(doc, "new\n")
	if !ok {
		t.Fatal("markers not found")
	}
	want := "# Title\n" + StartMarker + "\nnew\n" + EndMarker + "\nfooter\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, ok := ReplaceResults("no markers", "x"); ok {
		t.Error("expected no replacement")
	}
	if _, ok := ReplaceResults(EndMarker+StartMarker, "x"); ok {
		t.Error("expected no replacement for reversed markers")
	}
}

func TestUpdateReadme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "README.md")

	ok, err := UpdateReadme(path, sampleResult(), History{})
	if err != nil || ok {
		t.Fatalf("missing readme: ok=%v err=%v", ok, err)
	}

	body := "intro\n" + StartMarker + "\n" + EndMarker + "\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	h := History{Benchmarks: []Result{sampleResult()}}
	ok, err = UpdateReadme(path, sampleResult(), h)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	data, _ := os.ReadFile(path)
	out := string(data)
	if !strings.HasPrefix(out, "intro\n"+StartMarker+"\n**Platform:**") {
		t.Errorf("unexpected start:\n%s", out)
	}
	if !strings.Contains(out, "## Benchmark History") || !strings.HasSuffix(out, EndMarker+"\n") {
		t.Errorf("unexpected body:\n%s", out)
	}
}
