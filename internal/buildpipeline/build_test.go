package buildpipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"mesozoic/internal/buildpipeline"
	"mesozoic/internal/driver"
)

func TestRunReportsProgress(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	files := map[string]string{
		"a.ts":    "export const a: string = 'a';\n",
		"b.tsx":   "export const b = <i />;\n",
		"bad.ts":  "let = ;\n",
		"c/d.mts": "export type T = number;\n",
	}
	for name, content := range files {
		p := filepath.Join(src, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var mu sync.Mutex
	last := map[string]buildpipeline.Status{}
	queued := 0
	sink := buildpipeline.FuncSink(func(ev buildpipeline.Event) {
		mu.Lock()
		defer mu.Unlock()
		if ev.File == "" {
			return
		}
		if ev.Status == buildpipeline.StatusQueued {
			queued++
		}
		last[ev.File] = ev.Status
	})

	res, err := buildpipeline.Run(context.Background(), &buildpipeline.Request{
		BuildOptions: driver.BuildOptions{SrcDir: src, OutDir: filepath.Join(root, "out"), Jobs: 3},
		Progress:     sink,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if queued != 4 || len(res.Files) != 4 {
		t.Fatalf("queued=%d files=%v", queued, res.Files)
	}
	want := map[string]buildpipeline.Status{
		"a.ts":    buildpipeline.StatusDone,
		"b.tsx":   buildpipeline.StatusDone,
		"bad.ts":  buildpipeline.StatusError,
		"c/d.mts": buildpipeline.StatusDone,
	}
	for file, status := range want {
		if last[file] != status {
			t.Errorf("%s: last status %q, want %q", file, last[file], status)
		}
	}
	if res.Build.Failed != 1 {
		t.Errorf("failed = %d", res.Build.Failed)
	}
	if !res.Timings.Has(buildpipeline.StageTranspile) || !res.Timings.Has(buildpipeline.StageWrite) {
		t.Error("stage timings missing")
	}
}

func TestRunDiscoverError(t *testing.T) {
	_, err := buildpipeline.Run(context.Background(), &buildpipeline.Request{
		BuildOptions: driver.BuildOptions{SrcDir: filepath.Join(t.TempDir(), "missing"), OutDir: t.TempDir()},
	})
	if err == nil {
		t.Fatal("expected an error for a missing source dir")
	}
}
