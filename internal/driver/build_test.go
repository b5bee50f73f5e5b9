package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"mesozoic/internal/diag"
	"mesozoic/internal/driver"
	"mesozoic/transpile"
)

func sampleTree(t *testing.T) (src, out string) {
	t.Helper()
	root := t.TempDir()
	src = filepath.Join(root, "src")
	out = filepath.Join(root, "dist")
	writeFile(t, filepath.Join(src, "a.ts"), "export const a: number = 1;\n")
	writeFile(t, filepath.Join(src, "ui", "b.tsx"), "export const b = <p>hi</p>;\n")
	writeFile(t, filepath.Join(src, "lib.mts"), "export enum E { A }\n")
	writeFile(t, filepath.Join(src, "types.d.ts"), "declare const x: number;\n")
	writeFile(t, filepath.Join(src, "node_modules", "dep", "index.ts"), "let q = 1;\n")
	writeFile(t, filepath.Join(src, ".hidden", "h.ts"), "let h = 1;\n")
	writeFile(t, filepath.Join(src, "broken.ts"), "let = ;\n")
	writeFile(t, filepath.Join(src, "notes.md"), "# nope\n")
	return src, out
}

func TestListSources(t *testing.T) {
	src, _ := sampleTree(t)
	files, err := driver.ListSources(src, func(rel string) bool { return rel == "lib.mts" })
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.ts", "broken.ts", "ui/b.tsx"}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Fatalf("ListSources = %v, want %v", files, want)
	}
}

func TestBuild(t *testing.T) {
	src, out := sampleTree(t)
	cache, err := driver.OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	ends := map[string]int{}
	opts := driver.BuildOptions{
		SrcDir:  src,
		OutDir:  out,
		Options: transpile.Options{SourceMap: transpile.SourceMapSeparate},
		Jobs:    2,
		Cache:   cache,
		Observer: func(ev driver.PhaseEvent) {
			if ev.Status != driver.PhaseEnd {
				return
			}
			mu.Lock()
			ends[ev.Name]++
			mu.Unlock()
		},
	}
	res, err := driver.Build(context.Background(), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(res.Files) != 4 || res.Failed != 1 || res.Cached != 0 {
		t.Fatalf("files=%d failed=%d cached=%d", len(res.Files), res.Failed, res.Cached)
	}
	if ends[driver.PhaseDiscover] != 1 || ends[driver.PhaseTranspile] != 4 || ends[driver.PhaseWrite] != 3 {
		t.Fatalf("phase ends = %v", ends)
	}

	got, err := os.ReadFile(filepath.Join(out, "a.js"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "export const a = 1;\n//# sourceMappingURL=a.js.map\n" {
		t.Fatalf("a.js = %q", got)
	}
	for _, p := range []string{"a.js.map", "ui/b.js", "ui/b.js.map", "lib.mjs"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(p))); err != nil {
			t.Errorf("missing output %s: %v", p, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "broken.js")); !os.IsNotExist(err) {
		t.Errorf("broken.ts must not produce output (stat err %v)", err)
	}
	for _, f := range res.Files {
		if f.Rel != "broken.ts" {
			continue
		}
		if f.Output.Err == nil || f.Output.Err.Kind() != diag.KindSyntax {
			t.Fatalf("broken.ts outcome = %+v", f.Output)
		}
	}

	again, err := driver.Build(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if again.Cached != 3 || again.Failed != 1 {
		t.Fatalf("second build cached=%d failed=%d", again.Cached, again.Failed)
	}
}

func TestBuildTimings(t *testing.T) {
	src, out := sampleTree(t)
	res, err := driver.Build(context.Background(), driver.BuildOptions{
		SrcDir:  src,
		OutDir:  out,
		Files:   []string{"a.ts"},
		Timings: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	ds := res.Files[0].Output.Diagnostics
	if len(ds) != 1 || ds[0].Code != diag.ObsTimings || len(ds[0].Notes) != 1 {
		t.Fatalf("diagnostics = %+v", ds)
	}
	if !strings.Contains(ds[0].Notes[0].Msg, `"name":"parse"`) {
		t.Fatalf("timing payload = %s", ds[0].Notes[0].Msg)
	}
}

func TestBuildRejectsSameDirs(t *testing.T) {
	src, _ := sampleTree(t)
	if _, err := driver.Build(context.Background(), driver.BuildOptions{SrcDir: src, OutDir: src}); err == nil {
		t.Fatal("expected error for out == src")
	}
}

func TestBuildSkipsOutputInsideSource(t *testing.T) {
	src, _ := sampleTree(t)
	out := filepath.Join(src, "dist")
	writeFile(t, filepath.Join(out, "old.js"), "x;\n")
	files, err := driver.Discover(driver.BuildOptions{SrcDir: src, OutDir: out})
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if strings.HasPrefix(f, "dist/") {
			t.Fatalf("output dir was discovered: %v", files)
		}
	}
}

func TestBuildCancelled(t *testing.T) {
	src, out := sampleTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.Build(ctx, driver.BuildOptions{SrcDir: src, OutDir: out, Jobs: 1}); err == nil {
		t.Fatal("expected cancellation error")
	}
}
