package driver

import (
	"os"
	"path/filepath"
	"testing"

	"mesozoic/internal/diag"
	"mesozoic/transpile"
)

func TestDiskCache_RoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	src := []byte("/** @jsx h */\nconst a = <p />;\n")
	opts := transpile.Options{SourceMap: transpile.SourceMapSeparate}
	out, err := TranspileSource("a.tsx", src, opts)
	if err != nil || !out.OK() {
		t.Fatalf("transpile: %v %v", err, out.Err)
	}
	if len(out.Diagnostics) != 1 {
		t.Fatalf("want one warning, got %v", out.Diagnostics)
	}

	key := EntryKey("a.tsx", src, OptionsDigest(opts))
	var miss DiskPayload
	if hit, err := cache.Get(key, &miss); hit || err != nil {
		t.Fatalf("empty cache: hit=%v err=%v", hit, err)
	}
	if err := cache.Put(key, outputToDiskPayload(out)); err != nil {
		t.Fatalf("put: %v", err)
	}

	var payload DiskPayload
	hit, err := cache.Get(key, &payload)
	if !hit || err != nil {
		t.Fatalf("get: hit=%v err=%v", hit, err)
	}
	back := diskPayloadToOutput(&payload, src)
	if !back.Cached || back.Code != out.Code || string(back.Map) != string(out.Map) {
		t.Fatalf("restored output differs:\n%q\n%q", back.Code, out.Code)
	}
	w := back.Diagnostics[0]
	if w.Code != diag.FoldPragmaIgnored || w.Severity != diag.SevWarning {
		t.Fatalf("restored warning = %+v", w)
	}
	orig, _ := out.FileSet.FileOf(out.Diagnostics[0].Primary.Start)
	file, ok := back.FileSet.FileOf(w.Primary.Start)
	if !ok {
		t.Fatal("restored span does not resolve")
	}
	if file.Text(w.Primary) != orig.Text(out.Diagnostics[0].Primary) {
		t.Fatalf("restored span covers %q", file.Text(w.Primary))
	}
}

func TestDiskCache_CorruptEntryIsMiss(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var key Digest
	key[0] = 7
	if err := cache.Put(key, &DiskPayload{Code: "x;\n"}); err != nil {
		t.Fatal(err)
	}
	var out DiskPayload
	if hit, _ := cache.Get(key, &out); !hit || out.Schema != diskCacheSchemaVersion {
		t.Fatal("expected hit for current schema")
	}

	if err := os.WriteFile(cache.pathFor(key), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if hit, err := cache.Get(key, &out); hit && err == nil {
		t.Fatal("corrupt entry must not be a hit")
	}
}

func TestDiskPayloadSchemaMismatch(t *testing.T) {
	if diskPayloadToOutput(&DiskPayload{Schema: diskCacheSchemaVersion + 1}, nil) != nil {
		t.Fatal("foreign schema must not restore")
	}
}

func TestDiskCache_DropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "c")
	cache, err := OpenDiskCacheAt(dir)
	if err != nil {
		t.Fatal(err)
	}
	var key Digest
	key[1] = 1
	if err := cache.Put(key, &DiskPayload{Code: "y;\n"}); err != nil {
		t.Fatal(err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	var out DiskPayload
	if hit, err := cache.Get(key, &out); hit || err != nil {
		t.Fatalf("after DropAll: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("cache dir should be recreated: %v", err)
	}
}

func TestNilDiskCache(t *testing.T) {
	var c *DiskCache
	var out DiskPayload
	if hit, err := c.Get(Digest{}, &out); hit || err != nil {
		t.Fatal("nil cache must miss")
	}
	if err := c.Put(Digest{}, &DiskPayload{}); err != nil {
		t.Fatal(err)
	}
}
