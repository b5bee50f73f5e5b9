package driver_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mesozoic/internal/driver"
	"mesozoic/internal/fold"
	"mesozoic/transpile"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const sampleManifest = `
[package]
name = " app "

[build]
src = "web"
target = "es2019"
minify = true
source_map = "inline"
exclude = ["*.test.ts"]

[jsx]
runtime = "classic"
factory = "h"
fragment = "Fragment"

[define]
__VERSION__ = '"1.0.0"'

[strip]
conditionals = ["__DEV__"]
`

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, driver.ManifestName)
	writeFile(t, path, sampleManifest)
	if err := os.Mkdir(filepath.Join(root, "web"), 0o755); err != nil {
		t.Fatal(err)
	}

	found, ok, err := driver.FindManifest(filepath.Join(root, "web"))
	if err != nil || !ok || found != path {
		t.Fatalf("FindManifest = %q %v %v", found, ok, err)
	}

	m, err := driver.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Package.Name != "app" {
		t.Errorf("name = %q", m.Package.Name)
	}
	src, err := m.SourceDir()
	if err != nil || src != filepath.Join(root, "web") {
		t.Errorf("SourceDir = %q %v", src, err)
	}
	out, err := m.OutDir()
	if err != nil || out != filepath.Join(root, "dist") {
		t.Errorf("OutDir = %q %v", out, err)
	}
	if !m.Excluded("pkg/a.test.ts") || m.Excluded("pkg/a.ts") {
		t.Error("exclude patterns not applied")
	}

	opts, err := m.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	want := transpile.Options{
		Target:            fold.ES2019,
		Minify:            true,
		SourceMap:         transpile.SourceMapInline,
		JSXRuntime:        fold.RuntimeClassic,
		JSXFactory:        "h",
		JSXFragment:       "Fragment",
		StripConditionals: []string{"__DEV__"},
	}
	if opts.Target != want.Target || opts.Minify != want.Minify || opts.SourceMap != want.SourceMap ||
		opts.JSXRuntime != want.JSXRuntime || opts.JSXFactory != want.JSXFactory || opts.JSXFragment != want.JSXFragment {
		t.Errorf("Options = %+v", opts)
	}
	if len(opts.StripConditionals) != 1 || opts.Defines["__VERSION__"] != `"1.0.0"` {
		t.Errorf("strip/define = %v %v", opts.StripConditionals, opts.Defines)
	}
}

func TestLoadManifestErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		is      error
	}{
		{"no package", "[build]\nsrc = \"src\"\n", "", driver.ErrPackageSectionMissing},
		{"unknown key", "[package]\nname = \"x\"\n[build]\nsrcdir = \"a\"\n", "unknown keys: build.srcdir", nil},
		{"bad toml", "[package\n", "failed to parse TOML", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), driver.ManifestName)
			writeFile(t, path, tt.content)
			_, err := driver.LoadManifest(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("error %v is not %v", err, tt.is)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestManifestRejectsEscapingDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), driver.ManifestName)
	writeFile(t, path, "[package]\nname = \"x\"\n[build]\nsrc = \"../outside\"\nout = \"/abs\"\n")
	m, err := driver.LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.SourceDir(); err == nil || !strings.Contains(err.Error(), "escapes project root") {
		t.Errorf("SourceDir error = %v", err)
	}
	if _, err := m.OutDir(); err == nil || !strings.Contains(err.Error(), "must be relative") {
		t.Errorf("OutDir error = %v", err)
	}
}

func TestManifestBadTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), driver.ManifestName)
	writeFile(t, path, "[package]\nname = \"x\"\n[build]\ntarget = \"es3\"\n")
	m, err := driver.LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Options(); err == nil || !strings.Contains(err.Error(), "[build].target") {
		t.Fatalf("Options error = %v", err)
	}
}
