package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"mesozoic/internal/buildpipeline"
	"mesozoic/internal/driver"
	"mesozoic/internal/fold"
	"mesozoic/internal/version"
	"mesozoic/transpile"
)

func TestParseDefines(t *testing.T) {
	got, err := parseDefines([]string{"DEBUG=false", "process.env.MODE=\"a=b\"", "DEBUG=true"})
	if err != nil {
		t.Fatal(err)
	}
	if got["DEBUG"] != "true" || got["process.env.MODE"] != `"a=b"` {
		t.Fatalf("unexpected defines %v", got)
	}
	for _, bad := range []string{"DEBUG", "=1", "X="} {
		if _, err := parseDefines([]string{bad}); err == nil {
			t.Errorf("parseDefines(%q) should fail", bad)
		}
	}
}

func TestReadModes(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Error("expected error for unknown ui mode")
	}
	if !shouldUseTUI(uiModeOn) || shouldUseTUI(uiModeOff) {
		t.Error("explicit ui modes must win over terminal detection")
	}

	for in, want := range map[string]diagFormat{"": diagPretty, "JSON": diagJSON, "sarif": diagSarif, "short": diagShort} {
		got, err := readDiagFormat(in)
		if err != nil || got != want {
			t.Errorf("readDiagFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readDiagFormat("xml"); err == nil {
		t.Error("expected error for unknown diagnostics format")
	}
}

func TestApplyTranspileFlagsOverlaysChangedOnly(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	addTranspileFlags(cmd.Flags())
	if err := cmd.Flags().Parse([]string{
		"--minify", "--target", "es2018", "--define", "DEBUG=false", "--strip", "import.meta.hot",
	}); err != nil {
		t.Fatal(err)
	}

	base := transpile.DefaultOptions()
	base.ASCIIOnly = true
	base.JSXImportSource = "preact"
	base.Defines = map[string]string{"VERSION": `"1"`}
	base.StripConditionals = []string{"DEV"}

	opts, err := applyTranspileFlags(cmd, base)
	if err != nil {
		t.Fatal(err)
	}
	if !opts.Minify || opts.Target != fold.ES2018 {
		t.Fatalf("changed flags not applied: minify=%v target=%s", opts.Minify, opts.Target)
	}
	if !opts.ASCIIOnly || opts.JSXImportSource != "preact" {
		t.Fatal("unchanged flags must keep the base value")
	}
	if len(opts.Defines) != 2 || opts.Defines["DEBUG"] != "false" {
		t.Fatalf("defines not merged: %v", opts.Defines)
	}
	if strings.Join(opts.StripConditionals, ",") != "DEV,import.meta.hot" {
		t.Fatalf("strip = %v", opts.StripConditionals)
	}
	if len(base.Defines) != 1 || len(base.StripConditionals) != 1 {
		t.Fatal("base options were mutated")
	}
}

func TestApplyTranspileFlagsRejectsBadValues(t *testing.T) {
	for _, args := range [][]string{
		{"--target", "es3"},
		{"--jsx", "preact"},
		{"--source-map", "maybe"},
		{"--syntax", "coffee"},
		{"--define", "NOPE"},
	} {
		cmd := &cobra.Command{Use: "x"}
		addTranspileFlags(cmd.Flags())
		if err := cmd.Flags().Parse(args); err != nil {
			t.Fatal(err)
		}
		if _, err := applyTranspileFlags(cmd, transpile.DefaultOptions()); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestMapPathFollowsSpecifier(t *testing.T) {
	got := mapPath(filepath.Join("out", "bundle.js"), "src/app.tsx")
	if want := filepath.Join("out", "app.js.map"); got != want {
		t.Fatalf("mapPath = %q, want %q", got, want)
	}
}

func TestProjectNameAndManifestTemplate(t *testing.T) {
	if got := projectName("/tmp/My Cool App"); got != "my-cool-app" {
		t.Fatalf("projectName = %q", got)
	}
	if got := projectName("/"); got != "mesozoic-project" {
		t.Fatalf("projectName(/) = %q", got)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, driver.ManifestName)
	if err := os.WriteFile(path, []byte(manifestTemplate("demo")), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := driver.LoadManifest(path)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := m.Options()
	if err != nil {
		t.Fatal(err)
	}
	if m.Package.Name != "demo" || opts.SourceMap != transpile.SourceMapSeparate || opts.JSXImportSource != "react" {
		t.Fatalf("unexpected manifest %+v / %+v", m.Package, opts)
	}
}

func TestRenderVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := version.Info{Version: "1.2.3", GitCommit: "abc"}
	if err := renderVersionJSON(&buf, info, versionOptions{showHash: true, showDate: true}); err != nil {
		t.Fatal(err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Tool != "mesozoic" || payload.GitCommit != "abc" || payload.BuildDate != "unknown" || payload.GitMessage != "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestRenderStageTimings(t *testing.T) {
	var timings buildpipeline.Timings
	timings.Add(buildpipeline.StageTranspile, 1500*time.Microsecond)
	timings.Add(buildpipeline.StageWrite, 500*time.Microsecond)

	out := renderStageTimings(&timings)
	if !strings.Contains(out, "transpile") || !strings.Contains(out, "1.5") {
		t.Fatalf("missing transpile row:\n%s", out)
	}
	if strings.Contains(out, "discover") {
		t.Fatalf("unrecorded stage printed:\n%s", out)
	}
	if !strings.Contains(strings.ToLower(out), "total") || !strings.Contains(out, "2.0") {
		t.Fatalf("missing total:\n%s", out)
	}
}

// execute runs the root command once with captured output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(append([]string{"--color", "off"}, args...))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err = rootCmd.Execute()
	closeSession(err != nil)
	return out.String(), errOut.String(), err
}

func TestTranspileCommandWritesOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.ts")
	if err := os.WriteFile(in, []byte("const x: number = 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out", "a.js")
	if _, _, err := execute(t, "transpile", in, "-o", out); err != nil {
		t.Fatal(err)
	}
	code, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(code) != "const x = 1;\n" {
		t.Fatalf("unexpected output %q", code)
	}
}

func TestInitThenBuild(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")
	if _, _, err := execute(t, "init", dir); err != nil {
		t.Fatal(err)
	}
	stdout, stderr, err := execute(t, "build", dir, "--ui", "off", "--no-cache")
	if err != nil {
		t.Fatalf("build: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "built 1 files (0 cached, 0 failed)") {
		t.Fatalf("unexpected summary %q", stdout)
	}
	code, err := os.ReadFile(filepath.Join(dir, "dist", "index.js"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(code), "export function greet") || strings.Contains(string(code), "interface") {
		t.Fatalf("unexpected output:\n%s", code)
	}
	if _, err := os.Stat(filepath.Join(dir, "dist", "index.js.map")); err != nil {
		t.Fatalf("source map missing: %v", err)
	}

	if _, _, err := execute(t, "init", dir); err == nil {
		t.Fatal("second init must refuse to overwrite")
	}
}
