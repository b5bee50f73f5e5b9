package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"mesozoic/internal/fold"
	"mesozoic/transpile"
)

// ManifestName is the project file looked up by build.
const ManifestName = "mesozoic.toml"

var (
	// ErrPackageSectionMissing indicates that [package] is missing in a manifest.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrSourceDirMissing indicates that [build].src does not name a directory.
	ErrSourceDirMissing = errors.New("missing [build].src")
)

// Manifest is a parsed mesozoic.toml.
type Manifest struct {
	// Path is the manifest file; Root its directory.
	Path string `toml:"-"`
	Root string `toml:"-"`

	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`

	Build struct {
		Src             string   `toml:"src"`
		Out             string   `toml:"out"`
		Target          string   `toml:"target"`
		Minify          bool     `toml:"minify"`
		SourceMap       string   `toml:"source_map"`
		ASCIIOnly       bool     `toml:"ascii_only"`
		PreserveImports bool     `toml:"preserve_imports"`
		Decorators      bool     `toml:"decorators"`
		Exclude         []string `toml:"exclude"`
	} `toml:"build"`

	JSX struct {
		Runtime      string `toml:"runtime"`
		ImportSource string `toml:"import_source"`
		Development  bool   `toml:"development"`
		Factory      string `toml:"factory"`
		Fragment     string `toml:"fragment"`
	} `toml:"jsx"`

	Define map[string]string `toml:"define"`

	Strip struct {
		Conditionals []string `toml:"conditionals"`
	} `toml:"strip"`
}

// FindManifest walks up from startDir to locate mesozoic.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest parses a mesozoic.toml. Missing [build].src and [build].out
// default to "src" and "dist".
func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{Path: path, Root: filepath.Dir(path)}
	meta, err := toml.DecodeFile(path, m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	m.Package.Name = strings.TrimSpace(m.Package.Name)
	if strings.TrimSpace(m.Build.Src) == "" {
		m.Build.Src = "src"
	}
	if strings.TrimSpace(m.Build.Out) == "" {
		m.Build.Out = "dist"
	}
	return m, nil
}

// SourceDir resolves [build].src and checks that it is a directory inside Root.
func (m *Manifest) SourceDir() (string, error) {
	dir, err := m.resolve("src", m.Build.Src)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("invalid [build].src %q: %w", m.Build.Src, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("invalid [build].src %q: %w", m.Build.Src, ErrSourceDirMissing)
	}
	return dir, nil
}

// OutDir resolves [build].out; the directory may not exist yet.
func (m *Manifest) OutDir() (string, error) {
	return m.resolve("out", m.Build.Out)
}

func (m *Manifest) resolve(key, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("invalid [build].%s %q: must be relative", key, rel)
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	path := filepath.Join(m.Root, clean)
	if !pathWithin(m.Root, path) {
		return "", fmt.Errorf("invalid [build].%s %q: escapes project root", key, rel)
	}
	return path, nil
}

// Options converts the manifest into transpile options.
func (m *Manifest) Options() (transpile.Options, error) {
	opts := transpile.DefaultOptions()
	var err error
	if m.Build.Target != "" {
		if opts.Target, err = fold.ParseTarget(m.Build.Target); err != nil {
			return opts, fmt.Errorf("%s: [build].target: %w", m.Path, err)
		}
	}
	if opts.SourceMap, err = transpile.ParseSourceMapMode(m.Build.SourceMap); err != nil {
		return opts, fmt.Errorf("%s: [build].source_map: %w", m.Path, err)
	}
	if m.JSX.Runtime != "" {
		if opts.JSXRuntime, err = fold.ParseRuntime(m.JSX.Runtime); err != nil {
			return opts, fmt.Errorf("%s: [jsx].runtime: %w", m.Path, err)
		}
	}
	opts.Minify = m.Build.Minify
	opts.ASCIIOnly = m.Build.ASCIIOnly
	opts.PreserveImports = m.Build.PreserveImports
	opts.Decorators = m.Build.Decorators
	opts.JSXImportSource = m.JSX.ImportSource
	opts.Development = m.JSX.Development
	opts.JSXFactory = m.JSX.Factory
	opts.JSXFragment = m.JSX.Fragment
	opts.StripConditionals = m.Strip.Conditionals
	if len(m.Define) > 0 {
		opts.Defines = make(map[string]string, len(m.Define))
		for k, v := range m.Define {
			opts.Defines[k] = v
		}
	}
	return opts, nil
}

// Excluded reports whether rel (slash separated, relative to the source dir)
// matches an [build].exclude pattern.
func (m *Manifest) Excluded(rel string) bool {
	for _, pat := range m.Build.Exclude {
		if ok, _ := filepath.Match(pat, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pat, filepath.Base(rel)); ok {
			return true
		}
	}
	return false
}

// isSourceFile reports whether path is transpiled by build. Declaration files
// produce no code and are skipped.
func isSourceFile(path string) bool {
	if strings.HasSuffix(path, ".d.ts") || strings.HasSuffix(path, ".d.mts") || strings.HasSuffix(path, ".d.cts") {
		return false
	}
	switch filepath.Ext(path) {
	case ".ts", ".tsx", ".mts", ".cts", ".jsx", ".js", ".mjs", ".cjs":
		return true
	}
	return false
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

