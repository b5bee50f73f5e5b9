package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mesozoic/internal/dialect"
	"mesozoic/internal/fold"
	"mesozoic/transpile"
)

// addTranspileFlags registers the flags that map onto transpile.Options.
func addTranspileFlags(fs *pflag.FlagSet) {
	fs.String("jsx", "automatic", "JSX runtime (automatic|classic)")
	fs.String("jsx-import-source", "", "package providing jsx-runtime (automatic runtime)")
	fs.String("jsx-factory", "", "element factory for the classic runtime")
	fs.String("jsx-fragment", "", "fragment factory for the classic runtime")
	fs.Bool("dev", false, "emit jsxDEV calls with source locations")
	fs.Bool("minify", false, "print without optional whitespace")
	fs.Bool("ascii-only", false, "escape non-ASCII characters in the output")
	fs.String("target", fold.DefaultTarget.String(), "language level of the output (es2015..es2022|esnext)")
	fs.String("source-map", "none", "source map mode (none|separate|inline)")
	fs.String("syntax", "", "force the input dialect (ts|tsx|jsx|js|dts)")
	fs.StringArray("strip", nil, "remove if-blocks guarded by this condition (repeatable)")
	fs.StringArray("define", nil, "replace a global with an expression, NAME=EXPR (repeatable)")
	fs.Bool("decorators", false, "accept legacy decorators")
	fs.Bool("strict", false, "report early errors the parser would otherwise tolerate")
	fs.Bool("preserve-imports", false, "keep imports whose bindings are only used as types")
}

// applyTranspileFlags overlays the flags the user set on base. Unset flags
// keep the base value, so manifest settings survive on build.
func applyTranspileFlags(cmd *cobra.Command, base transpile.Options) (transpile.Options, error) {
	opts := base
	fs := cmd.Flags()
	var err error

	if fs.Changed("jsx") {
		v, _ := fs.GetString("jsx")
		if opts.JSXRuntime, err = fold.ParseRuntime(v); err != nil {
			return opts, fmt.Errorf("--jsx: %w", err)
		}
	}
	if fs.Changed("target") {
		v, _ := fs.GetString("target")
		if opts.Target, err = fold.ParseTarget(v); err != nil {
			return opts, fmt.Errorf("--target: %w", err)
		}
	}
	if fs.Changed("source-map") {
		v, _ := fs.GetString("source-map")
		if opts.SourceMap, err = transpile.ParseSourceMapMode(v); err != nil {
			return opts, fmt.Errorf("--source-map: %w", err)
		}
	}
	if fs.Changed("syntax") {
		v, _ := fs.GetString("syntax")
		if opts.SyntaxOverride, err = dialect.Parse(v); err != nil {
			return opts, fmt.Errorf("--syntax: %w", err)
		}
	}

	strs := map[string]*string{
		"jsx-import-source": &opts.JSXImportSource,
		"jsx-factory":       &opts.JSXFactory,
		"jsx-fragment":      &opts.JSXFragment,
	}
	for name, dst := range strs {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	bools := map[string]*bool{
		"dev":              &opts.Development,
		"minify":           &opts.Minify,
		"ascii-only":       &opts.ASCIIOnly,
		"decorators":       &opts.Decorators,
		"strict":           &opts.StrictEarlyErrors,
		"preserve-imports": &opts.PreserveImports,
	}
	for name, dst := range bools {
		if fs.Changed(name) {
			*dst, _ = fs.GetBool(name)
		}
	}

	if fs.Changed("strip") {
		strip, _ := fs.GetStringArray("strip")
		opts.StripConditionals = append(append([]string(nil), base.StripConditionals...), strip...)
	}
	if fs.Changed("define") {
		raw, _ := fs.GetStringArray("define")
		defines, err := parseDefines(raw)
		if err != nil {
			return opts, err
		}
		merged := make(map[string]string, len(base.Defines)+len(defines))
		for k, v := range base.Defines {
			merged[k] = v
		}
		for k, v := range defines {
			merged[k] = v
		}
		opts.Defines = merged
	}

	if maxDiag, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err == nil {
		opts.MaxDiagnostics = maxDiag
	}
	return opts, nil
}

// parseDefines reads NAME=EXPR pairs. The expression may contain '='; a
// later pair for the same name wins.
func parseDefines(raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, expr, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--define %q: expected NAME=EXPR", kv)
		}
		if strings.TrimSpace(expr) == "" {
			return nil, fmt.Errorf("--define %q: empty expression", kv)
		}
		out[name] = expr
	}
	return out, nil
}
