package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mesozoic/internal/diag"
	"mesozoic/internal/diagfmt"
	"mesozoic/internal/source"
	"mesozoic/internal/version"
)

type diagFormat string

const (
	diagPretty diagFormat = "pretty"
	diagJSON   diagFormat = "json"
	diagSarif  diagFormat = "sarif"
	diagShort  diagFormat = "short"
)

func readDiagFormat(value string) (diagFormat, error) {
	switch f := diagFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case "":
		return diagPretty, nil
	case diagPretty, diagJSON, diagSarif, diagShort:
		return f, nil
	}
	return "", fmt.Errorf("invalid --diagnostics-format %q (expected pretty|short|json|sarif)", value)
}

// addDiagnosticsFlags registers the flags shared by commands that print
// diagnostics.
func addDiagnosticsFlags(cmd *cobra.Command) {
	cmd.Flags().String("diagnostics-format", "pretty", "diagnostics output (pretty|short|json|sarif)")
	cmd.Flags().Int8("context", 0, "source lines shown above each diagnostic")
	cmd.Flags().Bool("notes", true, "print diagnostic notes")
}

// diagPrinter writes diagnostics for one command run.
type diagPrinter struct {
	w      io.Writer
	format diagFormat
	pretty diagfmt.PrettyOpts
	quiet  bool
	args   []string
}

func newDiagPrinter(cmd *cobra.Command, args []string) (*diagPrinter, error) {
	value, _ := cmd.Flags().GetString("diagnostics-format")
	format, err := readDiagFormat(value)
	if err != nil {
		return nil, err
	}
	context, _ := cmd.Flags().GetInt8("context")
	notes, _ := cmd.Flags().GetBool("notes")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return &diagPrinter{
		w:      cmd.ErrOrStderr(),
		format: format,
		pretty: diagfmt.PrettyOpts{
			Color:     colorEnabled(cmd, os.Stderr),
			Context:   context,
			PathMode:  diagfmt.PathModeAuto,
			ShowNotes: notes,
		},
		quiet: quiet,
		args:  append([]string{cmd.CommandPath()}, args...),
	}, nil
}

// Print writes diags. With --quiet only errors are printed.
func (p *diagPrinter) Print(diags []diag.Diagnostic, fs *source.FileSet) error {
	if p.quiet {
		errs := diags[:0:0]
		for _, d := range diags {
			if d.Severity.AtLeast(diag.SevError) {
				errs = append(errs, d)
			}
		}
		diags = errs
	}
	switch p.format {
	case diagJSON:
		return diagfmt.JSON(p.w, diags, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			IncludeNotes:     p.pretty.ShowNotes,
		})
	case diagSarif:
		return diagfmt.Sarif(p.w, diags, fs, diagfmt.SarifRunMeta{
			ToolName:       "mesozoic",
			ToolVersion:    version.Get().Version,
			InvocationArgs: p.args,
		})
	case diagShort:
		_, err := io.WriteString(p.w, diag.FormatShort(diags, fs, diag.ShortOpts{Notes: p.pretty.ShowNotes}))
		return err
	}
	if len(diags) == 0 {
		return nil
	}
	return diagfmt.Pretty(p.w, diags, fs, p.pretty)
}
