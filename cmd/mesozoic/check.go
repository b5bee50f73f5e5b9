package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mesozoic/internal/driver"
	"mesozoic/transpile"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] FILE...",
	Short: "Check that output is stable when transpiled again",
	Long: `Check transpiles each file, then transpiles the output again as JavaScript.
The second output must match the first byte for byte; a diff is printed when
it does not.`,
	Args: cobra.MinimumNArgs(1),
	RunE: checkExecution,
}

func init() {
	addTranspileFlags(checkCmd.Flags())
	addDiagnosticsFlags(checkCmd)
}

func checkExecution(cmd *cobra.Command, args []string) error {
	opts, err := applyTranspileFlags(cmd, transpile.DefaultOptions())
	if err != nil {
		return err
	}
	opts.Tracer = tracerOf(cmd)
	printer, err := newDiagPrinter(cmd, args)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	out := cmd.OutOrStdout()
	useColor := colorEnabled(cmd, os.Stdout)

	var failed, unstable int
	for _, path := range args {
		content, err := driver.ReadSource(path)
		if err != nil {
			return err
		}
		res, err := driver.CheckRoundTrip(path, content, opts)
		if err != nil {
			return err
		}
		switch {
		case !res.First.OK():
			failed++
			if err := printer.Print(res.First.Diagnostics, res.First.FileSet); err != nil {
				return err
			}
		case !res.Second.OK():
			// вывод не разбирается как JavaScript
			unstable++
			fmt.Fprintf(out, "%s: output does not transpile again\n", path)
			if err := printer.Print(res.Second.Diagnostics, res.Second.FileSet); err != nil {
				return err
			}
		case !res.Stable:
			unstable++
			fmt.Fprintf(out, "%s: output changed when transpiled again\n", path)
			writeDiff(out, res.Diff, useColor)
		default:
			if !quiet {
				fmt.Fprintf(out, "%s: ok\n", path)
			}
		}
	}
	if failed+unstable > 0 {
		return fmt.Errorf("%d failed, %d unstable of %d files", failed, unstable, len(args))
	}
	return nil
}

func writeDiff(w io.Writer, diff string, enabled bool) {
	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	for _, c := range []*color.Color{del, ins} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "-"):
			del.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			ins.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}
