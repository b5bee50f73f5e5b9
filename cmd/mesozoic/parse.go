package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mesozoic/internal/diagfmt"
	"mesozoic/internal/dialect"
	"mesozoic/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] FILE",
	Short: "Print the syntax tree of a file",
	Long:  "Parse a file without folding and print its tree.",
	Args:  cobra.ExactArgs(1),
	RunE:  parseExecution,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
	parseCmd.Flags().String("syntax", "", "force the input dialect (ts|tsx|jsx|js|dts)")
	parseCmd.Flags().Bool("decorators", false, "accept legacy decorators")
	addDiagnosticsFlags(parseCmd)
}

func parseExecution(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "tree" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be tree or json)", format)
	}
	syntax, _ := cmd.Flags().GetString("syntax")
	d, err := dialect.Parse(syntax)
	if err != nil {
		return fmt.Errorf("--syntax: %w", err)
	}
	decorators, _ := cmd.Flags().GetBool("decorators")
	maxDiag, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	printer, err := newDiagPrinter(cmd, args)
	if err != nil {
		return err
	}

	res, err := driver.Parse(args[0], driver.ParseOptions{
		MaxDiagnostics: maxDiag,
		Syntax:         d,
		Decorators:     decorators,
		Tracer:         tracerOf(cmd),
	})
	if err != nil {
		return err
	}
	if err := printer.Print(res.Bag.Items(), res.FileSet); err != nil {
		return err
	}
	if res.Tree == nil {
		return errReported
	}
	if format == "json" {
		return diagfmt.FormatTreeJSON(cmd.OutOrStdout(), res.Tree)
	}
	return diagfmt.FormatTreePretty(cmd.OutOrStdout(), res.Tree)
}
