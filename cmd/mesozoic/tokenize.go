package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mesozoic/internal/diagfmt"
	"mesozoic/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] FILE",
	Short: "Print the tokens of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  tokenizeExecution,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	addDiagnosticsFlags(tokenizeCmd)
}

func tokenizeExecution(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	printer, err := newDiagPrinter(cmd, args)
	if err != nil {
		return err
	}
	maxDiag, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	res, err := driver.Tokenize(args[0], maxDiag)
	if err != nil {
		return err
	}
	if format == "json" {
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), res.Tokens, res.FileSet)
	} else {
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), res.Tokens, res.FileSet)
	}
	if err != nil {
		return err
	}
	if err := printer.Print(res.Bag.Items(), res.FileSet); err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return errReported
	}
	return nil
}
