package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mesozoic/internal/driver"
	"mesozoic/internal/observ"
	"mesozoic/internal/source"
	"mesozoic/transpile"
)

var transpileCmd = &cobra.Command{
	Use:   "transpile [flags] FILE",
	Short: "Transpile one file to JavaScript",
	Long: `Transpile one TypeScript, TSX, JSX or JavaScript file. FILE "-" reads
standard input under the name given by --specifier.`,
	Args: cobra.ExactArgs(1),
	RunE: transpileExecution,
}

func init() {
	addTranspileFlags(transpileCmd.Flags())
	addDiagnosticsFlags(transpileCmd)
	transpileCmd.Flags().StringP("output", "o", "", "write the code to file instead of stdout")
	transpileCmd.Flags().String("specifier", "stdin.ts", "name of the source read from stdin")
}

func transpileExecution(cmd *cobra.Command, args []string) error {
	opts, err := applyTranspileFlags(cmd, transpile.DefaultOptions())
	if err != nil {
		return err
	}
	printer, err := newDiagPrinter(cmd, args)
	if err != nil {
		return err
	}
	outPath, _ := cmd.Flags().GetString("output")
	if opts.SourceMap == transpile.SourceMapSeparate && outPath == "" {
		return fmt.Errorf("--source-map=separate needs --output")
	}

	specifier, content, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	opts.Tracer = tracerOf(cmd)
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	if timings {
		opts.Timer = observ.NewTimer()
	}

	out, err := driver.TranspileSource(specifier, content, opts)
	if err != nil {
		return err
	}
	logger().Debug("transpiled",
		zap.String("specifier", specifier),
		zap.Int("input_bytes", out.InputBytes),
		zap.Bool("ok", out.OK()))
	if err := printer.Print(out.Diagnostics, out.FileSet); err != nil {
		return err
	}
	if opts.Timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	if !out.OK() {
		return errReported
	}

	if outPath == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), out.Code)
		return err
	}
	return writeOutputFiles(outPath, out)
}

// readInput loads path, or stdin for "-", decoded the way files are.
func readInput(cmd *cobra.Command, path string) (specifier string, content []byte, err error) {
	if path != "-" {
		content, err = driver.ReadSource(path)
		return path, content, err
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", nil, fmt.Errorf("read stdin: %w", err)
	}
	content, _, err = source.Decode(raw)
	if err != nil {
		return "", nil, fmt.Errorf("stdin: %w", err)
	}
	specifier, _ = cmd.Flags().GetString("specifier")
	return specifier, content, nil
}

// writeOutputFiles writes the code to path and the separate map, if any,
// next to it under the name its sourceMappingURL comment uses.
func writeOutputFiles(path string, out *driver.FileOutput) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, []byte(out.Code), 0o644); err != nil {
		return err
	}
	if out.Map != nil {
		return os.WriteFile(mapPath(path, out.Specifier), out.Map, 0o644)
	}
	return nil
}

func mapPath(outPath, specifier string) string {
	name := filepath.Base(filepath.FromSlash(transpile.OutputName(specifier)))
	return filepath.Join(filepath.Dir(outPath), name+".map")
}
