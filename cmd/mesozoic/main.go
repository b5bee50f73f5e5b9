// Command mesozoic transpiles TypeScript, TSX and JSX to JavaScript.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mesozoic/internal/version"
)

// errReported means the failure was already printed as diagnostics.
var errReported = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:   "mesozoic",
	Short: "TypeScript and JSX to JavaScript transpiler",
	Long: `mesozoic strips TypeScript types, lowers JSX and newer syntax, and prints
JavaScript, one file at a time or for a whole project described by mesozoic.toml.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return openSession(cmd) },
}

func main() {
	err := rootCmd.Execute()
	closeSession(err != nil)
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version.Get().Version

	rootCmd.AddCommand(transpileCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress warnings and summaries")
	pf.Bool("timings", false, "show phase timings")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect per file")
	pf.String("log-level", "warn", "operational log level (debug|info|warn|error)")

	pf.String("trace", "", "write trace events to file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both|zap)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson|chrome)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
