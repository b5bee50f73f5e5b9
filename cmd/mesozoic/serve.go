package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mesozoic/internal/server"
	"mesozoic/internal/version"
	"mesozoic/transpile"
)

var serveCmd = &cobra.Command{
	Use:   "serve [flags]",
	Short: "Serve the transpiler over HTTP",
	Long: `Serve answers POST /transpile with the transpiled code of the request body
(or its multipart "file" part) and GET /healthz. Query parameters override the
options given as flags.`,
	Args: cobra.NoArgs,
	RunE: serveExecution,
}

func init() {
	addTranspileFlags(serveCmd.Flags())
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Int64("max-body", server.DefaultMaxBody, "maximum request body in bytes")
	serveCmd.Flags().Int("memo", 0, "results kept in memory (0 = default)")
	serveCmd.Flags().Duration("shutdown-timeout", 0, "graceful shutdown limit (0 = 5s)")
}

func serveExecution(cmd *cobra.Command, _ []string) error {
	opts, err := applyTranspileFlags(cmd, transpile.DefaultOptions())
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	maxBody, _ := cmd.Flags().GetInt64("max-body")
	memo, _ := cmd.Flags().GetInt("memo")
	shutdown, _ := cmd.Flags().GetDuration("shutdown-timeout")

	log := logger()
	srv := server.New(server.Config{
		Addr:            addr,
		Options:         opts,
		MaxBodyBytes:    maxBody,
		MemoEntries:     memo,
		ShutdownTimeout: shutdown,
		Logger:          log,
		Version:         version.Get().Version,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(cmd.ErrOrStderr(), "listening on %s\n", addr)
	log.Info("listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	log.Info("stopped")
	return nil
}
