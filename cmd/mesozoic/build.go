package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mesozoic/internal/buildpipeline"
	"mesozoic/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [DIR]",
	Short: "Transpile a project described by mesozoic.toml",
	Long: `Build looks for mesozoic.toml in DIR or its parents and transpiles every
source under [build].src into [build].out. Flags override the manifest.`,
	Args: cobra.MaximumNArgs(1),
	RunE: buildExecution,
}

func init() {
	addTranspileFlags(buildCmd.Flags())
	buildCmd.Flags().String("out", "", "output directory (overrides [build].out)")
	buildCmd.Flags().IntP("jobs", "j", 0, "parallel transpile jobs (0 = GOMAXPROCS)")
	buildCmd.Flags().Bool("no-cache", false, "do not read or write the disk cache")
	buildCmd.Flags().String("cache-dir", "", "disk cache location (default $XDG_CACHE_HOME/mesozoic)")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
}

func buildExecution(cmd *cobra.Command, args []string) error {
	uiValue, _ := cmd.Flags().GetString("ui")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	timings, _ := cmd.Root().PersistentFlags().GetBool("timings")
	jobs, _ := cmd.Flags().GetInt("jobs")

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	manifestPath, found, err := driver.FindManifest(dir)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no %s found in %s or its parents (run \"mesozoic init\")", driver.ManifestName, dir)
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		return err
	}
	base, err := manifest.Options()
	if err != nil {
		return err
	}
	opts, err := applyTranspileFlags(cmd, base)
	if err != nil {
		return err
	}
	srcDir, err := manifest.SourceDir()
	if err != nil {
		return err
	}
	outDir, err := manifest.OutDir()
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if outDir, err = filepath.Abs(out); err != nil {
			return err
		}
	}

	bo := driver.BuildOptions{
		SrcDir:  srcDir,
		OutDir:  outDir,
		Options: opts,
		Jobs:    jobs,
		Cache:   openCache(cmd),
		Exclude: manifest.Excluded,
		Timings: timings,
	}
	files, err := driver.Discover(bo)
	if err != nil {
		return err
	}
	bo.Files = files
	logger().Info("build",
		zap.String("manifest", manifestPath),
		zap.String("src", srcDir),
		zap.String("out", outDir),
		zap.Int("files", len(files)))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	req := &buildpipeline.Request{BuildOptions: bo}
	var res buildpipeline.Result
	if shouldUseTUI(mode) && !quiet && len(files) > 0 {
		title := "mesozoic build"
		if name := manifest.Package.Name; name != "" {
			title += " " + name
		}
		res, err = runBuildWithUI(ctx, title, files, req)
	} else {
		res, err = buildpipeline.Run(ctx, req)
	}
	if err != nil {
		return err
	}

	printer, err := newDiagPrinter(cmd, args)
	if err != nil {
		return err
	}
	for _, bf := range res.Build.Files {
		if bf.Output == nil || len(bf.Output.Diagnostics) == 0 {
			continue
		}
		if err := printer.Print(bf.Output.Diagnostics, bf.Output.FileSet); err != nil {
			return err
		}
	}

	b := res.Build
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "built %d files (%d cached, %d failed) %s -> %s in %s\n",
			len(b.Files), b.Cached, b.Failed,
			humanize.Bytes(uint64(b.InputBytes)), humanize.Bytes(uint64(b.OutputBytes)),
			b.Elapsed.Round(time.Millisecond))
	}
	if timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	if b.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", b.Failed, len(b.Files))
	}
	return nil
}

// openCache opens the disk cache unless --no-cache is set. A cache that
// cannot be opened only costs speed, so it is logged and skipped.
func openCache(cmd *cobra.Command) *driver.DiskCache {
	if off, _ := cmd.Flags().GetBool("no-cache"); off {
		return nil
	}
	var (
		cache *driver.DiskCache
		err   error
	)
	if dir, _ := cmd.Flags().GetString("cache-dir"); dir != "" {
		cache, err = driver.OpenDiskCacheAt(dir)
	} else {
		cache, err = driver.OpenDiskCache("mesozoic")
	}
	if err != nil {
		logger().Warn("disk cache disabled", zap.Error(err))
		return nil
	}
	return cache
}
