package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mesozoic/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [DIR]",
	Short: "Remove build output",
	Long:  "Remove the [build].out directory of the project in DIR and, with --cache, the disk cache.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClean,
}

func init() {
	cleanCmd.Flags().Bool("cache", false, "also drop the disk cache")
	cleanCmd.Flags().String("cache-dir", "", "disk cache location (default $XDG_CACHE_HOME/mesozoic)")
}

func runClean(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	out := cmd.OutOrStdout()

	manifestPath, found, err := driver.FindManifest(dir)
	if err != nil {
		return err
	}
	if found {
		manifest, err := driver.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		outDir, err := manifest.OutDir()
		if err != nil {
			return err
		}
		// out = "." снесло бы весь проект
		if filepath.Clean(outDir) == filepath.Clean(manifest.Root) {
			return fmt.Errorf("refusing to remove project root %s", outDir)
		}
		if src, err := manifest.SourceDir(); err == nil && filepath.Clean(src) == filepath.Clean(outDir) {
			return fmt.Errorf("refusing to remove source directory %s", outDir)
		}
		switch _, err := os.Stat(outDir); {
		case errors.Is(err, os.ErrNotExist):
			fmt.Fprintf(out, "%s not found\n", outDir)
		case err != nil:
			return fmt.Errorf("failed to stat %q: %w", outDir, err)
		default:
			if err := os.RemoveAll(outDir); err != nil {
				return fmt.Errorf("failed to remove %q: %w", outDir, err)
			}
			fmt.Fprintf(out, "removed %s\n", outDir)
		}
	}

	if dropCache, _ := cmd.Flags().GetBool("cache"); dropCache {
		var cache *driver.DiskCache
		if cacheDir, _ := cmd.Flags().GetString("cache-dir"); cacheDir != "" {
			cache, err = driver.OpenDiskCacheAt(cacheDir)
		} else {
			cache, err = driver.OpenDiskCache("mesozoic")
		}
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return err
		}
		fmt.Fprintf(out, "dropped cache %s\n", cache.Dir())
		return nil
	}
	if !found {
		return fmt.Errorf("no %s found in %s or its parents", driver.ManifestName, dir)
	}
	return nil
}
