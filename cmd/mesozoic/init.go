package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"mesozoic/internal/driver"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new mesozoic project",
	Long: `Initialize a project by creating mesozoic.toml and src/index.ts. Without an
argument the current directory is used; a missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("jsx", false, "start from src/index.tsx with a JSX component")
}

var packageNameRe = regexp.MustCompile(`[^a-z0-9._-]+`)

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	manifestPath := filepath.Join(target, driver.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil {
		return fmt.Errorf("project already initialized: %s exists", manifestPath)
	}
	withJSX, _ := cmd.Flags().GetBool("jsx")
	entry, body := "index.ts", indexTS
	if withJSX {
		entry, body = "index.tsx", indexTSX
	}
	entryPath := filepath.Join(target, "src", entry)
	if _, err := os.Stat(entryPath); err == nil {
		return fmt.Errorf("refusing to overwrite %s", entryPath)
	}

	if err := os.WriteFile(manifestPath, []byte(manifestTemplate(projectName(target))), 0o644); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(entryPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(entryPath, []byte(body), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\ncreated %s\n", manifestPath, entryPath)
	return nil
}

// projectName derives an npm-style package name from the directory.
func projectName(dir string) string {
	name := strings.ToLower(strings.TrimSpace(filepath.Base(dir)))
	name = strings.Trim(packageNameRe.ReplaceAllString(name, "-"), "-.")
	if name == "" {
		return "mesozoic-project"
	}
	return name
}

func manifestTemplate(name string) string {
	return fmt.Sprintf(`[package]
name = %q

[build]
src = "src"
out = "dist"
target = "es2022"
source_map = "separate"

[jsx]
runtime = "automatic"
import_source = "react"
`, name)
}

const indexTS = `export interface Greeting {
  name: string;
}

export function greet({ name }: Greeting): string {
  return ` + "`hello, ${name}`" + `;
}
`

const indexTSX = `type Props = { name: string };

export function App({ name }: Props) {
  return <h1>hello, {name}</h1>;
}
`
