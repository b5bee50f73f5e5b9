package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"mesozoic/internal/observ"
	"mesozoic/internal/trace"
	"mesozoic/transpile"
)

// Phase names reported to the PhaseObserver.
const (
	PhaseDiscover  = "discover"
	PhaseTranspile = "transpile"
	PhaseWrite     = "write"
)

// BuildOptions configure Build.
type BuildOptions struct {
	SrcDir string
	OutDir string
	// Files, when set, replaces discovery; paths are relative to SrcDir.
	Files   []string
	Options transpile.Options
	Jobs    int
	Cache   *DiskCache
	Exclude func(rel string) bool
	// Timings appends an ObsTimings diagnostic to every transpiled file.
	Timings  bool
	Observer PhaseObserver
}

// BuildFile is the outcome for one source file.
type BuildFile struct {
	// Rel is the path relative to SrcDir, also used as the specifier.
	Rel     string
	OutPath string
	Output  *FileOutput
}

// BuildResult собирает итоги сборки.
type BuildResult struct {
	Files       []BuildFile
	Failed      int
	Cached      int
	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration
}

// Discover lists the files a build of opts would transpile.
func Discover(opts BuildOptions) ([]string, error) {
	if filepath.Clean(opts.SrcDir) == filepath.Clean(opts.OutDir) {
		return nil, fmt.Errorf("output directory %s is the source directory", opts.OutDir)
	}
	if len(opts.Files) > 0 {
		return opts.Files, nil
	}
	exclude := opts.Exclude
	// прошлый вывод внутри src не должен попасть в сборку
	if outRel, err := filepath.Rel(opts.SrcDir, opts.OutDir); err == nil && pathWithin(opts.SrcDir, opts.OutDir) {
		prefix := filepath.ToSlash(outRel) + "/"
		exclude = func(rel string) bool {
			if strings.HasPrefix(rel, prefix) {
				return true
			}
			return opts.Exclude != nil && opts.Exclude(rel)
		}
	}
	return ListSources(opts.SrcDir, exclude)
}

// Build transpiles every source under SrcDir into OutDir in parallel. Files
// with diagnostics do not stop the build; I/O errors and cancellation do.
// Spans go to the tracer carried by ctx unless Options.Tracer is set.
func Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	began := time.Now()
	span, ctx := trace.StartSpan(ctx, trace.ScopeDriver, "build")
	defer span.End(opts.SrcDir)

	t := opts.Observer.start(PhaseDiscover, "")
	files, err := Discover(opts)
	opts.Observer.end(PhaseDiscover, "", t, err)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{Files: make([]BuildFile, len(files))}
	if len(files) == 0 {
		result.Elapsed = time.Since(began)
		return result, nil
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	optsKey := OptionsDigest(opts.Options)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, rel := range files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			bf, err := buildOne(gctx, rel, opts, optsKey)
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			// индекс i уникален для горутины, мьютекс не нужен
			result.Files[i] = bf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	for _, bf := range result.Files {
		if bf.Output == nil {
			continue
		}
		result.InputBytes += int64(bf.Output.InputBytes)
		switch {
		case !bf.Output.OK():
			result.Failed++
		default:
			result.OutputBytes += int64(len(bf.Output.Code))
			if bf.Output.Cached {
				result.Cached++
			}
		}
	}
	result.Elapsed = time.Since(began)
	span.WithExtra("files", strconv.Itoa(len(files))).WithExtra("failed", strconv.Itoa(result.Failed))
	return result, nil
}

func buildOne(ctx context.Context, rel string, opts BuildOptions, optsKey Digest) (BuildFile, error) {
	bf := BuildFile{Rel: rel}
	fspan, _ := trace.StartSpan(ctx, trace.ScopeModule, rel)
	defer fspan.End("")

	t := opts.Observer.start(PhaseTranspile, rel)
	content, err := ReadSource(filepath.Join(opts.SrcDir, filepath.FromSlash(rel)))
	if err != nil {
		opts.Observer.end(PhaseTranspile, rel, t, err)
		return bf, err
	}
	fo := opts.Options
	if fo.Tracer == nil {
		fo.Tracer = trace.FromContext(ctx)
	}
	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
		fo.Timer = timer
	}
	out, err := transpileCached(rel, content, fo, optsKey, opts.Cache)
	if err != nil {
		opts.Observer.end(PhaseTranspile, rel, t, err)
		return bf, err
	}
	if timer != nil && !out.Cached {
		out.Diagnostics = append(out.Diagnostics, TimingDiagnostic("file", rel, timer.Report()))
	}
	bf.Output = out
	var failure error
	if out.Err != nil {
		failure = out.Err
	}
	opts.Observer.end(PhaseTranspile, rel, t, failure)
	if !out.OK() {
		return bf, nil
	}

	bf.OutPath = filepath.Join(opts.OutDir, filepath.FromSlash(transpile.OutputName(rel)))
	t = opts.Observer.start(PhaseWrite, rel)
	err = writeOutput(bf.OutPath, out)
	opts.Observer.end(PhaseWrite, rel, t, err)
	return bf, err
}

func writeOutput(path string, out *FileOutput) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out.Code), 0o644); err != nil {
		return err
	}
	if out.Map != nil {
		return os.WriteFile(path+".map", out.Map, 0o644)
	}
	return nil
}
