// Package buildpipeline runs a project build and reports per-file progress.
package buildpipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mesozoic/internal/driver"
)

// Request configures a build.
type Request struct {
	driver.BuildOptions
	Progress ProgressSink
}

// Result captures the build outcome and stage timings.
type Result struct {
	Build   *driver.BuildResult
	Files   []string
	Timings *Timings
}

// Run discovers the files, announces them as queued and builds them.
func Run(ctx context.Context, req *Request) (Result, error) {
	result := Result{Timings: &Timings{}}
	if req == nil {
		return result, fmt.Errorf("missing build request")
	}
	opts := req.BuildOptions

	began := time.Now()
	emitStage(req.Progress, "", StageDiscover, StatusWorking, nil, 0)
	files, err := driver.Discover(opts)
	result.Timings.Add(StageDiscover, time.Since(began))
	if err != nil {
		emitStage(req.Progress, "", StageDiscover, StatusError, err, 0)
		return result, err
	}
	result.Files = files
	emitStage(req.Progress, "", StageDiscover, StatusDone, nil, time.Since(began))
	for _, file := range files {
		emitStage(req.Progress, file, StageTranspile, StatusQueued, nil, 0)
	}

	// дальше файлы уже известны, повторный обход не нужен
	opts.Files = files
	phases := &phaseObserver{sink: req.Progress, timings: result.Timings, next: opts.Observer}
	opts.Observer = phases.OnPhase

	emitStage(req.Progress, "", StageTranspile, StatusWorking, nil, 0)
	res, err := driver.Build(ctx, opts)
	result.Build = res
	if err != nil {
		emitStage(req.Progress, "", StageTranspile, StatusError, err, 0)
		return result, err
	}
	for _, f := range res.Files {
		if f.Output != nil && f.Output.Cached && f.Output.OK() {
			emitStage(req.Progress, f.Rel, StageWrite, StatusCached, nil, 0)
		}
	}
	emitStage(req.Progress, "", StageTranspile, StatusDone, nil, res.Elapsed)
	return result, nil
}

// phaseObserver turns driver phase events into progress events.
type phaseObserver struct {
	mu      sync.Mutex
	sink    ProgressSink
	timings *Timings
	next    driver.PhaseObserver
}

// OnPhase updates the progress UI based on build phase events.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	if p.next != nil {
		p.mu.Lock()
		p.next(ev)
		p.mu.Unlock()
	}
	if ev.File == "" {
		return
	}
	stage := Stage(ev.Name)
	if ev.Status == driver.PhaseStart {
		emitStage(p.sink, ev.File, stage, StatusWorking, nil, 0)
		return
	}
	p.timings.Add(stage, ev.Elapsed)
	switch {
	case ev.Err != nil:
		emitStage(p.sink, ev.File, stage, StatusError, ev.Err, ev.Elapsed)
	case stage == StageWrite:
		emitStage(p.sink, ev.File, stage, StatusDone, nil, ev.Elapsed)
	}
}

func emitStage(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
