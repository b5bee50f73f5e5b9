package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"mesozoic/internal/buildpipeline"
)

var timedStages = []struct {
	stage buildpipeline.Stage
	label string
}{
	{buildpipeline.StageDiscover, "discover"},
	{buildpipeline.StageTranspile, "transpile"},
	{buildpipeline.StageWrite, "write"},
}

// printStageTimings prints the stage durations summed over all files.
func printStageTimings(out io.Writer, timings *buildpipeline.Timings) {
	if out == nil || timings == nil {
		return
	}
	fmt.Fprintln(out, renderStageTimings(timings))
}

func renderStageTimings(timings *buildpipeline.Timings) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight}})
	tbl.AppendHeader(table.Row{"stage", "ms"})

	var seen []buildpipeline.Stage
	for _, st := range timedStages {
		if !timings.Has(st.stage) {
			continue
		}
		seen = append(seen, st.stage)
		tbl.AppendRow(table.Row{st.label, fmt.Sprintf("%.1f", toMillis(timings.Duration(st.stage)))})
	}
	tbl.AppendFooter(table.Row{"total", fmt.Sprintf("%.1f", toMillis(timings.Sum(seen...)))})
	return tbl.Render()
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
