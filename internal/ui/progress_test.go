package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mesozoic/internal/buildpipeline"
)

func TestProgressModelTracksFiles(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("build app", []string{"a.ts"}, events).(*progressModel)

	send := func(ev buildpipeline.Event) {
		t.Helper()
		m.Update(eventMsg(ev))
	}
	send(buildpipeline.Event{File: "b.tsx", Stage: buildpipeline.StageTranspile, Status: buildpipeline.StatusQueued})
	send(buildpipeline.Event{File: "a.ts", Stage: buildpipeline.StageTranspile, Status: buildpipeline.StatusWorking})
	send(buildpipeline.Event{File: "b.tsx", Stage: buildpipeline.StageTranspile, Status: buildpipeline.StatusError, Err: errors.New("syntax")})
	send(buildpipeline.Event{File: "ghost.ts", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone})

	if len(m.rows) != 2 {
		t.Fatalf("rows = %+v", m.rows)
	}
	if m.rows[0].state != stateTranspiling || m.rows[1].state != stateFailed || m.rows[1].err != "syntax" {
		t.Fatalf("rows = %+v", m.rows)
	}
	if got := m.percent(); got < 0.64 || got > 0.66 {
		t.Fatalf("percent = %v", got)
	}

	send(buildpipeline.Event{File: "a.ts", Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusCached})
	view := m.View()
	for _, want := range []string{"build app [2/2]", "cached", "syntax", "0 done, 1 cached, 1 failed"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestProgressModelFoldsFinishedRows(t *testing.T) {
	files := []string{"a.ts", "b.ts", "c.ts", "d.ts"}
	m := NewProgressModel("build", files, nil).(*progressModel)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: chrome + 2})
	for _, f := range files[:3] {
		m.Update(eventMsg(buildpipeline.Event{File: f, Stage: buildpipeline.StageWrite, Status: buildpipeline.StatusDone}))
	}

	rows, hidden := m.visibleRows()
	if hidden != 3 || len(rows) != 1 || rows[0].path != "d.ts" {
		t.Fatalf("rows = %+v hidden = %d", rows, hidden)
	}
	if !strings.Contains(m.View(), "3 more finished") {
		t.Fatalf("view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("src/components/very-long-name.tsx", 12); got != "src/co..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("a.ts", 12); got != "a.ts" {
		t.Fatalf("truncate = %q", got)
	}
}
