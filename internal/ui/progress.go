// Package ui renders build progress in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"mesozoic/internal/buildpipeline"
)

// fileState is where one source file is in the build.
type fileState uint8

const (
	stateQueued fileState = iota
	stateTranspiling
	stateWriting
	stateDone
	stateCached
	stateFailed
)

var stateLabels = [...]string{
	stateQueued:      "queued",
	stateTranspiling: "transpiling",
	stateWriting:     "writing",
	stateDone:        "done",
	stateCached:      "cached",
	stateFailed:      "failed",
}

var stateColors = [...]lipgloss.Color{
	stateQueued:      "7",
	stateTranspiling: "6",
	stateWriting:     "6",
	stateDone:        "2",
	stateCached:      "4",
	stateFailed:      "1",
}

func (s fileState) String() string { return stateLabels[s] }

func (s fileState) finished() bool { return s >= stateDone }

// weight is the share of a file's work already behind it.
func (s fileState) weight() float64 {
	switch s {
	case stateTranspiling:
		return 0.3
	case stateWriting:
		return 0.8
	case stateDone, stateCached, stateFailed:
		return 1
	default:
		return 0
	}
}

type fileRow struct {
	path  string
	state fileState
	err   string
}

type progressModel struct {
	title   string
	events  <-chan buildpipeline.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []fileRow
	byPath  map[string]int
	phase   string
	width   int
	height  int
	done    bool
}

type eventMsg buildpipeline.Event
type doneMsg struct{}

// chrome is the number of lines View spends outside the file list.
const chrome = 7

// NewProgressModel returns a Bubble Tea model that follows build events until
// the channel is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 60

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for _, file := range files {
		m.add(file)
	}
	return m
}

func (m *progressModel) add(path string) int {
	m.rows = append(m.rows, fileRow{path: path})
	m.byPath[path] = len(m.rows) - 1
	return len(m.rows) - 1
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.apply(buildpipeline.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Width = max(msg.Width-4, 10)
		return m, nil
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

// next waits for one pipeline event.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) apply(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		if ev.Status == buildpipeline.StatusWorking {
			m.phase = string(ev.Stage)
		}
		return nil
	}
	idx, ok := m.byPath[ev.File]
	if !ok {
		// файлы, найденные после старта, появляются только через queued
		if ev.Status != buildpipeline.StatusQueued {
			return nil
		}
		idx = m.add(ev.File)
	}
	row := &m.rows[idx]
	switch ev.Status {
	case buildpipeline.StatusQueued:
		row.state = stateQueued
	case buildpipeline.StatusWorking:
		row.state = stateTranspiling
		if ev.Stage == buildpipeline.StageWrite {
			row.state = stateWriting
		}
	case buildpipeline.StatusDone:
		row.state = stateDone
	case buildpipeline.StatusCached:
		row.state = stateCached
	case buildpipeline.StatusError:
		row.state = stateFailed
		if ev.Err != nil {
			row.err = ev.Err.Error()
		}
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var total float64
	for _, row := range m.rows {
		total += row.state.weight()
	}
	return total / float64(len(m.rows))
}

func (m *progressModel) count(states ...fileState) int {
	n := 0
	for _, row := range m.rows {
		for _, s := range states {
			if row.state == s {
				n++
				break
			}
		}
	}
	return n
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	var b strings.Builder

	finished := m.count(stateDone, stateCached, stateFailed)
	header := fmt.Sprintf("%s [%d/%d]", m.title, finished, len(m.rows))
	if m.phase != "" && !m.done {
		header += " " + m.phase
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(header))
	b.WriteString("\n\n")

	visible, hidden := m.visibleRows()
	nameWidth := max(m.width-16, 20)
	for _, row := range visible {
		style := lipgloss.NewStyle().Foreground(stateColors[row.state])
		fmt.Fprintf(&b, "  %s %s\n", style.Render(fmt.Sprintf("%11s", row.state)), truncate(row.path, nameWidth))
		if row.err != "" {
			fmt.Fprintf(&b, "              %s\n", lipgloss.NewStyle().Faint(true).Render(truncate(row.err, nameWidth)))
		}
	}
	if hidden > 0 {
		fmt.Fprintf(&b, "  %11s %d more finished\n", "", hidden)
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	fmt.Fprintf(&b, "\n%d done, %d cached, %d failed\n",
		m.count(stateDone), m.count(stateCached), m.count(stateFailed))
	return b.String()
}

// visibleRows fits the list into the terminal height. Failed and unfinished
// files always stay; successful ones are folded into a counter first.
func (m *progressModel) visibleRows() ([]fileRow, int) {
	limit := m.height - chrome
	if m.height == 0 || len(m.rows) <= limit {
		return m.rows, 0
	}
	out := make([]fileRow, 0, limit)
	hidden := 0
	for _, row := range m.rows {
		if row.state == stateDone || row.state == stateCached {
			hidden++
			continue
		}
		out = append(out, row)
	}
	return out, hidden
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
