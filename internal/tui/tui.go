// Package tui provides a Bubble Tea terminal user interface for pdf-batch-joiner.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/pdf-batch-joiner/internal/batch"
	"github.com/handiism/pdf-batch-joiner/internal/config"
	ioutils "github.com/handiism/pdf-batch-joiner/internal/io"
	"github.com/handiism/pdf-batch-joiner/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	folderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StatePath State = iota
	StateSelect
	StateRunning
	StateComplete
	StateError
)

// Number of log lines kept on screen.
const maxLogs = 12

// Number of folder rows shown at once in the picker.
const pickerRows = 15

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   batch.Level
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	pathInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	err       error

	// Folder picker
	base     string
	folders  []string
	selected map[int]bool
	cursor   int

	// Run context
	ctx     context.Context
	cancel  context.CancelFunc
	manager *batch.Manager
	events  <-chan batch.Event

	// Run progress
	snapshot batch.Snapshot
	step     string
	eta      time.Duration
	finish   time.Time

	// Options
	quality      model.Quality
	deleteSource bool
	ocr          bool
	verbose      bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/scans"
	ti.SetValue(settings.BasePath)
	ti.Focus()
	ti.CharLimit = 1024
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	return Model{
		state:        StatePath,
		pathInput:    ti,
		spinner:      sp,
		progress:     prog,
		settings:     settings,
		logs:         make([]LogEntry, 0),
		selected:     make(map[int]bool),
		eta:          batch.UnknownETA,
		quality:      settings.QualityPreset(),
		deleteSource: settings.DeleteSource,
		ocr:          settings.EnableOCR,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// FoldersMsg is sent when the folder list of a base path was read.
	FoldersMsg struct {
		Base    string
		Folders []string
		Err     error
	}

	// EventMsg carries one event from the running batch.
	EventMsg struct {
		Event batch.Event
	}

	// DoneMsg is sent when the batch event channel was closed.
	DoneMsg struct{}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case FoldersMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			return m, nil
		}
		m.base = msg.Base
		m.folders = msg.Folders
		m.selected = make(map[int]bool)
		m.cursor = 0
		m.state = StateSelect
		m.pathInput.Blur()

	case EventMsg:
		m.applyEvent(msg.Event)
		cmds = append(cmds, waitForEvent(m.events))

	case DoneMsg:
		if m.manager != nil {
			m.snapshot = m.manager.Progress()
		}
		m.state = StateComplete
		cmds = append(cmds, m.progress.SetPercent(1))

	case TickMsg:
		// Update progress from manager
		if m.manager != nil && m.state == StateRunning {
			m.snapshot = m.manager.Progress()

			var percent float64
			if m.snapshot.Total > 0 {
				percent = float64(m.snapshot.Current) / float64(m.snapshot.Total)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StatePath {
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes key presses. handled is false for keys that should
// fall through to the text input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	key := msg.String()

	if key == "ctrl+c" {
		if m.manager != nil {
			m.manager.Stop()
		}
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit, true
	}

	switch m.state {
	case StatePath:
		switch key {
		case "esc":
			return m, tea.Quit, true
		case "enter":
			if path := strings.TrimSpace(m.pathInput.Value()); path != "" {
				return m, loadFolders(path), true
			}
			return m, nil, true
		}

	case StateSelect:
		switch key {
		case "esc":
			m.state = StatePath
			m.pathInput.Focus()
			return m, textinput.Blink, true
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.folders)-1 {
				m.cursor++
			}
		case " ":
			if len(m.folders) > 0 {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}
		case "a":
			all := len(m.selectedFolders()) < len(m.folders)
			for i := range m.folders {
				m.selected[i] = all
			}
		case "c":
			m.quality = nextQuality(m.quality)
		case "d":
			m.deleteSource = !m.deleteSource
		case "o":
			m.ocr = !m.ocr
		case "v":
			m.verbose = !m.verbose
		case "enter":
			if len(m.selectedFolders()) > 0 {
				return m.start()
			}
		}
		return m, nil, true

	case StateRunning:
		switch key {
		case "p", " ":
			if m.manager.IsPaused() {
				m.manager.Resume()
			} else {
				m.manager.Pause()
			}
			m.snapshot = m.manager.Progress()
		case "s", "esc":
			m.manager.Stop()
			m.snapshot = m.manager.Progress()
		}
		return m, nil, true

	case StateComplete, StateError:
		switch key {
		case "q", "esc":
			return m, tea.Quit, true
		case "r":
			// Reset for a new run
			m.state = StateSelect
			m.logs = nil
			m.err = nil
			m.manager = nil
			m.events = nil
			m.snapshot = batch.Snapshot{}
			m.step = ""
			m.eta = batch.UnknownETA
			if m.folders == nil {
				m.state = StatePath
				m.pathInput.Focus()
			}
			return m, m.progress.SetPercent(0), true
		}
		return m, nil, true
	}

	return m, nil, false
}

func (m Model) start() (tea.Model, tea.Cmd, bool) {
	settings := *m.settings
	settings.Quality = m.quality.String()
	settings.DeleteSource = m.deleteSource
	settings.EnableOCR = m.ocr

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.manager = batch.NewManager(&settings)

	events, err := m.manager.Start(m.ctx, batch.Request{
		Folders:      m.selectedFolders(),
		BasePath:     m.base,
		DeleteSource: m.deleteSource,
		Quality:      m.quality,
		EnableOCR:    m.ocr,
		OCRLanguage:  settings.OCRLanguage,
	})
	if err != nil {
		m.state = StateError
		m.err = err
		return m, nil, true
	}

	m.events = events
	m.state = StateRunning
	m.logs = nil
	return m, tea.Batch(waitForEvent(events), tickProgress(), m.spinner.Tick), true
}

func (m *Model) applyEvent(ev batch.Event) {
	switch ev.Kind {
	case batch.EventProgress:
		m.step = ev.Message
		m.eta = ev.ETA
		m.finish = ev.Finish
	case batch.EventLog:
		// Filter verbose messages if not in verbose mode
		if ev.Level == batch.LevelVerbose && !m.verbose {
			return
		}
		for _, line := range strings.Split(ev.Message, "\n") {
			m.logs = append(m.logs, LogEntry{Message: line, Level: ev.Level})
		}
		if len(m.logs) > maxLogs {
			m.logs = m.logs[len(m.logs)-maxLogs:]
		}
	}
}

func (m Model) selectedFolders() []string {
	var out []string
	for i, f := range m.folders {
		if m.selected[i] {
			out = append(out, f)
		}
	}
	return out
}

func nextQuality(q model.Quality) model.Quality {
	all := model.Qualities()
	for i, candidate := range all {
		if candidate == q {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// waitForEvent returns a command that delivers the next batch event.
func waitForEvent(events <-chan batch.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return DoneMsg{}
		}
		return EventMsg{Event: ev}
	}
}

// loadFolders lists the subdirectories of path.
func loadFolders(path string) tea.Cmd {
	return func() tea.Msg {
		base, folders, err := batch.ListFolders(path)
		return FoldersMsg{Base: base, Folders: folders, Err: err}
	}
}

// tickProgress returns a command to tick progress updates.
func tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("📄 PDF Batch Joiner"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Merge the PDFs of each folder into one document"))
	b.WriteString("\n\n")

	switch m.state {
	case StatePath:
		b.WriteString(m.viewPath())
	case StateSelect:
		b.WriteString(m.viewSelect())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewPath() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Base directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.pathInput.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewSelect() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Folders in %s:", m.base)))
	b.WriteString("\n\n")

	if len(m.folders) == 0 {
		b.WriteString(warningStyle.Render("  No subfolders found"))
		b.WriteString("\n")
	}

	start := 0
	if m.cursor >= pickerRows {
		start = m.cursor - pickerRows + 1
	}
	end := min(start+pickerRows, len(m.folders))
	for i := start; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "› "
		}
		line := fmt.Sprintf("%s%s %s", cursor, checkbox(m.selected[i]), filepath.Base(m.folders[i]))
		if i == m.cursor {
			line = folderStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Quality: %s (c)\n", m.quality.Description()))
	b.WriteString(fmt.Sprintf("  %s Delete source files after merge (d)\n", checkbox(m.deleteSource)))
	b.WriteString(fmt.Sprintf("  %s OCR with language %s (o)\n", checkbox(m.ocr), m.settings.OCRLanguage))
	b.WriteString(fmt.Sprintf("  %s Verbose/debug output (v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d folder(s) selected", len(m.selectedFolders()), len(m.folders))))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	status := "Processing"
	switch m.snapshot.State {
	case batch.StateCounting:
		status = "Counting files"
	case batch.StatePaused:
		status = "Paused"
	case batch.StateStopping:
		status = "Stopping after current folder"
	}
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(status))
	if m.snapshot.Folder != "" {
		b.WriteString(folderStyle.Render("  " + m.snapshot.Folder))
	}
	b.WriteString("\n\n")

	// Progress bar
	var percent float64
	if m.snapshot.Total > 0 {
		percent = float64(m.snapshot.Current) / float64(m.snapshot.Total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	finish := "--:--:--"
	if m.eta != batch.UnknownETA {
		finish = m.finish.Format("15:04:05")
	}
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Files: %d/%d | ETA: %s | Done at: %s",
		m.snapshot.Current,
		m.snapshot.Total,
		batch.FormatETA(m.eta),
		finish,
	)))
	b.WriteString("\n")
	if m.step != "" {
		b.WriteString(dimStyle.Render(m.step))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Logs
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	in, out := m.snapshot.InputBytes, m.snapshot.OutputBytes
	box := boxStyle.Render(fmt.Sprintf(
		"✨ Batch Complete!\n\n"+
			"Files: %d/%d\n"+
			"Input: %s\n"+
			"Output: %s\n"+
			"Size: %s",
		m.snapshot.Current,
		m.snapshot.Total,
		ioutils.FormatBytes(in),
		ioutils.FormatBytes(out),
		ioutils.SizeDelta(in, out),
	))
	b.WriteString(box)
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case batch.LevelError:
			style = errorStyle
			prefix = "✗"
		case batch.LevelWarning:
			style = warningStyle
			prefix = "!"
		case batch.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case batch.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StatePath:
		return "enter: list folders • esc: quit"
	case StateSelect:
		return "↑/↓: move • space: select • a: all • c: quality • d: delete • o: OCR • v: verbose • enter: start • esc: back"
	case StateRunning:
		return "p: pause/resume • s: stop after current folder • ctrl+c: quit"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
