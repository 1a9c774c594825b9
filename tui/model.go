package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"beatmaker/debug"
	"beatmaker/library"
	"beatmaker/pattern"
	"beatmaker/sequencer"
	"beatmaker/theme"
)

// Focus is which pane receives keys
type Focus int

const (
	FocusGrid Focus = iota
	FocusSidebar
)

// Previewer sounds an instrument immediately (MIDI output)
type Previewer interface {
	Preview(i sequencer.Instrument)
}

type Model struct {
	Engine    *sequencer.Engine
	Session   *pattern.Session
	Theme     *theme.Theme
	Previewer Previewer // may be nil

	// export settings
	Kit       sequencer.DrumKit
	Channel   uint8
	ExportDir string

	ctx context.Context

	cursorRow  int
	cursorStep int
	focus      Focus

	lessons []pattern.Lesson
	beats   []pattern.Beat
	sel     int // index into lessons followed by beats

	// text input for a new beat title
	inputMode   bool
	inputBuffer string

	// delete confirmation
	confirmMode bool
	confirmMsg  string
	confirmID   string

	status   string
	quitting bool
}

type UpdateMsg struct{}

type libraryMsg struct {
	lessons []pattern.Lesson
	beats   []pattern.Beat
	err     error
}

func NewModel(engine *sequencer.Engine, session *pattern.Session, th *theme.Theme) Model {
	return Model{
		Engine:  engine,
		Session: session,
		Theme:   th,
		Kit:     sequencer.GetKit(sequencer.DefaultKit),
		Channel: 9,
		ctx:     context.Background(),
	}
}

func ListenForUpdates(engine *sequencer.Engine) tea.Cmd {
	return func() tea.Msg {
		<-engine.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) refresh() tea.Cmd {
	return func() tea.Msg {
		lessons, err := m.Session.Lessons(m.ctx)
		if err != nil {
			return libraryMsg{err: err}
		}
		beats, err := m.Session.Beats(m.ctx)
		return libraryMsg{lessons: lessons, beats: beats, err: err}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Engine),
		m.refresh(),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case UpdateMsg:
		return m, ListenForUpdates(m.Engine)

	case libraryMsg:
		if msg.err != nil {
			m.status = "library: " + msg.err.Error()
			debug.Log("tui", "refresh: %v", msg.err)
			return m, nil
		}
		m.lessons = msg.lessons
		m.beats = msg.beats
		if n := m.sidebarLen(); m.sel >= n {
			m.sel = max(0, n-1)
		}
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	if m.confirmMode {
		return m.handleConfirm(key)
	}
	if m.inputMode {
		return m.handleInput(key)
	}

	// Global keys
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		m.Engine.Stop()
		return m, tea.Quit
	case "p":
		m.Engine.TogglePlay()
		return m, nil
	case "+", "=":
		m.Engine.SetTempo(m.Engine.Tempo() + 5)
		return m, nil
	case "-", "_":
		m.Engine.SetTempo(m.Engine.Tempo() - 5)
		return m, nil
	case "]":
		m.Engine.SetTempo(m.Engine.Tempo() + 1)
		return m, nil
	case "[":
		m.Engine.SetTempo(m.Engine.Tempo() - 1)
		return m, nil
	case "tab":
		if m.focus == FocusGrid {
			m.focus = FocusSidebar
		} else {
			m.focus = FocusGrid
		}
		return m, nil
	case "s":
		return m.save()
	case "e":
		return m.export()
	}

	if m.focus == FocusSidebar {
		return m.handleSidebarKey(key)
	}
	return m.handleGridKey(key)
}

func (m Model) handleGridKey(key string) (tea.Model, tea.Cmd) {
	rows, steps := m.Engine.Rows(), m.Engine.Steps()
	switch key {
	case "h", "left":
		if m.cursorStep > 0 {
			m.cursorStep--
		}
	case "l", "right":
		if m.cursorStep < steps-1 {
			m.cursorStep++
		}
	case "k", "up":
		if m.cursorRow > 0 {
			m.cursorRow--
		}
	case "j", "down":
		if m.cursorRow < rows-1 {
			m.cursorRow++
		}
	case " ", "enter":
		if m.Engine.ToggleStep(m.cursorRow, m.cursorStep) &&
			m.Engine.Grid().Active(m.cursorRow, m.cursorStep) &&
			m.Previewer != nil && !m.Engine.Playing() {
			m.Previewer.Preview(sequencer.Instrument(m.cursorRow))
		}
	case "c":
		m.Engine.ClearGrid()
		m.status = "cleared"
	case "n":
		m.Session.New()
		m.status = "new beat"
	}
	return m, nil
}

func (m Model) handleSidebarKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		if m.sel < m.sidebarLen()-1 {
			m.sel++
		}
	case "k", "up":
		if m.sel > 0 {
			m.sel--
		}
	case "enter", " ":
		rec, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.Session.Load(rec) {
			m.status = "loaded " + m.Session.Title()
		} else {
			m.status = fmt.Sprintf("%q has no pattern", rec.Title())
		}
	case "d":
		rec, ok := m.selected()
		if !ok || rec.Kind != pattern.KindBeat {
			return m, nil
		}
		m.confirmMode = true
		m.confirmID = rec.ID()
		m.confirmMsg = fmt.Sprintf("Delete beat '%s'?", rec.Title())
	case "esc":
		m.focus = FocusGrid
	}
	return m, nil
}

func (m Model) handleConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		id := m.confirmID
		m.confirmMode = false
		m.confirmID = ""
		if err := m.Session.Delete(m.ctx, id); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = "deleted"
		return m, m.refresh()
	case "n", "N", "esc", "q":
		m.confirmMode = false
		m.confirmID = ""
	}
	return m, nil
}

func (m Model) handleInput(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter":
		title := strings.TrimSpace(m.inputBuffer)
		m.inputMode = false
		m.inputBuffer = ""
		if title == "" {
			m.status = "save cancelled"
			return m, nil
		}
		return m.commitSave(title)
	case "esc":
		m.inputMode = false
		m.inputBuffer = ""
	case "backspace":
		if len(m.inputBuffer) > 0 {
			r := []rune(m.inputBuffer)
			m.inputBuffer = string(r[:len(r)-1])
		}
	default:
		// Only accept printable characters
		if len(key) == 1 && key[0] >= 32 && key[0] < 127 {
			m.inputBuffer += key
		}
	}
	return m, nil
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if !m.Session.Saved() {
		m.inputMode = true
		m.inputBuffer = ""
		return m, nil
	}
	return m.commitSave("")
}

func (m Model) commitSave(title string) (tea.Model, tea.Cmd) {
	b, err := m.Session.Save(m.ctx, title)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = "saved " + b.Title
	return m, m.refresh()
}

func (m Model) export() (tea.Model, tea.Cmd) {
	state := m.Engine.Snapshot()
	title := m.Session.Title()
	path := filepath.Join(m.ExportDir, slug(title)+".mid")
	if err := library.ExportFile(path, title, state.Grid, state.Tempo, m.Kit, m.Channel); err != nil {
		m.status = "export: " + err.Error()
		return m, nil
	}
	m.status = "exported " + path
	return m, nil
}

func (m Model) sidebarLen() int {
	return len(m.lessons) + len(m.beats)
}

func (m Model) selected() (pattern.Record, bool) {
	switch {
	case m.sel < 0:
		return pattern.Record{}, false
	case m.sel < len(m.lessons):
		return pattern.FromLesson(m.lessons[m.sel]), true
	case m.sel < m.sidebarLen():
		return pattern.FromBeat(m.beats[m.sel-len(m.lessons)]), true
	}
	return pattern.Record{}, false
}

// slug makes a title safe for a file name
func slug(title string) string {
	title = strings.TrimPrefix(title, "Lesson: ")
	var b strings.Builder
	for _, c := range strings.ToLower(title) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == ' ' || c == '-' || c == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "beat"
	}
	return b.String()
}
