package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"beatmaker/pattern"
	"beatmaker/sequencer"
	"beatmaker/widgets"
)

const (
	labelWidth   = 11
	cellWidth    = 2
	sidebarWidth = 30
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	state := m.Engine.Snapshot()
	step, playing := state.CurrentStep()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	playState := "STOP"
	if playing {
		playState = "PLAY"
	}
	stepLabel := "--"
	if playing {
		stepLabel = fmt.Sprintf("%02d", step+1)
	}
	header := headerStyle.Render(fmt.Sprintf("beatmaker  %s", m.Session.Title())) +
		dimStyle.Render(fmt.Sprintf("  %s  %3dbpm  step:%s", playState, state.Tempo, stepLabel))

	tempo := fmt.Sprintf("%-*s", labelWidth, "Tempo") +
		widgets.RenderSlider(state.Tempo, sequencer.MinTempo, sequencer.MaxTempo, 32, m.Theme.Accent(), m.Theme.Muted())

	main := lipgloss.JoinVertical(lipgloss.Left,
		tempo,
		"",
		m.renderGrid(state),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, main, "    ", m.renderSidebar())

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(body)
	out.WriteString("\n\n")

	switch {
	case m.confirmMode:
		out.WriteString(fmt.Sprintf("%s  [y] Yes  [n] No", m.confirmMsg))
	case m.inputMode:
		out.WriteString(fmt.Sprintf("Beat title: %s_   [enter] save  [esc] cancel", m.inputBuffer))
	default:
		out.WriteString(dimStyle.Render("hjkl:move  space:toggle  p:play  +/-:tempo  c:clear  n:new  s:save  e:export  tab:library  q:quit"))
	}

	if m.status != "" {
		out.WriteString("\n")
		out.WriteString(dimStyle.Render(m.status))
	}

	return out.String()
}

func (m Model) renderGrid(state sequencer.State) string {
	step, playing := state.CurrentStep()
	names := sequencer.InstrumentNames()
	sym := m.Theme.Symbols
	rows := state.Grid.Rows()

	labelStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	mutedStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)
	playheadStyle := lipgloss.NewStyle().Foreground(m.Theme.Success()).Bold(true)

	var lines []string
	for r, row := range state.Grid {
		var line strings.Builder
		name := ""
		if r < len(names) {
			name = names[r]
		}
		line.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, name)))

		activeStyle := lipgloss.NewStyle().Foreground(m.Theme.Row(r, rows))
		for s, on := range row {
			if s%4 == 0 && s > 0 {
				line.WriteString(" ")
			}
			isCursor := m.focus == FocusGrid && r == m.cursorRow && s == m.cursorStep
			isCurrent := playing && s == step

			var char rune
			style := mutedStyle
			switch {
			case isCursor && on:
				char, style = sym.CursorActive, cursorStyle
			case isCursor:
				char, style = sym.CursorEmpty, cursorStyle
			case isCurrent && on:
				char, style = sym.StepHit, playheadStyle
			case isCurrent:
				char, style = sym.StepPlayhead, playheadStyle
			case on:
				char, style = sym.StepActive, activeStyle
			case s%4 == 0:
				char = sym.StepBeat
			default:
				char = sym.StepEmpty
			}
			line.WriteString(style.Render(string(char)))
			line.WriteString(" ")
		}
		lines = append(lines, line.String())
	}

	current := -1
	if playing {
		current = step
	}
	lines = append(lines, strings.Repeat(" ", labelWidth)+
		widgets.RenderStepNumbers(state.Grid.Steps(), current, cellWidth, m.Theme.Muted(), m.Theme.Success()))

	return strings.Join(lines, "\n")
}

func (m Model) renderSidebar() string {
	titleStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	selStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor()).Bold(true)
	itemStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())

	item := func(idx int, text string) string {
		text = truncate(text, sidebarWidth-2)
		if idx == m.sel && m.focus == FocusSidebar {
			return selStyle.Render("> " + text)
		}
		if idx == m.sel {
			return itemStyle.Render("* " + text)
		}
		return itemStyle.Render("  " + text)
	}

	var lines []string
	lines = append(lines, titleStyle.Render("Lessons"))
	if len(m.lessons) == 0 {
		lines = append(lines, dimStyle.Render("  (no lessons yet)"))
	}
	for i, l := range m.lessons {
		lines = append(lines, item(i, fmt.Sprintf("%s [%s]", l.Title, difficultyTag(l.Difficulty))))
	}

	lines = append(lines, "", titleStyle.Render("My Beats"))
	if len(m.beats) == 0 {
		lines = append(lines, dimStyle.Render("  (no saved beats)"))
	}
	for i, b := range m.beats {
		text := fmt.Sprintf("%s %dbpm", b.Title, b.Tempo)
		if b.ID == m.Session.BeatID() {
			text += " ♪"
		}
		lines = append(lines, item(len(m.lessons)+i, text))
	}

	if m.focus == FocusSidebar {
		lines = append(lines, "", dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{
			{Keys: []widgets.KeyBinding{
				{Key: "j / k", Desc: "navigate"},
				{Key: "enter", Desc: "load"},
				{Key: "d", Desc: "delete beat"},
				{Key: "esc", Desc: "back to grid"},
			}},
		})))
	}

	return lipgloss.NewStyle().Width(sidebarWidth).Render(strings.Join(lines, "\n"))
}

func difficultyTag(d pattern.Difficulty) string {
	switch d {
	case pattern.Beginner:
		return "easy"
	case pattern.Intermediate:
		return "mid"
	case pattern.Advanced:
		return "hard"
	default:
		return string(d)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
