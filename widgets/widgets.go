package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// RenderSlider draws value within [min, max] as a fixed-width bar
func RenderSlider(value, min, max, width int, fill, track lipgloss.Color) string {
	if width < 1 || max <= min {
		return ""
	}
	if value < min {
		value = min
	}
	if value > max {
		value = max
	}
	filled := (value - min) * width / (max - min)
	if filled == width {
		filled = width - 1
	}
	left := lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("━", filled))
	knob := lipgloss.NewStyle().Foreground(fill).Bold(true).Render("●")
	right := lipgloss.NewStyle().Foreground(track).Render(strings.Repeat("─", width-filled-1))
	return left + knob + right
}

// RenderStepNumbers labels step columns 1..n, highlighting the playhead.
// current < 0 means no playhead.
func RenderStepNumbers(n, current int, cell int, dim, hi lipgloss.Color) string {
	var out strings.Builder
	dimStyle := lipgloss.NewStyle().Foreground(dim)
	hiStyle := lipgloss.NewStyle().Foreground(hi).Bold(true)
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("%-*d", cell, i+1)
		if i%4 == 0 && i > 0 {
			out.WriteString(" ")
		}
		if i == current {
			out.WriteString(hiStyle.Render(label))
		} else {
			out.WriteString(dimStyle.Render(label))
		}
	}
	return out.String()
}
