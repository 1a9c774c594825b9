package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"beatmaker/config"
	"beatmaker/debug"
	"beatmaker/library"
	"beatmaker/midi"
	"beatmaker/pattern"
	"beatmaker/sequencer"
	"beatmaker/theme"
	"beatmaker/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DebugEnabled() {
		if err := debug.Enable(""); err != nil {
			return err
		}
		defer debug.Disable()
	}

	// Load theme
	palette, err := theme.LoadPalette(cfg.Palette)
	if err != nil {
		return fmt.Errorf("load palette: %w", err)
	}
	th := theme.New(palette)

	root, err := cfg.Library()
	if err != nil {
		return err
	}
	beats, err := library.NewBeatStore(root)
	if err != nil {
		return err
	}
	lessons, err := library.LoadLessons(cfg.LessonsFile)
	if err != nil {
		return err
	}

	engine := sequencer.NewEngine()
	defer engine.Close()
	engine.SetTempo(cfg.UI.LastTempo)

	kit := sequencer.GetKit(cfg.Kit)
	session := pattern.NewSession(engine, beats, lessons)

	m := tui.NewModel(engine, session, th)
	m.Kit = kit
	m.Channel = cfg.MIDIChannel()
	m.ExportDir, _ = os.Getwd()

	// MIDI output is optional: without a port the grid still plays silently
	out, err := midi.Open(cfg.MIDI.PortName, cfg.MIDIChannel(), kit)
	switch {
	case err == nil:
		engine.SetSink(out)
		m.Previewer = out
		fmt.Printf("MIDI out: %s (channel %d, %s)\n", out.Port(), cfg.MIDI.Channel, kit.Name)
	case errors.Is(err, midi.ErrNoPort):
		fmt.Println("No MIDI output configured - set midi.portName in the config (beatctl ports lists them)")
	default:
		fmt.Printf("MIDI output unavailable: %v\n", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	cfg.UI.LastTempo = engine.Tempo()
	if err := cfg.Save(); err != nil {
		debug.Log("config", "save: %v", err)
	}
	return nil
}
