package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"beatmaker/config"
	"beatmaker/debug"
	"beatmaker/library"
	"beatmaker/midi"
	"beatmaker/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fail(err)
	}
	if cfg.DebugEnabled() {
		if err := debug.Enable(""); err != nil {
			fail(err)
		}
		defer debug.Disable()
	}

	ctx := context.Background()
	args := os.Args[2:]

	switch os.Args[1] {
	case "ports":
		err = listPorts()
	case "lessons":
		err = listLessons(ctx, cfg)
	case "beats":
		err = listBeats(ctx, cfg)
	case "export":
		if len(args) != 2 {
			usage()
			return
		}
		err = export(ctx, cfg, args[0], args[1])
	case "play":
		if len(args) < 1 {
			usage()
			return
		}
		bars := 2
		if len(args) > 1 {
			if bars, err = strconv.Atoi(args[1]); err != nil || bars < 1 {
				fail(fmt.Errorf("bad bar count %q", args[1]))
			}
		}
		err = play(ctx, cfg, args[0], bars)
	default:
		usage()
		return
	}
	if err != nil {
		fail(err)
	}
}

func usage() {
	fmt.Println("beatctl - beatmaker library tools")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  ports                  - List MIDI output ports")
	fmt.Println("  lessons                - List lessons")
	fmt.Println("  beats                  - List saved beats")
	fmt.Println("  export <id> <file>     - Write a beat or lesson as a MIDI file")
	fmt.Println("  play <lesson-id> [bars] - Play a lesson on the configured port")
}

func fail(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}

func listPorts() error {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")
	ports, err := midi.Ports()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("  (none)")
	}
	for i, p := range ports {
		fmt.Printf("  [%d] %s\n", i, p)
	}
	return nil
}

func listLessons(ctx context.Context, cfg *config.Config) error {
	catalog, err := library.LoadLessons(cfg.LessonsFile)
	if err != nil {
		return err
	}
	lessons, err := catalog.List(ctx)
	if err != nil {
		return err
	}
	for _, l := range lessons {
		fmt.Printf("%-20s %-13s %3dbpm  %s\n", l.ID, l.Difficulty, l.Tempo, l.Title)
	}
	return nil
}

func beatStore(cfg *config.Config) (*library.BeatStore, error) {
	root, err := cfg.Library()
	if err != nil {
		return nil, err
	}
	return library.NewBeatStore(root)
}

func listBeats(ctx context.Context, cfg *config.Config) error {
	store, err := beatStore(cfg)
	if err != nil {
		return err
	}
	beats, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(beats) == 0 {
		fmt.Println("(no saved beats)")
	}
	for _, b := range beats {
		fmt.Printf("%s  %3dbpm  %s  %s\n", b.ID, b.Tempo, b.UpdatedAt.Format(time.DateTime), b.Title)
	}
	return nil
}

// export looks the id up as a saved beat first, then as a lesson
func export(ctx context.Context, cfg *config.Config, id, path string) error {
	kit := sequencer.GetKit(cfg.Kit)

	store, err := beatStore(cfg)
	if err != nil {
		return err
	}
	if b, err := store.Get(ctx, id); err == nil {
		grid := sequencer.Normalize(b.Data.Grid, sequencer.NumInstruments, sequencer.NumSteps)
		if err := library.ExportFile(path, b.Title, grid, sequencer.ClampTempo(b.Tempo), kit, cfg.MIDIChannel()); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%s)\n", path, b.Title)
		return nil
	}

	catalog, err := library.LoadLessons(cfg.LessonsFile)
	if err != nil {
		return err
	}
	l, err := catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	grid := sequencer.Normalize(l.Data.Grid, sequencer.NumInstruments, sequencer.NumSteps)
	if err := library.ExportFile(path, l.Title, grid, sequencer.ClampTempo(l.Tempo), kit, cfg.MIDIChannel()); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s)\n", path, l.Title)
	return nil
}

func play(ctx context.Context, cfg *config.Config, id string, bars int) error {
	catalog, err := library.LoadLessons(cfg.LessonsFile)
	if err != nil {
		return err
	}
	l, err := catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	kit := sequencer.GetKit(cfg.Kit)
	out, err := midi.Open(cfg.MIDI.PortName, cfg.MIDIChannel(), kit)
	if err != nil {
		return err
	}

	engine := sequencer.NewEngine(sequencer.WithSink(out))
	defer engine.Close()
	if !engine.LoadGrid(l.Data.Grid, l.Tempo) {
		return fmt.Errorf("lesson %q has no pattern", id)
	}

	fmt.Printf("Playing %s at %dbpm on %s for %d bars\n", l.Title, engine.Tempo(), out.Port(), bars)
	engine.Play()
	time.Sleep(time.Duration(bars*engine.Steps()) * engine.Interval())
	engine.Stop()
	return nil
}
