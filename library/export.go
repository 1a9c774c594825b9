package library

import (
	"fmt"
	"io"
	"os"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"beatmaker/sequencer"
)

// Export resolution: 96 ticks per quarter note, one step is a sixteenth
const (
	ExportPPQ      = 96
	ticksPerStep   = ExportPPQ / 4
	noteLength     = ticksPerStep / 2
	exportVelocity = 100
)

type smfEvent struct {
	tick uint32
	off  bool
	msg  gomidi.Message
}

// ExportSMF writes one bar of the pattern as a Standard MIDI File.
// channel is zero-based (9 is the GM drum channel).
func ExportSMF(w io.Writer, name string, grid sequencer.Grid, tempo int, kit sequencer.DrumKit, channel uint8) error {
	var events []smfEvent
	for step := 0; step < grid.Steps(); step++ {
		at := uint32(step * ticksPerStep)
		for row := 0; row < grid.Rows(); row++ {
			if !grid.Active(row, step) {
				continue
			}
			note := kit.Note(sequencer.Instrument(row))
			events = append(events,
				smfEvent{tick: at, msg: gomidi.NoteOn(channel, note, exportVelocity)},
				smfEvent{tick: at + noteLength, off: true, msg: gomidi.NoteOff(channel, note)},
			)
		}
	}
	// note-offs first when they share a tick with note-ons
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(name))
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(float64(sequencer.ClampTempo(tempo))))

	var last uint32
	for _, ev := range events {
		tr.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	barEnd := uint32(grid.Steps() * ticksPerStep)
	var tail uint32
	if barEnd > last {
		tail = barEnd - last
	}
	tr.Close(tail)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ExportPPQ)
	if err := s.Add(tr); err != nil {
		return fmt.Errorf("add track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("write smf: %w", err)
	}
	return nil
}

// ExportFile writes the pattern to path
func ExportFile(path, name string, grid sequencer.Grid, tempo int, kit sequencer.DrumKit, channel uint8) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ExportSMF(f, name, grid, tempo, kit, channel); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
