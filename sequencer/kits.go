package sequencer

// Instrument identifies one row of the grid
type Instrument int

const (
	Kick Instrument = iota
	Snare
	ClosedHat
	OpenHat
	Clap
	LowTom
	HighTom
	Crash
)

// NumInstruments is the fixed row count of every grid
const NumInstruments = 8

var instrumentNames = [NumInstruments]string{
	"Kick",
	"Snare",
	"Closed Hat",
	"Open Hat",
	"Clap",
	"Low Tom",
	"High Tom",
	"Crash",
}

func (i Instrument) String() string {
	if i < 0 || int(i) >= NumInstruments {
		return "Unknown"
	}
	return instrumentNames[i]
}

// Instruments returns all instruments in row order
func Instruments() []Instrument {
	out := make([]Instrument, NumInstruments)
	for i := range out {
		out[i] = Instrument(i)
	}
	return out
}

// InstrumentNames returns display names in row order
func InstrumentNames() []string {
	return instrumentNames[:]
}

// DrumKit maps instrument rows to MIDI notes
type DrumKit struct {
	Name  string
	Notes [NumInstruments]uint8
}

// Note returns the MIDI note for an instrument
func (k DrumKit) Note(i Instrument) uint8 {
	if i < 0 || int(i) >= NumInstruments {
		return k.Notes[0]
	}
	return k.Notes[i]
}

// Kits contains all available drum kit mappings
var Kits = map[string]DrumKit{
	"gm": {
		Name: "General MIDI",
		Notes: [NumInstruments]uint8{
			36, // Kick
			38, // Snare
			42, // Closed HH
			46, // Open HH
			39, // Clap
			41, // Low Tom
			45, // High Tom
			49, // Crash
		},
	},
	"rd8": {
		Name: "Behringer RD-8",
		Notes: [NumInstruments]uint8{
			36, // Kick (BD)
			40, // Snare (SD) - note: RD-8 uses 40, not 38!
			42, // Closed HH (CH)
			46, // Open HH (OH)
			39, // Clap (CP)
			45, // Low Tom (LT)
			50, // High Tom (HT)
			49, // Crash (CY)
		},
	},
	"tr8s": {
		Name: "Roland TR-8S",
		Notes: [NumInstruments]uint8{
			36,
			38,
			42,
			46,
			39,
			41,
			45,
			49,
		},
	},
	"er1": {
		Name: "Korg ER-1",
		Notes: [NumInstruments]uint8{
			36, // Perc Synth 1
			38, // Perc Synth 2
			42, // Closed HH (PCM)
			46, // Open HH (PCM)
			39, // Hand Clap (PCM)
			40, // Perc Synth 3
			41, // Perc Synth 4
			49, // Crash (PCM)
		},
	},
}

// KitNames returns the list of available kit names
func KitNames() []string {
	return []string{"gm", "rd8", "tr8s", "er1"}
}

// GetKit returns a kit by name, defaulting to GM if not found
func GetKit(name string) DrumKit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}

// DefaultKit is the default kit name
const DefaultKit = "gm"
