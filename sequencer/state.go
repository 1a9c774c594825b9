package sequencer

// Tempo bounds in BPM
const (
	MinTempo     = 60
	MaxTempo     = 180
	DefaultTempo = 120
)

// State is a point-in-time copy of the engine, safe to keep and render
type State struct {
	Grid    Grid `json:"grid"`
	Tempo   int  `json:"tempo"`
	Playing bool `json:"playing"`
	Step    int  `json:"-"` // -1 when stopped
}

// CurrentStep returns the playhead and whether there is one
func (s State) CurrentStep() (int, bool) {
	if !s.Playing || s.Step < 0 {
		return 0, false
	}
	return s.Step, true
}

// ClampTempo forces bpm into [MinTempo, MaxTempo]
func ClampTempo(bpm int) int {
	if bpm < MinTempo {
		return MinTempo
	}
	if bpm > MaxTempo {
		return MaxTempo
	}
	return bpm
}
