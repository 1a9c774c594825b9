package midi

// MIDI message types
const (
	NoteOn  uint8 = 0x90
	NoteOff uint8 = 0x80
)

// DrumChannel is the zero-based General MIDI percussion channel (10)
const DrumChannel uint8 = 9

// DefaultVelocity for triggered notes
const DefaultVelocity uint8 = 100

// Event is a note message sent to the output port
type Event struct {
	Type     uint8 // NoteOn, NoteOff
	Channel  uint8 // zero-based
	Note     uint8
	Velocity uint8
}
