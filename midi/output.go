package midi

import (
	"errors"
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"beatmaker/debug"
	"beatmaker/sequencer"
)

// ErrNoPort is returned when no output port is configured
var ErrNoPort = errors.New("no MIDI output port configured")

// SendFunc delivers one message, as returned by gomidi.SendTo
type SendFunc func(gomidi.Message) error

// Output turns sequencer triggers into drum notes on one port
type Output struct {
	mu       sync.Mutex
	send     SendFunc
	port     string
	channel  uint8
	kit      sequencer.DrumKit
	velocity uint8
	sent     []Event // last messages, kept for the UI
}

// NewOutput wraps a sender. channel is zero-based.
func NewOutput(send SendFunc, port string, channel uint8, kit sequencer.DrumKit) *Output {
	return &Output{
		send:     send,
		port:     port,
		channel:  channel & 0x0F,
		kit:      kit,
		velocity: DefaultVelocity,
	}
}

// Open finds the named output port and connects to it
func Open(portName string, channel uint8, kit sequencer.DrumKit) (*Output, error) {
	if portName == "" {
		return nil, ErrNoPort
	}
	out, err := gomidi.FindOutPort(portName)
	if err != nil {
		return nil, fmt.Errorf("find port %q: %w", portName, err)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open port %q: %w", portName, err)
	}
	debug.Log("midi", "opened %s ch=%d kit=%s", portName, channel+1, kit.Name)
	return NewOutput(send, portName, channel, kit), nil
}

// Port returns the port name
func (o *Output) Port() string {
	return o.port
}

// SetKit changes the note mapping
func (o *Output) SetKit(kit sequencer.DrumKit) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.kit = kit
}

// Trigger implements sequencer.Sink
func (o *Output) Trigger(t sequencer.Trigger) {
	o.hit(t.Instrument)
}

// Preview sounds one instrument right away
func (o *Output) Preview(i sequencer.Instrument) {
	o.hit(i)
}

// Drum machines ignore note length, so the note-off follows immediately
func (o *Output) hit(i sequencer.Instrument) {
	o.mu.Lock()
	defer o.mu.Unlock()

	note := o.kit.Note(i)
	on := Event{Type: NoteOn, Channel: o.channel, Note: note, Velocity: o.velocity}
	off := Event{Type: NoteOff, Channel: o.channel, Note: note}
	o.dispatch(on)
	o.dispatch(off)
}

func (o *Output) dispatch(evt Event) {
	var msg gomidi.Message
	switch evt.Type {
	case NoteOn:
		msg = gomidi.NoteOn(evt.Channel, evt.Note, evt.Velocity)
	case NoteOff:
		msg = gomidi.NoteOff(evt.Channel, evt.Note)
	default:
		return
	}
	if err := o.send(msg); err != nil {
		debug.Log("midi", "send %s: %v", msg, err)
		return
	}
	o.sent = append(o.sent, evt)
	if len(o.sent) > 32 {
		o.sent = o.sent[len(o.sent)-32:]
	}
}

// Sent returns recently sent events, oldest first
func (o *Output) Sent() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Event(nil), o.sent...)
}

// Ports lists output port names. Some backends hang while enumerating, so
// the call gives up after three seconds.
func Ports() ([]string, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		names := make([]string, len(outs))
		for i, p := range outs {
			names[i] = p.String()
		}
		return names, nil
	case <-time.After(3 * time.Second):
		return nil, errors.New("timed out listing MIDI ports")
	}
}
