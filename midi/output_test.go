package midi

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"

	"beatmaker/sequencer"
)

type capture struct {
	msgs []gomidi.Message
	err  error
}

func (c *capture) send(m gomidi.Message) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, m)
	return nil
}

func TestTriggerSendsNoteOnThenOff(t *testing.T) {
	c := &capture{}
	o := NewOutput(c.send, "test", DrumChannel, sequencer.GetKit("rd8"))

	o.Trigger(sequencer.Trigger{Row: 1, Instrument: sequencer.Snare, Step: 4})

	require.Len(t, c.msgs, 2)
	var ch, key, vel uint8
	require.True(t, c.msgs[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, DrumChannel, ch)
	assert.Equal(t, uint8(40), key)
	assert.Equal(t, DefaultVelocity, vel)

	require.True(t, c.msgs[1].GetNoteOff(&ch, &key, &vel))
	assert.Equal(t, uint8(40), key)

	assert.Equal(t, []Event{
		{Type: NoteOn, Channel: DrumChannel, Note: 40, Velocity: DefaultVelocity},
		{Type: NoteOff, Channel: DrumChannel, Note: 40},
	}, o.Sent())
}

func TestSetKitChangesNotes(t *testing.T) {
	c := &capture{}
	o := NewOutput(c.send, "test", 0, sequencer.GetKit("gm"))
	o.SetKit(sequencer.GetKit("er1"))
	o.Preview(sequencer.LowTom)

	var ch, key, vel uint8
	require.True(t, c.msgs[0].GetNoteOn(&ch, &key, &vel))
	assert.Equal(t, uint8(40), key)
}

func TestSendErrorsAreAbsorbed(t *testing.T) {
	c := &capture{err: errors.New("port gone")}
	o := NewOutput(c.send, "test", 0, sequencer.GetKit("gm"))
	o.Trigger(sequencer.Trigger{Instrument: sequencer.Kick})
	assert.Empty(t, o.Sent())
}

func TestOutputAsEngineSink(t *testing.T) {
	c := &capture{}
	o := NewOutput(c.send, "test", DrumChannel, sequencer.GetKit("gm"))
	e := sequencer.NewEngine(sequencer.WithSink(o))
	e.ToggleStep(int(sequencer.Kick), 0)
	e.ToggleStep(int(sequencer.Crash), 0)

	e.Play()
	e.Stop()

	assert.Len(t, o.Sent(), 4)
}

func TestOpenWithoutPort(t *testing.T) {
	_, err := Open("", 0, sequencer.GetKit("gm"))
	assert.ErrorIs(t, err, ErrNoPort)
}
