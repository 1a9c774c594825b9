package sequencer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() (*Engine, *fakeClock, *recorder) {
	clk := &fakeClock{}
	rec := &recorder{}
	return NewEngine(WithClock(clk), WithSink(rec)), clk, rec
}

func TestNewEngineDefaults(t *testing.T) {
	e, _, _ := newTestEngine()
	s := e.Snapshot()

	assert.Equal(t, DefaultTempo, s.Tempo)
	assert.False(t, s.Playing)
	_, ok := s.CurrentStep()
	assert.False(t, ok)
	assert.Equal(t, NumInstruments, s.Grid.Rows())
	assert.Equal(t, NumSteps, s.Grid.Steps())
	assert.True(t, s.Grid.Empty())
}

func TestToggleStepIsInvolution(t *testing.T) {
	e, _, _ := newTestEngine()
	for row := 0; row < e.Rows(); row++ {
		for step := 0; step < e.Steps(); step++ {
			before := e.Grid().Active(row, step)
			require.True(t, e.ToggleStep(row, step))
			require.NotEqual(t, before, e.Grid().Active(row, step))
			require.True(t, e.ToggleStep(row, step))
			require.Equal(t, before, e.Grid().Active(row, step))
		}
	}
}

func TestToggleStepOutOfRangeIsNoop(t *testing.T) {
	e, _, _ := newTestEngine()
	before := e.Snapshot()

	cases := [][2]int{{-1, 0}, {0, -1}, {NumInstruments, 0}, {0, NumSteps}, {99, 99}}
	for _, c := range cases {
		assert.False(t, e.ToggleStep(c[0], c[1]), "row=%d step=%d", c[0], c[1])
	}
	assert.Equal(t, before, e.Snapshot())
}

func TestToggleStepDoesNotTouchTransport(t *testing.T) {
	e, _, _ := newTestEngine()
	e.TogglePlay()
	e.ToggleStep(0, 3)
	step, ok := e.CurrentStep()
	assert.True(t, ok)
	assert.Equal(t, 0, step)
	assert.True(t, e.Playing())
}

func TestSetTempoClamps(t *testing.T) {
	e, _, _ := newTestEngine()
	tests := []struct {
		in, want int
	}{
		{0, 60},
		{59, 60},
		{-200, 60},
		{60, 60},
		{97, 97},
		{180, 180},
		{181, 180},
		{1000, 180},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.SetTempo(tt.in))
		assert.Equal(t, tt.want, e.Tempo())
	}
}

func TestInterval(t *testing.T) {
	e, _, _ := newTestEngine()
	e.SetTempo(120)
	assert.Equal(t, 125*time.Millisecond, e.Interval())
	e.SetTempo(60)
	assert.Equal(t, 250*time.Millisecond, e.Interval())
}

func TestClearGrid(t *testing.T) {
	e, _, _ := newTestEngine()
	e.ToggleStep(0, 0)
	e.ToggleStep(3, 7)
	e.SetTempo(140)
	e.TogglePlay()

	e.ClearGrid()

	g := e.Grid()
	assert.True(t, g.Empty())
	assert.Equal(t, NumInstruments, g.Rows())
	assert.Equal(t, NumSteps, g.Steps())
	assert.Equal(t, 140, e.Tempo())
	assert.True(t, e.Playing())
}

func TestTogglePlayTwiceStopsTicks(t *testing.T) {
	e, clk, rec := newTestEngine()
	for s := 0; s < NumSteps; s++ {
		e.ToggleStep(0, s)
	}

	assert.True(t, e.TogglePlay())
	assert.False(t, e.TogglePlay())

	_, ok := e.CurrentStep()
	assert.False(t, ok)
	assert.Equal(t, 0, clk.Pending())

	rec.Reset()
	clk.Advance(10 * time.Second)
	assert.Empty(t, rec.All())
}

func TestPlayWhenPlayingDoesNotDoubleTimer(t *testing.T) {
	e, clk, rec := newTestEngine()
	e.ToggleStep(1, 1)

	e.Play()
	e.Play()
	e.Play()
	assert.Equal(t, 1, clk.Pending())

	clk.Advance(125 * time.Millisecond)
	assert.Len(t, rec.All(), 1)
	assert.Equal(t, 1, clk.Pending())
}

func TestFirstTickAdvancesAndTriggers(t *testing.T) {
	e, clk, rec := newTestEngine()
	e.SetTempo(120)
	e.ToggleStep(int(Snare), 1)
	e.ToggleStep(int(ClosedHat), 1)
	e.ToggleStep(int(Kick), 2)

	e.TogglePlay()
	step, ok := e.CurrentStep()
	require.True(t, ok)
	assert.Equal(t, 0, step)
	assert.Empty(t, rec.All())

	clk.Advance(124 * time.Millisecond)
	step, _ = e.CurrentStep()
	assert.Equal(t, 0, step)

	clk.Advance(1 * time.Millisecond)
	step, _ = e.CurrentStep()
	assert.Equal(t, 1, step)
	assert.Equal(t, []Trigger{
		{Row: 1, Instrument: Snare, Step: 1},
		{Row: 2, Instrument: ClosedHat, Step: 1},
	}, rec.All())
}

func TestPlayTriggersStepZeroImmediately(t *testing.T) {
	e, _, rec := newTestEngine()
	e.ToggleStep(int(Kick), 0)
	e.TogglePlay()
	assert.Equal(t, []Trigger{{Row: 0, Instrument: Kick, Step: 0}}, rec.All())
}

func TestPlayheadWraps(t *testing.T) {
	e, clk, rec := newTestEngine()
	e.ToggleStep(0, 0)
	e.TogglePlay()
	rec.Reset()

	clk.Advance(NumSteps * 125 * time.Millisecond)
	step, _ := e.CurrentStep()
	assert.Equal(t, 0, step)
	assert.Equal(t, []Trigger{{Row: 0, Instrument: Kick, Step: 0}}, rec.All())
}

func TestRestartBeginsAtZero(t *testing.T) {
	e, clk, _ := newTestEngine()
	e.TogglePlay()
	clk.Advance(5 * 125 * time.Millisecond)
	step, _ := e.CurrentStep()
	require.Equal(t, 5, step)

	e.TogglePlay()
	e.TogglePlay()
	step, _ = e.CurrentStep()
	assert.Equal(t, 0, step)
}

func TestTempoChangeTakesEffectOnNextTick(t *testing.T) {
	e, clk, _ := newTestEngine()
	e.SetTempo(120)
	e.TogglePlay()

	// the pending tick keeps its 125ms interval
	e.SetTempo(60)
	clk.Advance(125 * time.Millisecond)
	step, _ := e.CurrentStep()
	require.Equal(t, 1, step)

	// the following one uses 250ms
	clk.Advance(125 * time.Millisecond)
	step, _ = e.CurrentStep()
	assert.Equal(t, 1, step)
	clk.Advance(125 * time.Millisecond)
	step, _ = e.CurrentStep()
	assert.Equal(t, 2, step)
}

func TestLoadGridPadsAndTruncates(t *testing.T) {
	e, _, _ := newTestEngine()

	short := [][]bool{{true, false, true}}
	require.True(t, e.LoadGrid(short, 100))
	g := e.Grid()
	assert.Equal(t, NumInstruments, g.Rows())
	for _, row := range g {
		assert.Len(t, row, NumSteps)
	}
	assert.True(t, g.Active(0, 0))
	assert.True(t, g.Active(0, 2))
	assert.False(t, g.Active(0, 3))
	assert.Equal(t, 100, e.Tempo())

	long := make([][]bool, NumInstruments+3)
	for i := range long {
		long[i] = make([]bool, NumSteps+8)
		long[i][NumSteps+1] = true
		long[i][NumSteps-1] = true
	}
	require.True(t, e.LoadGrid(long, 500))
	g = e.Grid()
	assert.Equal(t, NumInstruments, g.Rows())
	for _, row := range g {
		assert.Len(t, row, NumSteps)
		assert.True(t, row[NumSteps-1])
	}
	assert.Equal(t, MaxTempo, e.Tempo())
}

func TestLoadGridDoesNotAliasInput(t *testing.T) {
	e, _, _ := newTestEngine()
	src := [][]bool{make([]bool, NumSteps)}
	e.LoadGrid(src, 120)
	src[0][0] = true
	assert.False(t, e.Grid().Active(0, 0))
}

func TestLoadGridNilIsNoop(t *testing.T) {
	e, _, _ := newTestEngine()
	e.ToggleStep(2, 2)
	e.SetTempo(90)
	before := e.Snapshot()

	assert.False(t, e.LoadGrid(nil, 150))
	assert.Equal(t, before, e.Snapshot())
}

func TestLoadGridWhilePlayingKeepsSingleTimer(t *testing.T) {
	e, clk, rec := newTestEngine()
	e.SetTempo(120)
	e.TogglePlay()
	clk.Advance(3 * 125 * time.Millisecond)

	g := NewGrid(NumInstruments, NumSteps)
	g[int(Clap)][4] = true
	e.LoadGrid(g, 60)
	assert.True(t, e.Playing())
	assert.Equal(t, 1, clk.Pending())
	step, _ := e.CurrentStep()
	assert.Equal(t, 3, step)

	rec.Reset()
	clk.Advance(125 * time.Millisecond)
	assert.Empty(t, rec.All())
	clk.Advance(125 * time.Millisecond)
	assert.Equal(t, []Trigger{{Row: int(Clap), Instrument: Clap, Step: 4}}, rec.All())
}

func TestStaleTimerDoesNothing(t *testing.T) {
	e, _, rec := newTestEngine()
	e.ToggleStep(0, 1)
	e.TogglePlay()
	gen := e.gen
	e.TogglePlay()
	e.TogglePlay()

	// a callback from the first run that fired but lost the race
	e.tick(gen)
	step, _ := e.CurrentStep()
	assert.Equal(t, 0, step)
	assert.Empty(t, rec.All())
}

func TestUpdateChanIsNonBlocking(t *testing.T) {
	e, _, _ := newTestEngine()
	for i := 0; i < 10; i++ {
		e.ToggleStep(0, 0)
	}
	select {
	case <-e.UpdateChan:
	default:
		t.Fatal("expected an update notification")
	}
}
