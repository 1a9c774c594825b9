package sequencer

import (
	"sync"
	"time"

	"beatmaker/debug"
)

// Trigger says an instrument should sound at a step
type Trigger struct {
	Row        int
	Instrument Instrument
	Step       int
}

// Sink consumes triggers. It is called with the engine lock held and must
// not call back into the engine.
type Sink interface {
	Trigger(t Trigger)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(t Trigger)

func (f SinkFunc) Trigger(t Trigger) { f(t) }

// Engine owns the grid, tempo and transport and advances the playhead
type Engine struct {
	mu sync.Mutex

	grid    Grid
	tempo   int
	playing bool
	step    int // -1 when stopped

	clock Clock
	sink  Sink

	// single pending tick; gen invalidates timers that fired but lost the race for mu
	timer Timer
	gen   uint64

	// Notify UI of updates
	UpdateChan chan struct{}
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces the real clock
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithSink sets the trigger consumer
func WithSink(s Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithSteps sets the bar length (default 16)
func WithSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.grid = NewGrid(NumInstruments, n)
		}
	}
}

// NewEngine creates a stopped engine with an empty grid at the default tempo
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		grid:       NewGrid(NumInstruments, NumSteps),
		tempo:      DefaultTempo,
		step:       -1,
		clock:      RealClock,
		UpdateChan: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetSink replaces the trigger consumer
func (e *Engine) SetSink(s Sink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = s
}

// Rows returns the fixed instrument count
func (e *Engine) Rows() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Rows()
}

// Steps returns the fixed step count
func (e *Engine) Steps() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Steps()
}

// ToggleStep inverts one cell. Out-of-range coordinates are ignored and
// reported by returning false.
func (e *Engine) ToggleStep(row, step int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if row < 0 || row >= e.grid.Rows() || step < 0 || step >= e.grid.Steps() {
		debug.Log("engine", "toggle out of range row=%d step=%d", row, step)
		return false
	}
	e.grid[row][step] = !e.grid[row][step]
	e.notifyUpdate()
	return true
}

// SetTempo clamps and stores the tempo, returning the stored value.
// A pending tick keeps its interval; the next one uses the new tempo.
func (e *Engine) SetTempo(bpm int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tempo = ClampTempo(bpm)
	e.notifyUpdate()
	return e.tempo
}

// Tempo returns the current BPM
func (e *Engine) Tempo() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tempo
}

// Interval is the time between ticks: one sixteenth note
func (e *Engine) Interval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return interval(e.tempo)
}

func interval(bpm int) time.Duration {
	return time.Minute / time.Duration(bpm*4)
}

// TogglePlay flips the transport and returns whether it is now playing
func (e *Engine) TogglePlay() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing {
		e.stop()
	} else {
		e.play()
	}
	return e.playing
}

// Play starts playback at step 0. No-op when already playing.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.playing {
		return
	}
	e.play()
}

// Stop halts playback and cancels the pending tick. No-op when stopped.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing {
		return
	}
	e.stop()
}

// Playing reports the transport state
func (e *Engine) Playing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// CurrentStep returns the playhead and false when stopped
func (e *Engine) CurrentStep() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing {
		return 0, false
	}
	return e.step, true
}

// ClearGrid turns every cell off
func (e *Engine) ClearGrid() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, row := range e.grid {
		for s := range row {
			row[s] = false
		}
	}
	e.notifyUpdate()
}

// LoadGrid replaces grid and tempo together. The grid is fitted to the
// engine's fixed shape; a nil grid leaves everything unchanged. While
// playing, the playhead is kept in range and the next tick is re-armed at
// the new tempo.
func (e *Engine) LoadGrid(g [][]bool, bpm int) bool {
	if g == nil {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.grid = Normalize(g, e.grid.Rows(), e.grid.Steps())
	e.tempo = ClampTempo(bpm)

	if e.playing {
		if e.step >= e.grid.Steps() {
			e.step = e.grid.Steps() - 1
		}
		if e.step < 0 {
			e.step = 0
		}
		e.cancel()
		e.schedule()
	}
	debug.Log("engine", "loaded grid tempo=%d playing=%v", e.tempo, e.playing)
	e.notifyUpdate()
	return true
}

// Grid returns a copy of the current grid
func (e *Engine) Grid() Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.grid.Clone()
}

// Snapshot returns a copy of the whole state
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	step := -1
	if e.playing {
		step = e.step
	}
	return State{
		Grid:    e.grid.Clone(),
		Tempo:   e.tempo,
		Playing: e.playing,
		Step:    step,
	}
}

// Close stops playback; the engine can still be used afterwards
func (e *Engine) Close() {
	e.Stop()
}

// play and stop expect mu held

func (e *Engine) play() {
	e.playing = true
	e.step = 0
	debug.Log("engine", "play tempo=%d", e.tempo)
	e.emit()
	e.schedule()
	e.notifyUpdate()
}

func (e *Engine) stop() {
	e.playing = false
	e.step = -1
	e.cancel()
	debug.Log("engine", "stop")
	e.notifyUpdate()
}

func (e *Engine) schedule() {
	gen := e.gen
	e.timer = e.clock.AfterFunc(interval(e.tempo), func() { e.tick(gen) })
}

func (e *Engine) cancel() {
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.playing || gen != e.gen {
		return
	}
	e.step = (e.step + 1) % e.grid.Steps()
	debug.LogEvery(64, "tick", "step=%d tempo=%d", e.step, e.tempo)
	e.emit()
	e.schedule()
	e.notifyUpdate()
}

func (e *Engine) emit() {
	if e.sink == nil {
		return
	}
	for r, row := range e.grid {
		if row[e.step] {
			e.sink.Trigger(Trigger{Row: r, Instrument: Instrument(r), Step: e.step})
		}
	}
}

// notifyUpdate wakes the UI without blocking
func (e *Engine) notifyUpdate() {
	select {
	case e.UpdateChan <- struct{}{}:
	default:
	}
}
