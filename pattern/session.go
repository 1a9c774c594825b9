package pattern

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"beatmaker/debug"
	"beatmaker/sequencer"
)

// UntitledTitle is shown when nothing is loaded
const UntitledTitle = "Untitled Beat"

// ErrTitleRequired is returned when saving a new beat without a title
var ErrTitleRequired = errors.New("title required to save a new beat")

// BeatStore persists user beats
type BeatStore interface {
	List(ctx context.Context) ([]Beat, error)
	Get(ctx context.Context, id string) (Beat, error)
	Create(ctx context.Context, b Beat) (Beat, error)
	Update(ctx context.Context, b Beat) (Beat, error)
	Delete(ctx context.Context, id string) error
}

// LessonCatalog lists curated lessons
type LessonCatalog interface {
	List(ctx context.Context) ([]Lesson, error)
	Get(ctx context.Context, id string) (Lesson, error)
}

// Player is the part of the engine a session drives
type Player interface {
	LoadGrid(g [][]bool, bpm int) bool
	ClearGrid()
	Snapshot() sequencer.State
}

// Session tracks which beat is being edited. The engine only ever sees grid
// and tempo; the id and title live here.
type Session struct {
	player  Player
	beats   BeatStore
	lessons LessonCatalog

	beatID string
	title  string
}

// NewSession creates a session with nothing loaded
func NewSession(player Player, beats BeatStore, lessons LessonCatalog) *Session {
	return &Session{
		player:  player,
		beats:   beats,
		lessons: lessons,
		title:   UntitledTitle,
	}
}

// BeatID returns the id of the loaded user beat, empty when none
func (s *Session) BeatID() string {
	return s.beatID
}

// Title returns the display title
func (s *Session) Title() string {
	return s.title
}

// Saved reports whether the next save updates an existing beat
func (s *Session) Saved() bool {
	return s.beatID != ""
}

// Load copies a record into the engine. A record without grid data is
// ignored and Load returns false. Lessons are templates: loading one
// forgets the current beat id so the next save creates a new beat.
func (s *Session) Load(r Record) bool {
	grid := r.Grid()
	if grid == nil {
		debug.Log("session", "load %s %q: no grid", r.Kind, r.ID())
		return false
	}
	tempo := r.Tempo()
	if tempo == 0 {
		tempo = sequencer.DefaultTempo
	}
	if !s.player.LoadGrid(grid, tempo) {
		return false
	}

	switch r.Kind {
	case KindLesson:
		s.beatID = ""
		s.title = "Lesson: " + r.Title()
	default:
		s.beatID = r.ID()
		s.title = r.Title()
	}
	debug.Log("session", "loaded %s id=%q title=%q", r.Kind, r.ID(), s.title)
	return true
}

// LoadBeat fetches a beat from the store and loads it
func (s *Session) LoadBeat(ctx context.Context, id string) error {
	b, err := s.beats.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load beat %s: %w", id, err)
	}
	s.Load(FromBeat(b))
	return nil
}

// LoadLesson fetches a lesson from the catalog and loads it
func (s *Session) LoadLesson(ctx context.Context, id string) error {
	l, err := s.lessons.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load lesson %s: %w", id, err)
	}
	s.Load(FromLesson(l))
	return nil
}

// Save updates the loaded beat, or creates a new one named title
func (s *Session) Save(ctx context.Context, title string) (Beat, error) {
	state := s.player.Snapshot()
	data := Data{Grid: GridFromState(state.Grid)}

	if s.beatID != "" {
		b, err := s.beats.Get(ctx, s.beatID)
		if err != nil {
			return Beat{}, fmt.Errorf("save beat %s: %w", s.beatID, err)
		}
		b.Data = data
		b.Tempo = state.Tempo
		if t := strings.TrimSpace(title); t != "" {
			b.Title = t
		}
		b, err = s.beats.Update(ctx, b)
		if err != nil {
			return Beat{}, fmt.Errorf("save beat %s: %w", s.beatID, err)
		}
		s.title = b.Title
		return b, nil
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return Beat{}, ErrTitleRequired
	}
	b, err := s.beats.Create(ctx, Beat{
		Title:    title,
		Tempo:    state.Tempo,
		Data:     data,
		IsCustom: true,
	})
	if err != nil {
		return Beat{}, fmt.Errorf("create beat: %w", err)
	}
	s.beatID = b.ID
	s.title = b.Title
	return b, nil
}

// Delete removes a beat; deleting the loaded one detaches the session
func (s *Session) Delete(ctx context.Context, id string) error {
	if err := s.beats.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete beat %s: %w", id, err)
	}
	if id == s.beatID {
		s.beatID = ""
		s.title = UntitledTitle
	}
	return nil
}

// New starts an empty untitled beat
func (s *Session) New() {
	s.beatID = ""
	s.title = UntitledTitle
	s.player.ClearGrid()
}

// Beats lists saved beats
func (s *Session) Beats(ctx context.Context) ([]Beat, error) {
	return s.beats.List(ctx)
}

// Lessons lists the lesson catalog
func (s *Session) Lessons(ctx context.Context) ([]Lesson, error) {
	return s.lessons.List(ctx)
}
