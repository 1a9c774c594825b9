package pattern

import (
	"encoding/json"
	"fmt"
	"time"

	"beatmaker/sequencer"
)

// Kind discriminates the record union
type Kind string

const (
	KindBeat   Kind = "beat"
	KindLesson Kind = "lesson"
)

// Data carries the pattern itself
type Data struct {
	Grid [][]bool `json:"grid,omitempty"`
}

// Beat is a user-saved pattern
type Beat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tempo     int       `json:"tempo"`
	Data      Data      `json:"data"`
	IsCustom  bool      `json:"isCustom"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Difficulty of a lesson
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// Rank orders difficulties; unknown values sort last
func (d Difficulty) Rank() int {
	switch d {
	case Beginner:
		return 0
	case Intermediate:
		return 1
	case Advanced:
		return 2
	default:
		return 3
	}
}

// Lesson is a curated template pattern
type Lesson struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  Difficulty `json:"difficulty"`
	Data        Data       `json:"data"`
	Tempo       int        `json:"tempo"`
}

// Record is either a Beat or a Lesson, never both
type Record struct {
	Kind   Kind
	Beat   *Beat
	Lesson *Lesson
}

// FromBeat wraps a beat
func FromBeat(b Beat) Record {
	return Record{Kind: KindBeat, Beat: &b}
}

// FromLesson wraps a lesson
func FromLesson(l Lesson) Record {
	return Record{Kind: KindLesson, Lesson: &l}
}

// Grid returns the pattern grid or nil when the record has none
func (r Record) Grid() [][]bool {
	switch r.Kind {
	case KindBeat:
		if r.Beat != nil {
			return r.Beat.Data.Grid
		}
	case KindLesson:
		if r.Lesson != nil {
			return r.Lesson.Data.Grid
		}
	}
	return nil
}

// Tempo returns the stored tempo, 0 when unset
func (r Record) Tempo() int {
	switch r.Kind {
	case KindBeat:
		if r.Beat != nil {
			return r.Beat.Tempo
		}
	case KindLesson:
		if r.Lesson != nil {
			return r.Lesson.Tempo
		}
	}
	return 0
}

// Title returns the record title
func (r Record) Title() string {
	switch r.Kind {
	case KindBeat:
		if r.Beat != nil {
			return r.Beat.Title
		}
	case KindLesson:
		if r.Lesson != nil {
			return r.Lesson.Title
		}
	}
	return ""
}

// ID returns the record id
func (r Record) ID() string {
	switch r.Kind {
	case KindBeat:
		if r.Beat != nil {
			return r.Beat.ID
		}
	case KindLesson:
		if r.Lesson != nil {
			return r.Lesson.ID
		}
	}
	return ""
}

type envelope struct {
	Kind       Kind            `json:"kind"`
	Difficulty json.RawMessage `json:"difficulty"`
}

// MarshalJSON flattens the record and adds the kind field
func (r Record) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindBeat:
		if r.Beat == nil {
			return nil, fmt.Errorf("beat record has no beat")
		}
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			Beat
		}{r.Kind, *r.Beat})
	case KindLesson:
		if r.Lesson == nil {
			return nil, fmt.Errorf("lesson record has no lesson")
		}
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			Lesson
		}{r.Kind, *r.Lesson})
	default:
		return nil, fmt.Errorf("unknown record kind %q", r.Kind)
	}
}

// UnmarshalJSON is DecodeRecord
func (r *Record) UnmarshalJSON(data []byte) error {
	rec, err := DecodeRecord(data)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// DecodeRecord reads a record document. Documents without a kind field are
// classified once here: a difficulty field marks a lesson, otherwise a beat.
func DecodeRecord(data []byte) (Record, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}

	kind := env.Kind
	if kind == "" {
		kind = KindBeat
		switch string(env.Difficulty) {
		case "", "null", `""`:
		default:
			kind = KindLesson
		}
	}

	switch kind {
	case KindBeat:
		var b Beat
		if err := json.Unmarshal(data, &b); err != nil {
			return Record{}, fmt.Errorf("decode beat: %w", err)
		}
		return FromBeat(b), nil
	case KindLesson:
		var l Lesson
		if err := json.Unmarshal(data, &l); err != nil {
			return Record{}, fmt.Errorf("decode lesson: %w", err)
		}
		return FromLesson(l), nil
	default:
		return Record{}, fmt.Errorf("unknown record kind %q", kind)
	}
}

// GridFromState copies an engine grid into record form
func GridFromState(g sequencer.Grid) [][]bool {
	return [][]bool(g.Clone())
}
