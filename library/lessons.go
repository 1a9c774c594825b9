package library

import (
	"context"
	_ "embed"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"

	"beatmaker/pattern"
	"beatmaker/sequencer"
)

//go:embed lessons.toml
var builtinLessons string

type lessonFile struct {
	Lessons []lessonDoc `toml:"lesson"`
}

type lessonDoc struct {
	ID          string   `toml:"id"`
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Difficulty  string   `toml:"difficulty"`
	Tempo       int      `toml:"tempo"`
	Grid        []string `toml:"grid"`
}

func (d lessonDoc) lesson() pattern.Lesson {
	l := pattern.Lesson{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Difficulty:  pattern.Difficulty(d.Difficulty),
		Tempo:       d.Tempo,
	}
	if len(d.Grid) > 0 {
		l.Data.Grid = sequencer.ParseGrid(d.Grid)
	}
	return l
}

// Lessons is a read-only lesson catalog
type Lessons struct {
	lessons []pattern.Lesson
}

// BuiltinLessons returns the catalog shipped with the binary
func BuiltinLessons() (*Lessons, error) {
	var f lessonFile
	if _, err := toml.Decode(builtinLessons, &f); err != nil {
		return nil, fmt.Errorf("decode builtin lessons: %w", err)
	}
	return newLessons(f.Lessons)
}

// LoadLessons reads the builtin catalog plus the lessons in path.
// A lesson in path replaces a builtin one with the same id.
func LoadLessons(path string) (*Lessons, error) {
	var builtin lessonFile
	if _, err := toml.Decode(builtinLessons, &builtin); err != nil {
		return nil, fmt.Errorf("decode builtin lessons: %w", err)
	}
	if path == "" {
		return newLessons(builtin.Lessons)
	}

	var extra lessonFile
	if _, err := toml.DecodeFile(path, &extra); err != nil {
		return nil, fmt.Errorf("decode lessons %s: %w", path, err)
	}

	docs := extra.Lessons
	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		seen[d.ID] = true
	}
	for _, d := range builtin.Lessons {
		if !seen[d.ID] {
			docs = append(docs, d)
		}
	}
	return newLessons(docs)
}

func newLessons(docs []lessonDoc) (*Lessons, error) {
	c := &Lessons{}
	ids := make(map[string]bool, len(docs))
	for _, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("lesson %q has no id", d.Title)
		}
		if ids[d.ID] {
			return nil, fmt.Errorf("duplicate lesson id %q", d.ID)
		}
		ids[d.ID] = true
		c.lessons = append(c.lessons, d.lesson())
	}

	sort.SliceStable(c.lessons, func(i, j int) bool {
		a, b := c.lessons[i], c.lessons[j]
		if a.Difficulty.Rank() != b.Difficulty.Rank() {
			return a.Difficulty.Rank() < b.Difficulty.Rank()
		}
		return a.Title < b.Title
	})
	return c, nil
}

// List returns lessons ordered by difficulty then title
func (c *Lessons) List(ctx context.Context) ([]pattern.Lesson, error) {
	out := make([]pattern.Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out, nil
}

// Get finds a lesson by id
func (c *Lessons) Get(ctx context.Context, id string) (pattern.Lesson, error) {
	for _, l := range c.lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return pattern.Lesson{}, fmt.Errorf("lesson %s: %w", id, ErrNotFound)
}
