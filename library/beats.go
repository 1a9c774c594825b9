package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"beatmaker/debug"
	"beatmaker/pattern"
)

// ErrNotFound is returned for unknown beat or lesson ids
var ErrNotFound = errors.New("not found")

// BeatStore keeps one JSON file per beat under <dir>/beats
type BeatStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewBeatStore creates the beats directory under root if needed
func NewBeatStore(root string) (*BeatStore, error) {
	dir := filepath.Join(root, "beats")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create beats dir: %w", err)
	}
	return &BeatStore{dir: dir, now: time.Now}, nil
}

// Dir returns the directory beats are stored in
func (s *BeatStore) Dir() string {
	return s.dir
}

func (s *BeatStore) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("beat %q: %w", id, ErrNotFound)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// List returns all beats, most recently updated first
func (s *BeatStore) List(ctx context.Context) ([]pattern.Beat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []pattern.Beat{}, nil
		}
		return nil, err
	}

	beats := []pattern.Beat{}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		b, err := s.read(filepath.Join(s.dir, name))
		if err != nil {
			// unreadable files are skipped
			debug.Log("library", "skip %s: %v", name, err)
			continue
		}
		beats = append(beats, b)
	}

	sort.Slice(beats, func(i, j int) bool {
		if beats[i].UpdatedAt.Equal(beats[j].UpdatedAt) {
			return beats[i].Title < beats[j].Title
		}
		return beats[i].UpdatedAt.After(beats[j].UpdatedAt)
	})
	return beats, nil
}

// Get loads one beat
func (s *BeatStore) Get(ctx context.Context, id string) (pattern.Beat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(id)
	if err != nil {
		return pattern.Beat{}, err
	}
	b, err := s.read(path)
	if errors.Is(err, os.ErrNotExist) {
		return pattern.Beat{}, fmt.Errorf("beat %s: %w", id, ErrNotFound)
	}
	return b, err
}

// Create assigns an id and timestamps and writes the beat
func (s *BeatStore) Create(ctx context.Context, b pattern.Beat) (pattern.Beat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = uuid.New().String()
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt
	path, _ := s.path(b.ID)
	if err := s.write(path, b); err != nil {
		return pattern.Beat{}, err
	}
	debug.Log("library", "created beat %s %q", b.ID, b.Title)
	return b, nil
}

// Update overwrites an existing beat, keeping its creation time
func (s *BeatStore) Update(ctx context.Context, b pattern.Beat) (pattern.Beat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(b.ID)
	if err != nil {
		return pattern.Beat{}, err
	}
	old, err := s.read(path)
	if errors.Is(err, os.ErrNotExist) {
		return pattern.Beat{}, fmt.Errorf("beat %s: %w", b.ID, ErrNotFound)
	}
	if err != nil {
		return pattern.Beat{}, err
	}

	b.CreatedAt = old.CreatedAt
	b.UpdatedAt = s.now()
	if err := s.write(path, b); err != nil {
		return pattern.Beat{}, err
	}
	debug.Log("library", "updated beat %s", b.ID)
	return b, nil
}

// Delete removes a beat file
func (s *BeatStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("beat %s: %w", id, ErrNotFound)
		}
		return err
	}
	debug.Log("library", "deleted beat %s", id)
	return nil
}

func (s *BeatStore) read(path string) (pattern.Beat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pattern.Beat{}, err
	}
	var b pattern.Beat
	if err := json.Unmarshal(data, &b); err != nil {
		return pattern.Beat{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return b, nil
}

// write replaces the file via rename
func (s *BeatStore) write(path string, b pattern.Beat) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
