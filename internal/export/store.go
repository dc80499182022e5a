package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/gapdash/internal/dashboard"
	"github.com/san-kum/gapdash/internal/gapminder"
)

// Snapshot describes one saved view on disk.
type Snapshot struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Year      int       `json:"year"`
	Continent string    `json:"continent,omitempty"`
	Records   int       `json:"records"`
	Midpoint  float64   `json:"midpoint"`
	Files     []string  `json:"files"`
}

// Store keeps snapshot directories under a base directory.
type Store struct {
	baseDir  string
	registry *Registry
	now      func() time.Time
}

func NewStore(baseDir string, registry *Registry) *Store {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Store{baseDir: baseDir, registry: registry, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save writes metadata.json, records.csv and every registered chart file
// for the view.
func (s *Store) Save(ctx context.Context, v dashboard.View, records []gapminder.Record) (*Snapshot, error) {
	ts := s.now().UTC()
	filter := "all"
	if v.Selection.Filtered() {
		filter = slug(v.Selection.Continent)
	}
	id := fmt.Sprintf("%d_%s_%s", v.Selection.Year, filter, ts.Format("20060102T150405.000000000"))
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:        id,
		Timestamp: ts,
		Year:      v.Selection.Year,
		Continent: v.Selection.Continent,
		Records:   len(records),
		Midpoint:  v.Sunburst.Midpoint,
	}

	if err := writeFile(filepath.Join(dir, "records.csv"), func(f *os.File) error {
		return RecordsCSV(f, records)
	}); err != nil {
		return nil, err
	}
	snap.Files = append(snap.Files, "records.csv")

	files, err := s.registry.RenderAll(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", id, err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0644); err != nil {
			return nil, err
		}
		snap.Files = append(snap.Files, f.Name)
	}

	if err := writeFile(filepath.Join(dir, "metadata.json"), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}); err != nil {
		return nil, err
	}

	return snap, nil
}

// List returns all readable snapshots, oldest first. A missing base
// directory is an empty list.
func (s *Store) List() ([]Snapshot, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Snapshot{}, nil
		}
		return nil, err
	}

	snaps := make([]Snapshot, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		snap, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		snaps = append(snaps, *snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].Timestamp.Before(snaps[j].Timestamp)
	})
	return snaps, nil
}

func (s *Store) Load(id string) (*Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Records reads a snapshot's records.csv back into a dataset.
func (s *Store) Records(id string) (*gapminder.Dataset, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, "records.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gapminder.Parse(f)
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func slug(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
