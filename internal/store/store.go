// Package store persists propagation runs to disk, one directory per
// run holding metadata.json and frames.csv.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Timestamp time.Time          `json:"timestamp"`
	Params    thermal.Params     `json:"params"`
	Material  thermal.Material   `json:"material"`
	Steps     int                `json:"steps"`
	Reason    string             `json:"reason"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a completed run and returns its id.
func (s *Store) Save(label string, params thermal.Params, mat thermal.Material, result *thermal.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", label, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Label:     label,
		Timestamp: time.Now(),
		Params:    params,
		Material:  mat,
		Steps:     result.Steps,
		Reason:    result.Reason.String(),
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	framesFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer framesFile.Close()

	return runID, WriteFramesCSV(framesFile, result.States)
}

// Load reads the metadata of one run.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// List returns metadata for every stored run, oldest first.
func (s *Store) List() ([]*RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]*RunMetadata, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue // skip partial or foreign directories
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

// LoadFrames reads the recorded fields of one run back into memory.
func (s *Store) LoadFrames(runID string) ([]*thermal.Field, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("run %s: empty frames file", runID)
	}

	size := meta.Params.CubeSize
	cells := size * size * size

	frames := make([]*thermal.Field, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != cells+1 {
			return nil, fmt.Errorf("run %s: frame row has %d values, want %d", runID, len(row)-1, cells)
		}
		field := thermal.NewField(size, 0)
		for i := 0; i < cells; i++ {
			v, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return nil, err
			}
			field.SetIndex(i, v)
		}
		frames = append(frames, field)
	}

	return frames, nil
}
