package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/gtpsa/internal/config"
	"github.com/san-kum/gtpsa/internal/dynamo"
	"github.com/san-kum/gtpsa/internal/tpsa"
)

const (
	metadataFile = "metadata.json"
	mapFile      = "map.csv"
	orbitFile    = "orbit.csv"
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
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Integrator string             `json:"integrator"`
	Timestamp  time.Time          `json:"timestamp"`
	Order      int                `json:"order"`
	NumVars    int                `json:"nv"`
	Seed       uint64             `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Reference  []float64          `json:"reference"`
	Params     map[string]float64 `json:"params,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	// Analysis holds derived quantities of the map, such as tunes.
	Analysis map[string]float64 `json:"analysis,omitempty"`
}

// Save writes the run described by cfg and res under a fresh run id.
func (s *Store) Save(cfg *config.Config, res *dynamo.Result, analysis map[string]float64) (string, error) {
	if len(res.Map) == 0 {
		return "", fmt.Errorf("%w: result has no map", dynamo.ErrInvalidState)
	}
	runID := fmt.Sprintf("%s_%s", cfg.Model, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Model:      cfg.Model,
		Integrator: cfg.Integrator,
		Timestamp:  time.Now(),
		Order:      res.Map.Desc().MaxOrder(),
		NumVars:    res.Map.Desc().NumVars(),
		Seed:       cfg.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Steps:      res.StepsTaken,
		Params:     cfg.Params,
		Metrics:    res.Metrics,
		Analysis:   analysis,
	}
	if len(res.Orbit) > 0 {
		meta.Reference = res.Orbit[0]
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeMap(filepath.Join(runDir, mapFile), res.Map); err != nil {
		return "", err
	}
	if err := writeOrbit(filepath.Join(runDir, orbitFile), res.Times, res.Orbit); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// writeMap writes one row per nonzero coefficient:
// component, index, order, exponents..., value.
func writeMap(path string, m dynamo.State) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	d := m.Desc()
	w := csv.NewWriter(f)
	header := []string{"component", "index", "order"}
	for j := 0; j < d.NumVars(); j++ {
		header = append(header, fmt.Sprintf("e%d", j))
	}
	header = append(header, "value")
	if err := w.Write(header); err != nil {
		return err
	}

	var mono []int
	for k, c := range m {
		for i, v := range c.Terms() {
			mono = d.Mono(i, mono)
			row := []string{strconv.Itoa(k), strconv.Itoa(i), strconv.Itoa(d.Order(i))}
			for _, e := range mono {
				row = append(row, strconv.Itoa(e))
			}
			row = append(row, formatFloat(v))
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

func writeOrbit(path string, times []float64, orbit [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if len(orbit) > 0 {
		header := []string{"time"}
		for i := range orbit[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}
	for i, x := range orbit {
		row := []string{formatFloat(times[i])}
		for _, v := range x {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the stored runs, newest first. Directories without readable
// metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadMap rebuilds the transfer map of a run on a descriptor from descs.
func (s *Store) LoadMap(runID string, descs *tpsa.Registry) (dynamo.State, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	d, err := descs.Get(tpsa.Config{NumVars: meta.NumVars, MaxOrder: meta.Order, Workers: 1})
	if err != nil {
		return nil, err
	}

	records, err := readCSV(filepath.Join(s.baseDir, runID, mapFile))
	if err != nil {
		return nil, err
	}
	m := make(dynamo.State, meta.NumVars)
	for i := range m {
		m[i] = tpsa.NewReal(d, tpsa.MaxOrd)
	}
	mono := make([]int, meta.NumVars)
	for n, rec := range records {
		if len(rec) != meta.NumVars+4 {
			return nil, fmt.Errorf("run %s: map row %d has %d fields", runID, n+1, len(rec))
		}
		k, err := strconv.Atoi(rec[0])
		if err != nil || k < 0 || k >= len(m) {
			return nil, fmt.Errorf("run %s: map row %d: bad component %q", runID, n+1, rec[0])
		}
		for j := range mono {
			if mono[j], err = strconv.Atoi(rec[3+j]); err != nil {
				return nil, fmt.Errorf("run %s: map row %d: %w", runID, n+1, err)
			}
		}
		if !d.IsValid(mono) {
			return nil, fmt.Errorf("run %s: map row %d: monomial %v out of range", runID, n+1, mono)
		}
		v, err := strconv.ParseFloat(rec[len(rec)-1], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: map row %d: %w", runID, n+1, err)
		}
		m[k].SetMono(mono, 0, v)
	}
	return m, nil
}

// LoadOrbit returns the reference orbit and its sample times.
func (s *Store) LoadOrbit(runID string) ([][]float64, []float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, orbitFile))
	if err != nil {
		return nil, nil, err
	}

	times := make([]float64, 0, len(records))
	orbit := make([][]float64, 0, len(records))
	for n, rec := range records {
		row := make([]float64, len(rec))
		for j, f := range rec {
			if row[j], err = strconv.ParseFloat(f, 64); err != nil {
				return nil, nil, fmt.Errorf("run %s: orbit row %d: %w", runID, n+1, err)
			}
		}
		times = append(times, row[0])
		orbit = append(orbit, row[1:])
	}
	return orbit, times, nil
}

// readCSV returns the records after the header line.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}
	return records[1:], nil
}
