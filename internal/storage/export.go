package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gtpsa/internal/tpsa"
)

// Term is one nonzero coefficient of a map component.
type Term struct {
	Component int     `json:"component"`
	Exponents []int   `json:"exponents"`
	Value     float64 `json:"value"`
}

type ExportData struct {
	Run   RunMetadata `json:"run"`
	Times []float64   `json:"times"`
	Orbit [][]float64 `json:"orbit"`
	Map   []Term      `json:"map"`
}

// Export collects everything stored for a run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	orbit, times, err := s.LoadOrbit(runID)
	if err != nil {
		return nil, err
	}
	m, err := s.LoadMap(runID, tpsa.NewRegistry())
	if err != nil {
		return nil, err
	}

	data := &ExportData{Run: *meta, Times: times, Orbit: orbit, Map: []Term{}}
	d := m.Desc()
	for k, c := range m {
		for i, v := range c.Terms() {
			data.Map = append(data.Map, Term{Component: k, Exponents: d.Mono(i, nil), Value: v})
		}
	}
	return data, nil
}

// ExportJSON writes the run as indented JSON to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	data, err := s.Export(runID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSONFile writes the run as JSON to path.
func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}
