package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/hypnoseal/ThermodynamicsSimulator/internal/thermal"
)

// WriteFramesCSV serializes recorded fields as one row per step with a
// flattened cell column per grid position.
func WriteFramesCSV(w io.Writer, frames []*thermal.Field) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if len(frames) == 0 {
		return nil
	}

	header := []string{"step"}
	for i := 0; i < frames[0].Len(); i++ {
		header = append(header, fmt.Sprintf("c%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for step, f := range frames {
		row := make([]string, 0, f.Len()+1)
		row = append(row, strconv.Itoa(step))
		for i := 0; i < f.Len(); i++ {
			row = append(row, strconv.FormatFloat(f.AtIndex(i), 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}

// ExportData is the JSON export shape for a full run.
type ExportData struct {
	ID       string             `json:"id"`
	Label    string             `json:"label"`
	CubeSize int                `json:"cube_size"`
	Steps    int                `json:"steps"`
	Reason   string             `json:"reason"`
	Metrics  map[string]float64 `json:"metrics"`
	Frames   [][]float64        `json:"frames"`
}

// ExportJSON writes metadata plus all frames as indented JSON.
func ExportJSON(w io.Writer, meta *RunMetadata, frames []*thermal.Field) error {
	data := ExportData{
		ID:       meta.ID,
		Label:    meta.Label,
		CubeSize: meta.Params.CubeSize,
		Steps:    meta.Steps,
		Reason:   meta.Reason,
		Metrics:  meta.Metrics,
		Frames:   make([][]float64, len(frames)),
	}

	for i, f := range frames {
		cells := make([]float64, f.Len())
		for j := range cells {
			cells[j] = f.AtIndex(j)
		}
		data.Frames[i] = cells
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
