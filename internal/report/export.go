// Package report renders a finished evolution for people and other tools.
package report

import (
	"encoding/json"
	"io"

	"github.com/san-kum/tbsim/internal/sim"
)

type ExportData struct {
	Sites         int          `json:"sites"`
	Workers       int          `json:"workers"`
	Dt            float64      `json:"dt"`
	Steps         int          `json:"steps"`
	NormDrift     float64      `json:"norm_drift"`
	Times         []float64    `json:"times"`
	Distributions [][]float64  `json:"distributions"`
	Final         [][2]float64 `json:"final"`
}

func NewExportData(workers int, result *sim.Result) ExportData {
	data := ExportData{
		Sites:         len(result.Final),
		Workers:       workers,
		Dt:            result.Dt,
		Steps:         result.StepsTaken,
		NormDrift:     result.NormDrift,
		Times:         result.Times,
		Distributions: result.Distributions,
		Final:         make([][2]float64, len(result.Final)),
	}
	for i, v := range result.Final {
		data.Final[i] = [2]float64{real(v), imag(v)}
	}
	return data
}

// WriteJSON writes the run as indented JSON. Final amplitudes are encoded
// as [re, im] pairs.
func WriteJSON(w io.Writer, workers int, result *sim.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(workers, result))
}
