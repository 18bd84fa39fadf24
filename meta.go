package main

import (
	"os"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/dvgjettinggrid/jetgridgen/pkg/grid"
)

// RunMeta is the JSON sidecar written alongside every run's output files,
// grounded on the teacher CLI's CaptureMetadata sidecar.
type RunMeta struct {
	RunID        string  `json:"run_id"`
	Timestamp    string  `json:"timestamp"`
	Config       *Config `json:"config"`
	NFrames      int     `json:"n_frames"`
	NValves      int     `json:"n_valves"`
	Nonconverged int     `json:"nonconverged_frames"`
	MeanAlpha    float64 `json:"mean_alpha_valve"`
}

func writeMeta(f *os.File, r *RunResult, cfg *Config) error {
	nonconverged := 0
	for _, ok := range r.Converged {
		if !ok {
			nonconverged++
		}
	}
	var sum float64
	for _, a := range r.AlphaValve {
		sum += a
	}
	mean := 0.0
	if len(r.AlphaValve) > 0 {
		mean = sum / float64(len(r.AlphaValve))
	}

	meta := RunMeta{
		RunID:        r.RunID,
		Timestamp:    time.Now().Format(time.RFC3339),
		Config:       cfg,
		NFrames:      cfg.NFrames,
		NValves:      grid.V,
		Nonconverged: nonconverged,
		MeanAlpha:    mean,
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	_, err = f.Write(b)
	return err
}
