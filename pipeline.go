package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dvgjettinggrid/jetgridgen/pkg/binarize"
	"github.com/dvgjettinggrid/jetgridgen/pkg/grid"
	"github.com/dvgjettinggrid/jetgridgen/pkg/noisestack"
	"github.com/dvgjettinggrid/jetgridgen/pkg/schedule"
	"github.com/dvgjettinggrid/jetgridgen/pkg/store"
	"github.com/dvgjettinggrid/jetgridgen/pkg/valves"
)

// ProgressFunc is called at each stage boundary so a caller (the CLI's log
// output, or the service mode's WebSocket broadcast) can report progress.
type ProgressFunc func(stage string, frame, total int)

// RunResult is everything a completed run produced, returned to the caller
// for printing and/or broadcasting; the output files are already written
// by the time Run returns.
type RunResult struct {
	RunID      string
	State      *valves.State
	AlphaImage []float64
	AlphaValve []float64
	Converged  []bool // nil in threshold mode

	// TheoreticalPDFs are the on/off run-duration PMFs of the sampled
	// valve stack before the dwell adjuster runs; JetGridPDFs are the same
	// PMFs after it runs. The PDF report writes both side by side.
	TheoreticalPDFs valves.PDFs
	JetGridPDFs     valves.PDFs

	ProtoPath   string
	AlphaPath   string
	PDFPath     string
	ParquetPath string
	MetaPath    string
}

func noop(string, int, int) {}

// Run executes the full pipeline (G -> M -> B -> S -> A -> E -> D) against
// a validated configuration and writes every output file alongside
// cfg.ExportPathNoExt. The computed schedule is a pure function of cfg:
// the same cfg and seeds always yield the same state, alphas and PDFs.
// Each run gets a fresh random run ID, and the .proto DATE line and the
// metadata timestamp record the wall-clock time, so those bytes differ
// between runs.
func Run(cfg *Config, progress ProgressFunc) (*RunResult, error) {
	if progress == nil {
		progress = noop
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()

	deltaTA := 1 / cfg.TemporalFeatureSizeA
	xStepA := cfg.XStep(cfg.SpatialFeatureSizeA, grid.P)

	progress("generate", 0, cfg.NFrames)
	log.Printf("[%s] generating stack A (T=%d N=%d seed=%d)", runID, cfg.NFrames, grid.N, cfg.SeedA)
	stackA := generateStack(cfg.CacheDir, noisestack.GenConfig{
		T: cfg.NFrames, N: grid.N, DtFrame: deltaTA, XStep: xStepA,
		Seed: cfg.SeedA, NumWorkers: cfg.NumWorkers,
	})

	var deltaTB, xStepB float64
	if cfg.BEnabled() {
		deltaTB = 1 / cfg.TemporalFeatureSizeB
		xStepB = cfg.XStep(cfg.SpatialFeatureSizeB, grid.P)
		progress("generate_b", 0, cfg.NFrames)
		log.Printf("[%s] generating stack B (seed=%d)", runID, cfg.SeedB)
		stackB := generateStack(cfg.CacheDir, noisestack.GenConfig{
			T: cfg.NFrames, N: grid.N, DtFrame: deltaTB, XStep: xStepB,
			Seed: cfg.SeedB, NumWorkers: cfg.NumWorkers,
		})
		noisestack.Mix(stackA, stackB)
	}

	progress("rescale", 0, cfg.NFrames)
	noisestack.Rescale(stackA, cfg.rescaleMode())

	progress("binarize", 0, cfg.NFrames)
	var bw *binarize.Result
	if cfg.BWThreshold != nil {
		bw = binarize.Threshold(stackA, *cfg.BWThreshold, cfg.NumWorkers)
	} else {
		bw = binarize.TargetFraction(stackA, *cfg.TargetTransparency, cfg.NumWorkers)
	}
	nonconverged := 0
	if bw.Converged != nil {
		for _, ok := range bw.Converged {
			if !ok {
				nonconverged++
			}
		}
		if nonconverged > 0 {
			log.Printf("[%s] Newton solver did not converge on %d/%d frames", runID, nonconverged, cfg.NFrames)
		}
	}

	progress("sample", 0, cfg.NFrames)
	state := valves.Sample(bw, cfg.NumWorkers)

	progress("adjust", 0, cfg.NFrames)
	adjusted, err := valves.AdjustDwell(state, cfg.MinValveDuration, cfg.NumWorkers)
	if err != nil {
		return nil, err
	}

	progress("diagnostics", 0, cfg.NFrames)
	theoreticalPDFs := valves.Diagnostics(state)
	jetGridPDFs := valves.Diagnostics(adjusted)

	result := &RunResult{
		RunID:           runID,
		State:           adjusted,
		AlphaImage:      bw.Alpha,
		AlphaValve:      adjusted.AlphaV(),
		Converged:       bw.Converged,
		TheoreticalPDFs: theoreticalPDFs,
		JetGridPDFs:     jetGridPDFs,
	}

	progress("export", 0, cfg.NFrames)
	if err := writeOutputs(cfg, result, deltaTA, deltaTB, xStepA, xStepB); err != nil {
		return nil, err
	}

	return result, nil
}

func writeOutputs(cfg *Config, r *RunResult, deltaTA, deltaTB, xStepA, xStepB float64) error {
	r.ProtoPath = cfg.ExportPathNoExt + ".proto"
	r.AlphaPath = cfg.ExportPathNoExt + "_alpha.txt"
	r.PDFPath = cfg.ExportPathNoExt + "_pdfs.txt"
	r.ParquetPath = cfg.ExportPathNoExt + "_valves_stack.parquet"
	r.MetaPath = cfg.ExportPathNoExt + "_meta.json"

	header := schedule.Header{
		Type: "OpenSimplex noise v2.0", Date: time.Now().Format("2006-01-02 15:04:05"),
		NFrames: cfg.NFrames, DtFrame: cfg.DtFrame,
		BWThreshold: cfg.BWThreshold, TargetTransparency: cfg.TargetTransparency,
		SpatialFeatureSizeA: cfg.SpatialFeatureSizeA, SpatialFeatureSizeB: cfg.SpatialFeatureSizeB,
		TemporalFeatureSizeA: cfg.TemporalFeatureSizeA, TemporalFeatureSizeB: cfg.TemporalFeatureSizeB,
		SeedA: cfg.SeedA, SeedB: cfg.SeedB,
		MinValveDuration: cfg.MinValveDuration,
		PCSPixelDist:     grid.P, NPixels: grid.N,
		XStepA: xStepA, XStepB: xStepB,
		TStepA: deltaTA, TStepB: deltaTB,
	}

	if err := writeFile(r.ProtoPath, func(f *os.File) error {
		return schedule.Write(f, header, r.State)
	}); err != nil {
		return err
	}

	if err := writeFile(r.AlphaPath, func(f *os.File) error {
		return writeAlphaReport(f, r)
	}); err != nil {
		return err
	}

	if err := writeFile(r.PDFPath, func(f *os.File) error {
		return writePDFReport(f, r, cfg.DtFrame)
	}); err != nil {
		return err
	}

	pf, err := os.Create(r.ParquetPath)
	if err != nil {
		return &IOError{Path: r.ParquetPath, Err: err}
	}
	defer pf.Close()
	durMs := int(math.Round(cfg.DtFrame * 1000))
	if err := store.WriteState(pf, r.State, durMs, cfg); err != nil {
		return &IOError{Path: r.ParquetPath, Err: err}
	}

	if err := writeFile(r.MetaPath, func(f *os.File) error {
		return writeMeta(f, r, cfg)
	}); err != nil {
		return err
	}

	return nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Path: path, Err: err}
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

func writeAlphaReport(f *os.File, r *RunResult) error {
	for t, a := range r.AlphaImage {
		converged := "n/a"
		if r.Converged != nil {
			converged = fmt.Sprintf("%v", r.Converged[t])
		}
		if _, err := fmt.Fprintf(f, "%d\t%g\t%g\t%s\n", t, a, r.AlphaValve[t], converged); err != nil {
			return err
		}
	}
	return nil
}

// writePDFReport writes the on/off run-duration PMFs of both the
// pre-adjustment (theoretical) and post-adjustment (jet_grid) valve stacks
// side by side, one duration (in seconds) per row.
func writePDFReport(f *os.File, r *RunResult, dtFrame float64) error {
	last := valves.LastNonzero(r.TheoreticalPDFs.On, r.TheoreticalPDFs.Off, r.JetGridPDFs.On, r.JetGridPDFs.Off)
	for d := 0; d <= last; d++ {
		durationS := float64(d) * dtFrame
		if _, err := fmt.Fprintf(f, "%g\t%g\t%g\t%g\t%g\n",
			durationS,
			r.TheoreticalPDFs.On[d], r.JetGridPDFs.On[d],
			r.TheoreticalPDFs.Off[d], r.JetGridPDFs.Off[d]); err != nil {
			return err
		}
	}
	return nil
}
