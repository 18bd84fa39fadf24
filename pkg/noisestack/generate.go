package noisestack

import (
	"math"
	"runtime"
	"sync"

	"github.com/dvgjettinggrid/jetgridgen/pkg/simplex"
)

// GenConfig parameterizes one noise stack's generation.
type GenConfig struct {
	T           int     // frame count
	N           int     // image side (H=W=N)
	DtFrame     float64 // temporal noise step per frame (1/TEMPORAL_FEATURE_SIZE), not the frame duration
	XStep       float64 // spatial step, already resolved per the configured X_STEP convention
	Seed        int64
	NumWorkers  int // 0 selects runtime.NumCPU()
}

// Generate produces a stack whose frames trace a closed loop in time: frame
// T is topologically identical to frame 0 because both map onto the same
// point on the (u,w) circle. Work is partitioned across frames, matching
// the fixed-size worker pool convention used throughout this pipeline.
func Generate(cfg GenConfig) *Stack {
	s := New(cfg.T, cfg.N, cfg.N)
	n := simplex.New(cfg.Seed)

	workers := cfg.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > cfg.T {
		workers = cfg.T
	}
	if workers < 1 {
		workers = 1
	}

	r := float64(cfg.T) * cfg.DtFrame / (2 * math.Pi)

	var wg sync.WaitGroup
	batch := (cfg.T + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * batch
		end := start + batch
		if end > cfg.T {
			end = cfg.T
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for t := start; t < end; t++ {
				theta := 2 * math.Pi * float64(t) / float64(cfg.T)
				u := r * math.Sin(theta)
				wv := r * math.Cos(theta)
				for y := 0; y < cfg.N; y++ {
					for x := 0; x < cfg.N; x++ {
						v := n.Eval4(float64(x)*cfg.XStep, float64(y)*cfg.XStep, u, wv)
						s.Set(t, y, x, float32(v))
					}
				}
			}
		}(start, end)
	}
	wg.Wait()
	return s
}
