// Package valves implements the valve sampler (S), the circular dwell-time
// adjuster (A), and run-duration diagnostics (D).
package valves

import (
	"runtime"
	"sync"

	"github.com/dvgjettinggrid/jetgridgen/pkg/binarize"
	"github.com/dvgjettinggrid/jetgridgen/pkg/grid"
)

// State is the [T,V] valve on/off matrix, circular in its first axis.
type State struct {
	T    int
	Data []bool // length T*grid.V, row-major (frame-major)
}

// NewState allocates a zeroed state matrix for T frames.
func NewState(t int) *State {
	return &State{T: t, Data: make([]bool, t*grid.V)}
}

// At reports the on/off state of valve v at frame t.
func (st *State) At(t, v int) bool {
	return st.Data[t*grid.V+v]
}

// Set writes the on/off state of valve v at frame t.
func (st *State) Set(t, v int, on bool) {
	st.Data[t*grid.V+v] = on
}

// Column returns the circular time series for valve v as an owned copy,
// since the dwell adjuster rewrites it independently of the other valves.
func (st *State) Column(v int) []bool {
	col := make([]bool, st.T)
	for t := 0; t < st.T; t++ {
		col[t] = st.At(t, v)
	}
	return col
}

// SetColumn overwrites valve v's full time series.
func (st *State) SetColumn(v int, col []bool) {
	for t := 0; t < st.T; t++ {
		st.Set(t, v, col[t])
	}
}

// AlphaV returns the per-frame valve open-fraction.
func (st *State) AlphaV() []float64 {
	out := make([]float64, st.T)
	for t := 0; t < st.T; t++ {
		count := 0
		for v := 0; v < grid.V; v++ {
			if st.At(t, v) {
				count++
			}
		}
		out[t] = float64(count) / float64(grid.V)
	}
	return out
}

// Sample maps a binarized image stack onto the fixed valve lattice, one
// frame at a time: state[t,v] = bw[t, valve2px_y[v], valve2px_x[v]].
func Sample(bw *binarize.Result, numWorkers int) *State {
	st := NewState(bw.T)

	workers := numWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > bw.T {
		workers = bw.T
	}
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	batch := (bw.T + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * batch
		end := start + batch
		if end > bw.T {
			end = bw.T
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for t := start; t < end; t++ {
				for v := 0; v < grid.V; v++ {
					on := bw.At(t, grid.Valve2Px.Y[v], grid.Valve2Px.X[v])
					st.Set(t, v, on)
				}
			}
		}(start, end)
	}
	wg.Wait()
	return st
}
