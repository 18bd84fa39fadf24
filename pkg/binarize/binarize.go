// Package binarize implements the per-frame binarizer (B): fixed-threshold
// and Newton target-fraction modes.
package binarize

import (
	"runtime"
	"sync"

	"github.com/dvgjettinggrid/jetgridgen/pkg/noisestack"
)

const (
	newtonTol     = 0.02
	newtonMaxIter = 20
	// newtonDx is the finite-difference step used in place of an analytic
	// derivative, since f is piecewise-constant in tau and discontinuous
	// at every pixel value.
	newtonDx = 1e-3
)

// Result is the output of a binarization run: the boolean stack, per-frame
// open-fraction, and (mode 2 only) a per-frame convergence flag.
type Result struct {
	T, H, W   int
	BW        []bool // length T*H*W, row-major like noisestack.Stack
	Alpha     []float64
	Converged []bool // nil in threshold mode
}

func (r *Result) off(t, y, x int) int {
	return (t*r.H+y)*r.W + x
}

// At reports whether pixel (t,y,x) is open.
func (r *Result) At(t, y, x int) bool {
	return r.BW[r.off(t, y, x)]
}

// Threshold binarizes every frame of s against a fixed cut tau: a pixel is
// open iff its value exceeds tau.
func Threshold(s *noisestack.Stack, tau float64, numWorkers int) *Result {
	r := &Result{T: s.T, H: s.H, W: s.W, BW: make([]bool, len(s.Data)), Alpha: make([]float64, s.T)}
	forEachFrame(s.T, numWorkers, func(t int) {
		frame := s.Frame(t)
		count := 0
		base := t * s.H * s.W
		for i, v := range frame {
			if float64(v) > tau {
				r.BW[base+i] = true
				count++
			}
		}
		r.Alpha[t] = float64(count) / float64(s.H*s.W)
	})
	return r
}

// TargetFraction solves, per frame, for the threshold tau_t that makes the
// open-fraction equal target, via a damped Newton/secant iteration over a
// finite-difference slope (the objective is piecewise-constant and
// discontinuous, so no closed-form derivative exists). Divergent frames are
// recorded in Converged, not retried.
func TargetFraction(s *noisestack.Stack, target float64, numWorkers int) *Result {
	r := &Result{
		T: s.T, H: s.H, W: s.W,
		BW:        make([]bool, len(s.Data)),
		Alpha:     make([]float64, s.T),
		Converged: make([]bool, s.T),
	}
	size := float64(s.H * s.W)
	forEachFrame(s.T, numWorkers, func(t int) {
		frame := s.Frame(t)
		tau, converged := solveFrame(frame, target, size)
		count := 0
		base := t * s.H * s.W
		for i, v := range frame {
			if float64(v) > tau {
				r.BW[base+i] = true
				count++
			}
		}
		r.Alpha[t] = float64(count) / size
		r.Converged[t] = converged
	})
	return r
}

func openFraction(frame []float32, tau, size float64) float64 {
	count := 0
	for _, v := range frame {
		if float64(v) > tau {
			count++
		}
	}
	return float64(count) / size
}

func newtonFun(frame []float32, tau, target, size float64) float64 {
	return target - openFraction(frame, tau, size)
}

func solveFrame(frame []float32, target, size float64) (tau float64, converged bool) {
	tau = 1 - target
	f := newtonFun(frame, tau, target, size)
	for iter := 0; iter < newtonMaxIter; iter++ {
		if abs(f) <= newtonTol {
			return tau, true
		}
		fPlus := newtonFun(frame, tau+newtonDx, target, size)
		slope := (fPlus - f) / newtonDx
		if slope == 0 {
			break
		}
		step := f / slope
		// Damp the step so a near-flat region of the step function can't
		// fling tau out of [0,1] in one jump.
		if step > 0.5 {
			step = 0.5
		} else if step < -0.5 {
			step = -0.5
		}
		next := tau - step
		if next < 0 {
			next = 0
		} else if next > 1 {
			next = 1
		}
		tau = next
		f = newtonFun(frame, tau, target, size)
	}
	return tau, abs(f) <= newtonTol
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func forEachFrame(t, numWorkers int, fn func(t int)) {
	workers := numWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > t {
		workers = t
	}
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	batch := (t + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * batch
		end := start + batch
		if end > t {
			end = t
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
