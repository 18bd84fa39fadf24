package valves

import (
	"runtime"
	"sync"

	"github.com/dvgjettinggrid/jetgridgen/pkg/grid"
)

func zeroRange(y []bool, a, b int) {
	for i := a; i < b; i++ {
		y[i] = false
	}
}

func fillRange(y []bool, a, b int) {
	for i := a; i < b; i++ {
		y[i] = true
	}
}

func sweepZeroShortOn(seg segments, minDur int) []bool {
	y := append([]bool(nil), seg.rotated...)
	for k, seglen := range seg.durHi {
		if seglen < minDur {
			zeroRange(y, seg.up[k], seg.downStar[k])
		}
	}
	return y
}

func sweepFillShortOff(seg segments, minDur int) []bool {
	y := append([]bool(nil), seg.rotated...)
	for k, seglen := range seg.durLo {
		if seglen < minDur {
			fillRange(y, seg.down[k], seg.up[k])
		}
	}
	return y
}

// adjustColumn rewrites one valve's circular series so every run has
// length >= minDur, alternating sweep order by valve-index parity to avoid
// a systematic drift of the open fraction.
func adjustColumn(col []bool, minDur, valve int) ([]bool, error) {
	if minDur <= 1 {
		return append([]bool(nil), col...), nil
	}

	seg1, err := detectSegments(col, valve)
	if err != nil {
		if _, ok := err.(*NoFlanksDetectedError); ok {
			return append([]bool(nil), col...), nil
		}
		return nil, err
	}

	// A sweep that leaves the series constant ends the rewrite: a constant
	// series is a single circular run, and its phase does not matter.
	var mid []bool
	var midOffset int
	if grid.ValveParity(valve) {
		mid = sweepZeroShortOn(seg1, minDur)
		seg2, err := detectSegments(mid, valve)
		if err != nil {
			if _, ok := err.(*NoFlanksDetectedError); ok {
				return mid, nil
			}
			return nil, err
		}
		mid = sweepFillShortOff(seg2, minDur)
		midOffset = seg2.offset
	} else {
		mid = sweepFillShortOff(seg1, minDur)
		seg2, err := detectSegments(mid, valve)
		if err != nil {
			if _, ok := err.(*NoFlanksDetectedError); ok {
				return mid, nil
			}
			return nil, err
		}
		mid = sweepZeroShortOn(seg2, minDur)
		midOffset = seg2.offset
	}

	seg3, err := detectSegments(mid, valve)
	if err != nil {
		if _, ok := err.(*NoFlanksDetectedError); ok {
			return mid, nil
		}
		return nil, err
	}
	for _, d := range seg3.durLo {
		if d < minDur {
			return nil, &AdjusterInvariantViolationError{Valve: valve, Reason: "an off-run shorter than the minimum dwell time remains"}
		}
	}
	for _, d := range seg3.durHi {
		if d < minDur {
			return nil, &AdjusterInvariantViolationError{Valve: valve, Reason: "an on-run shorter than the minimum dwell time remains"}
		}
	}

	totalOffset := seg1.offset + midOffset + seg3.offset
	return rotate(seg3.rotated, totalOffset), nil
}

// AdjustDwell enforces a minimum run-length on every valve's on- and
// off-segments, preserving the circular timeline. minDur <= 1 disables the
// stage entirely (identity).
func AdjustDwell(st *State, minDur, numWorkers int) (*State, error) {
	out := NewState(st.T)
	if minDur <= 1 {
		copy(out.Data, st.Data)
		return out, nil
	}

	workers := numWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > grid.V {
		workers = grid.V
	}
	if workers < 1 {
		workers = 1
	}

	errs := make([]error, grid.V)
	var wg sync.WaitGroup
	batch := (grid.V + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * batch
		end := start + batch
		if end > grid.V {
			end = grid.V
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for v := start; v < end; v++ {
				col := st.Column(v)
				adjusted, err := adjustColumn(col, minDur, v)
				if err != nil {
					errs[v] = err
					continue
				}
				out.SetColumn(v, adjusted)
			}
		}(start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
