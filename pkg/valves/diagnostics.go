package valves

import "github.com/dvgjettinggrid/jetgridgen/pkg/grid"

// PDFs holds the pooled on/off run-duration probability mass functions,
// indexed by integer duration in frames, bin 0 unused (a run's minimum
// duration is 1 frame) but kept so index == duration.
type PDFs struct {
	On  []float64
	Off []float64
}

// Diagnostics pools every valve's on- and off-run durations (via the same
// segment-detection primitive the adjuster uses) and normalizes each list
// into a PMF over integer durations 0..T-1. A valve whose series is
// constant contributes no segments and is simply skipped.
func Diagnostics(st *State) PDFs {
	onHist := make([]float64, st.T)
	offHist := make([]float64, st.T)

	for v := 0; v < grid.V; v++ {
		col := st.Column(v)
		seg, err := detectSegments(col, v)
		if err != nil {
			continue
		}
		for _, d := range seg.durHi {
			if d >= 0 && d < st.T {
				onHist[d]++
			}
		}
		for _, d := range seg.durLo {
			if d >= 0 && d < st.T {
				offHist[d]++
			}
		}
	}

	normalize(onHist)
	normalize(offHist)
	return PDFs{On: onHist, Off: offHist}
}

func normalize(h []float64) {
	sum := 0.0
	for _, v := range h {
		sum += v
	}
	if sum == 0 {
		return
	}
	for i := range h {
		h[i] /= sum
	}
}

// LastNonzero returns the largest index at which any of the given PMFs is
// nonzero, or -1 if all are all-zero. Reports used to truncate textual
// report output at the last row worth printing.
func LastNonzero(pmfs ...[]float64) int {
	last := -1
	for _, h := range pmfs {
		for i, v := range h {
			if v != 0 && i > last {
				last = i
			}
		}
	}
	return last
}
