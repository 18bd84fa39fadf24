// Package schedule implements the exporter (E): writing and parsing the
// `.proto` schedule textfile.
package schedule

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/dvgjettinggrid/jetgridgen/pkg/grid"
	"github.com/dvgjettinggrid/jetgridgen/pkg/valves"
)

// Header carries every configuration parameter the protocol file records,
// in the fixed order it's written.
type Header struct {
	Type                  string
	Date                  string
	NFrames               int
	DtFrame               float64
	BWThreshold           *float64
	TargetTransparency    *float64
	SpatialFeatureSizeA   float64
	SpatialFeatureSizeB   float64
	TemporalFeatureSizeA  float64
	TemporalFeatureSizeB  float64
	SeedA                 int64
	SeedB                 int64
	MinValveDuration      int
	PCSPixelDist          int
	NPixels               int
	XStepA                float64
	XStepB                float64
	TStepA                float64
	TStepB                float64
}

func optionalFloat(p *float64) string {
	if p == nil {
		return "None"
	}
	return strconv.FormatFloat(*p, 'g', -1, 64)
}

// fields returns the header's key/value pairs in write order, the same
// ordered-table idiom the teacher uses for its parameter listings.
func (h Header) fields() [][2]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return [][2]string{
		{"TYPE", h.Type},
		{"DATE", h.Date},
		{"N_FRAMES", strconv.Itoa(h.NFrames)},
		{"DT_FRAME", f(h.DtFrame) + " s"},
		{"BW_THRESHOLD", optionalFloat(h.BWThreshold)},
		{"TARGET_TRANSPARENCY", optionalFloat(h.TargetTransparency)},
		{"SPATIAL_FEATURE_SIZE_A", f(h.SpatialFeatureSizeA)},
		{"SPATIAL_FEATURE_SIZE_B", f(h.SpatialFeatureSizeB)},
		{"TEMPORAL_FEATURE_SIZE_A", f(h.TemporalFeatureSizeA)},
		{"TEMPORAL_FEATURE_SIZE_B", f(h.TemporalFeatureSizeB)},
		{"SEED_A", strconv.FormatInt(h.SeedA, 10)},
		{"SEED_B", strconv.FormatInt(h.SeedB, 10)},
		{"MIN_VALVE_DURATION", strconv.Itoa(h.MinValveDuration) + " frames"},
		{"PCS_PIXEL_DIST", strconv.Itoa(h.PCSPixelDist)},
		{"N_PIXELS", strconv.Itoa(h.NPixels)},
		{"X_STEP_A", f(h.XStepA)},
		{"X_STEP_B", f(h.XStepB)},
		{"T_STEP_A", f(h.TStepA)},
		{"T_STEP_B", f(h.TStepB)},
	}
}

// headerKeyWidth is the left-padded key column width in the written file.
const headerKeyWidth = 24

// Write emits the `.proto` textfile: a padded [HEADER] key/value block
// followed by one [DATA] line per frame, each a leading duration in integer
// milliseconds then one tab-separated "x,y" token per currently open valve.
func Write(w io.Writer, h Header, st *valves.State) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintln(bw, "[HEADER]"); err != nil {
		return err
	}
	for _, kv := range h.fields() {
		if _, err := fmt.Fprintf(bw, "%-*s %s\n", headerKeyWidth, kv[0], kv[1]); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(bw, "[DATA]"); err != nil {
		return err
	}

	durMs := int(math.Round(h.DtFrame * 1000))
	for t := 0; t < st.T; t++ {
		if _, err := fmt.Fprint(bw, durMs); err != nil {
			return err
		}
		for v := 0; v < grid.V; v++ {
			if !st.At(t, v) {
				continue
			}
			if _, err := fmt.Fprintf(bw, "\t%d,%d", grid.Valve2PCS.X[v], grid.Valve2PCS.Y[v]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(bw); err != nil {
			return err
		}
	}

	return bw.Flush()
}
