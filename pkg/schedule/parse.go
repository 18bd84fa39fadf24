package schedule

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dvgjettinggrid/jetgridgen/pkg/grid"
	"github.com/dvgjettinggrid/jetgridgen/pkg/valves"
)

// pcs2valve is the reverse of grid.Valve2PCS, built once since both are
// fixed lattice constants.
var pcs2valve = func() map[[2]int]int {
	m := make(map[[2]int]int, grid.V)
	for v := 0; v < grid.V; v++ {
		m[[2]int{grid.Valve2PCS.X[v], grid.Valve2PCS.Y[v]}] = v
	}
	return m
}()

func parseOptionalFloat(s string) (*float64, error) {
	if s == "None" || s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func trimSuffixWord(s, suffix string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), suffix))
}

// Parse reads a `.proto` file and reconstructs its header and valve state
// matrix. Feeding a written file back through Parse must reproduce the same
// state matrix the exporter was given (the round-trip law).
func Parse(r io.Reader) (Header, *valves.State, error) {
	var h Header
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	if !sc.Scan() {
		return h, nil, fmt.Errorf("schedule: empty file")
	}
	if strings.TrimSpace(sc.Text()) != "[HEADER]" {
		return h, nil, fmt.Errorf("schedule: missing [HEADER] marker")
	}

	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "[DATA]" {
			break
		}
		key, value := splitHeaderLine(line)
		if err := h.setField(key, value); err != nil {
			return h, nil, err
		}
	}

	var rows [][]string
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	if err := sc.Err(); err != nil {
		return h, nil, err
	}

	st := valves.NewState(len(rows))
	for t, tokens := range rows {
		for _, tok := range tokens[1:] {
			xy := strings.SplitN(tok, ",", 2)
			if len(xy) != 2 {
				return h, nil, fmt.Errorf("schedule: malformed valve token %q at frame %d", tok, t)
			}
			x, err := strconv.Atoi(strings.TrimSpace(xy[0]))
			if err != nil {
				return h, nil, fmt.Errorf("schedule: malformed valve token %q at frame %d: %w", tok, t, err)
			}
			y, err := strconv.Atoi(strings.TrimSpace(xy[1]))
			if err != nil {
				return h, nil, fmt.Errorf("schedule: malformed valve token %q at frame %d: %w", tok, t, err)
			}
			v, ok := pcs2valve[[2]int{x, y}]
			if !ok {
				return h, nil, fmt.Errorf("schedule: (%d,%d) at frame %d is not a valve site", x, y, t)
			}
			st.Set(t, v, true)
		}
	}

	return h, st, nil
}

func splitHeaderLine(line string) (key, value string) {
	if len(line) > headerKeyWidth {
		return strings.TrimSpace(line[:headerKeyWidth]), strings.TrimSpace(line[headerKeyWidth:])
	}
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	key = parts[0]
	if len(parts) > 1 {
		value = strings.TrimSpace(parts[1])
	}
	return key, value
}

func (h *Header) setField(key, value string) error {
	var err error
	switch key {
	case "TYPE":
		h.Type = value
	case "DATE":
		h.Date = value
	case "N_FRAMES":
		h.NFrames, err = strconv.Atoi(value)
	case "DT_FRAME":
		h.DtFrame, err = strconv.ParseFloat(trimSuffixWord(value, "s"), 64)
	case "BW_THRESHOLD":
		h.BWThreshold, err = parseOptionalFloat(value)
	case "TARGET_TRANSPARENCY":
		h.TargetTransparency, err = parseOptionalFloat(value)
	case "SPATIAL_FEATURE_SIZE_A":
		h.SpatialFeatureSizeA, err = strconv.ParseFloat(value, 64)
	case "SPATIAL_FEATURE_SIZE_B":
		h.SpatialFeatureSizeB, err = strconv.ParseFloat(value, 64)
	case "TEMPORAL_FEATURE_SIZE_A":
		h.TemporalFeatureSizeA, err = strconv.ParseFloat(value, 64)
	case "TEMPORAL_FEATURE_SIZE_B":
		h.TemporalFeatureSizeB, err = strconv.ParseFloat(value, 64)
	case "SEED_A":
		h.SeedA, err = strconv.ParseInt(value, 10, 64)
	case "SEED_B":
		h.SeedB, err = strconv.ParseInt(value, 10, 64)
	case "MIN_VALVE_DURATION":
		h.MinValveDuration, err = strconv.Atoi(trimSuffixWord(value, "frames"))
	case "PCS_PIXEL_DIST":
		h.PCSPixelDist, err = strconv.Atoi(value)
	case "N_PIXELS":
		h.NPixels, err = strconv.Atoi(value)
	case "X_STEP_A":
		h.XStepA, err = strconv.ParseFloat(value, 64)
	case "X_STEP_B":
		h.XStepB, err = strconv.ParseFloat(value, 64)
	case "T_STEP_A":
		h.TStepA, err = strconv.ParseFloat(value, 64)
	case "T_STEP_B":
		h.TStepB, err = strconv.ParseFloat(value, 64)
	default:
		return fmt.Errorf("schedule: unrecognized header key %q", key)
	}
	if err != nil {
		return fmt.Errorf("schedule: header key %q: %w", key, err)
	}
	return nil
}
